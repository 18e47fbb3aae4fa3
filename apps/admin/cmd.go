package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
	"github.com/smaipa/smaipa/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword      // mockable
	gooseRunFunc     = database.RunMigrations // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sql.DB
	conf       *core.Config
	logger     core.Logger
	out        io.Writer
	validate   *validator.Validate
	translator ut.Translator

	escolaSvc    escola.Service
	turmaSvc     turma.Service
	alunoSvc     aluno.Service
	avaliacaoSvc avaliacao.Service
	descritorSvc descritor.Service
	gabaritoSvc  gabarito.Service
	usuarioSvc   usuario.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run a goose command (up, down, status, redo, version, up-to N, down-to N...)")
	fmt.Fprintln(cli.out, "  adduser -nome NOME -email EMAIL [-role secretaria|escola] [-escola ID] - create a usuario")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset a usuario's password")
	fmt.Fprintf(cli.out, "  export -resource %s -format csv|sheets [-out FILE] [-spreadsheet ID] - export a listing\n",
		strings.Join(exportResources, "|"))
}

// promptPassword reads a password from the terminal without echoing it.
func (cli *commandLine) promptPassword(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserNome := addUserCmd.String("nome", "", "The usuario's full name.")
	addUserEmail := addUserCmd.String("email", "", "The usuario's e-mail. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", string(usuario.RoleSecretaria), "The usuario's role (secretaria or escola).")
	addUserEscola := addUserCmd.String("escola", "", "The escola ID; required for the escola role.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordCmd.SetOutput(cli.out)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The usuario's e-mail. The password will be prompted next.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportCmd.SetOutput(cli.out)
	exportResource := exportCmd.String("resource", "", "What to export: "+strings.Join(exportResources, ", ")+".")
	exportFormat := exportCmd.String("format", formatCSV, "Output format: csv or sheets.")
	exportOut := exportCmd.String("out", "", "CSV output file (default: standard output).")
	exportSpreadsheet := exportCmd.String("spreadsheet", cli.conf.Sheets.SpreadsheetID, "Target spreadsheet ID for the sheets format.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserNome == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(usuario.NewUsuario{
			Nome:     *addUserNome,
			Email:    *addUserEmail,
			Role:     usuario.Role(*addUserRole),
			EscolaID: *addUserEscola,
			Senha:    pwd,
		})

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *exportResource == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(exportOptions{
			resource:      *exportResource,
			format:        *exportFormat,
			out:           *exportOut,
			spreadsheetID: *exportSpreadsheet,
		})

	default:
		cli.printUsage()
		return errHelp
	}
}
