package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
	appfs "github.com/smaipa/smaipa/fs"
	emailsvc "github.com/smaipa/smaipa/services/email"
	exportsvc "github.com/smaipa/smaipa/services/export"
	inmemdb "github.com/smaipa/smaipa/storage/database/inmem"
	testutil "github.com/smaipa/smaipa/tests"
)

type testEnv struct {
	cli        *commandLine
	out        *bytes.Buffer
	mail       *emailsvc.ConsoleServiceMock
	escolaRepo escola.Repository
	turmaRepo  turma.Repository
	usrRepo    usuario.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	conf := testutil.NewConfig()
	logger := testutil.NewLogger()
	validate, translator := testutil.NewValidator()
	core.ParseEmailTemplates(appfs.Templates, appfs.EmailTemplatesDir, true, logger)

	db := inmemdb.Open()
	env := &testEnv{
		out:        new(bytes.Buffer),
		mail:       emailsvc.NewConsoleServiceMock(conf, logger),
		escolaRepo: inmemdb.NewEscolaRepository(db),
		turmaRepo:  inmemdb.NewTurmaRepository(db),
		usrRepo:    inmemdb.NewUsuarioRepository(db),
	}
	avaliacaoRepo := inmemdb.NewAvaliacaoRepository(db)
	descritorRepo := inmemdb.NewDescritorRepository(db)

	// start CLI
	env.cli = &commandLine{
		conf:         conf,
		logger:       logger,
		out:          env.out,
		validate:     validate,
		translator:   translator,
		escolaSvc:    escola.NewService(env.escolaRepo),
		turmaSvc:     turma.NewService(env.turmaRepo, env.escolaRepo),
		alunoSvc:     aluno.NewService(inmemdb.NewAlunoRepository(db), env.turmaRepo),
		avaliacaoSvc: avaliacao.NewService(avaliacaoRepo),
		descritorSvc: descritor.NewService(descritorRepo),
		gabaritoSvc:  gabarito.NewService(inmemdb.NewGabaritoRepository(db), avaliacaoRepo, descritorRepo),
		usuarioSvc:   usuario.NewService(env.usrRepo, env.escolaRepo, env.mail),
	}
	return env
}

// mockPassword makes the password prompt return pwd.
func mockPassword(t *testing.T, pwd string) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Equal(t, tt.wantErrStr, err.Error())
		}
	default:
		assert.NoError(t, err)
	}
}

func TestUsage(t *testing.T) {
	env := setup(t)

	assert.Equal(t, errHelp, env.cli.run([]string{"admin"}))
	assert.Equal(t, errHelp, env.cli.run([]string{"admin", "lol"}))
	assert.Contains(t, env.out.String(), "resetpassword -email EMAIL")
}

func Test_commandLine_migrate(t *testing.T) {
	env := setup(t)

	var gotCommand string
	orig := gooseRunFunc
	t.Cleanup(func() { gooseRunFunc = orig })
	gooseRunFunc = func(db *sql.DB, command string, args ...string) error {
		gotCommand = command
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}, extra: "up"},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}, extra: "up-by-one"},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}, extra: "up-to"},
		{name: "down", args: []string{"migrate", "down"}, extra: "down"},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}, extra: "down-to"},
		{name: "redo", args: []string{"migrate", "redo"}, extra: "redo"},
		{name: "reset", args: []string{"migrate", "reset"}, extra: "reset"},
		{name: "status", args: []string{"migrate", "status"}, extra: "status"},
		{name: "version", args: []string{"migrate", "version"}, extra: "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCommand = ""
			err := env.cli.run(append([]string{"admin"}, tt.args...))
			tt.check(t, err)
			if want, ok := tt.extra.(string); ok {
				assert.Equal(t, want, gotCommand)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	env := setup(t)
	esc := testutil.CreateEscola(t, env.escolaRepo, "Escola Cecília Meireles", "23456789")
	testutil.CreateUsuario(t, env.usrRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")

	fieldErr := func(field, msg string) error {
		return core.NewValidationError(nil, core.FieldError{Field: field, Error: msg})
	}

	tests := []cliTest{
		{name: "no flags", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no email", args: []string{"adduser", "-nome", "Bia"}, wantErr: errHelp},
		{name: "empty password", args: []string{"adduser", "-nome", "Bia", "-email", "bia@smaipa.test"}, wantErr: errHelp, extra: ""},
		{
			name:    "escola role without escola",
			args:    []string{"adduser", "-nome", "Bia Lima", "-email", "bia@smaipa.test", "-role", "escola"},
			wantErr: fieldErr("escolaId", "usuários do perfil escola devem informar a escola"),
		},
		{
			name:    "secretaria with escola",
			args:    []string{"adduser", "-nome", "Bia Lima", "-email", "bia@smaipa.test", "-escola", esc.ID},
			wantErr: fieldErr("escolaId", "usuários da secretaria não pertencem a uma escola"),
		},
		{
			name:    "weak password",
			args:    []string{"adduser", "-nome", "Bia Lima", "-email", "bia@smaipa.test"},
			wantErr: fieldErr("senha", "a senha não pode ser inteiramente numérica"),
			extra:   "12345678",
		},
		{
			name:       "duplicate email",
			args:       []string{"adduser", "-nome", "Ana Maria", "-email", "ANA@smaipa.test"},
			wantErrStr: usuario.ErrEmailExists.Error(),
		},
		{name: "secretaria", args: []string{"adduser", "-nome", "Bia Lima", "-email", "bia@smaipa.test"}},
		{name: "escola", args: []string{"adduser", "-nome", "Caio Reis", "-email", "caio@smaipa.test", "-role", "escola", "-escola", esc.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pwd := testutil.Senha
			if p, ok := tt.extra.(string); ok {
				pwd = p
			}
			mockPassword(t, pwd)
			env.mail.Reset()

			err := env.cli.run(append([]string{"admin"}, tt.args...))
			tt.check(t, err)
			if err != nil {
				assert.Empty(t, env.mail.SentMessages())
				return
			}
			assert.Len(t, env.mail.SentMessages(), 1)
		})
	}

	u, err := env.usrRepo.GetUsuarioByEmail(context.Background(), "caio@smaipa.test")
	require.NoError(t, err)
	assert.Equal(t, usuario.RoleEscola, u.Role)
	assert.Equal(t, esc.ID, u.EscolaID)
	assert.NoError(t, u.CheckPassword(testutil.Senha))
}

func Test_commandLine_resetPassword(t *testing.T) {
	env := setup(t)
	usr := testutil.CreateUsuario(t, env.usrRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")
	newPwd := "N0va&Senha"

	tests := []cliTest{
		{name: "no email", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "empty password", args: []string{"resetpassword", "-email", usr.Email}, wantErr: errHelp, extra: ""},
		{name: "unknown usuario", args: []string{"resetpassword", "-email", "lol@smaipa.test"}, wantErr: usuario.ErrNotFound, extra: newPwd},
		{name: "all numeric password", args: []string{"resetpassword", "-email", usr.Email}, wantErrStr: "senha: a senha não pode ser inteiramente numérica", extra: "12345678"},
		{name: "short password", args: []string{"resetpassword", "-email", usr.Email}, wantErrStr: "senha: a senha deve conter pelo menos 8 caracteres", extra: "Ab1#"},
		{name: "ok", args: []string{"resetpassword", "-email", "  ANA@smaipa.test "}, extra: newPwd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pwd, _ := tt.extra.(string)
			mockPassword(t, pwd)
			err := env.cli.run(append([]string{"admin"}, tt.args...))
			tt.check(t, err)
		})
	}

	refreshed, err := env.usrRepo.GetUsuarioByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.Error(t, refreshed.CheckPassword(testutil.Senha))
	assert.NoError(t, refreshed.CheckPassword(newPwd))
}

type fakeExporter struct {
	name string
	rows interface{}
}

func (e *fakeExporter) Export(_ context.Context, name string, rows interface{}) error {
	e.name, e.rows = name, rows
	return nil
}

func Test_commandLine_export(t *testing.T) {
	env := setup(t)
	esc := testutil.CreateEscola(t, env.escolaRepo, "Escola Cecília Meireles", "23456789")
	testutil.CreateTurma(t, env.turmaRepo, esc.ID, "6A", "2024", turma.TurnoMatutino)

	t.Run("usage", func(t *testing.T) {
		assert.Equal(t, errHelp, env.cli.run([]string{"admin", "export"}))
	})

	t.Run("unknown resource", func(t *testing.T) {
		err := env.cli.run([]string{"admin", "export", "-resource", "lol"})
		assert.EqualError(t, err, `export: unknown resource "lol"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		err := env.cli.run([]string{"admin", "export", "-resource", "escolas", "-format", "xls"})
		assert.EqualError(t, err, `export: unknown format "xls"`)
	})

	t.Run("csv to stdout", func(t *testing.T) {
		env.out.Reset()
		require.NoError(t, env.cli.run([]string{"admin", "export", "-resource", "escolas"}))
		lines := strings.Split(strings.TrimSpace(env.out.String()), "\r\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "id;nome;inep;endereco;telefone;diretor", lines[0])
		assert.Equal(t, esc.ID+";Escola Cecília Meireles;23456789;;;", lines[1])
	})

	t.Run("csv to file", func(t *testing.T) {
		env.out.Reset()
		path := filepath.Join(t.TempDir(), "turmas.csv")
		require.NoError(t, env.cli.run([]string{"admin", "export", "-resource", "turmas", "-out", path}))
		assert.Equal(t, "turmas exported\n", env.out.String())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), ";6A;2024;Matutino;"+esc.ID)
	})

	t.Run("sheets", func(t *testing.T) {
		fake := new(fakeExporter)
		var gotID string
		orig := newSheetsExporter
		t.Cleanup(func() { newSheetsExporter = orig })
		newSheetsExporter = func(_ context.Context, spreadsheetID, _ string, _ core.Logger) (exportsvc.Exporter, error) {
			gotID = spreadsheetID
			return fake, nil
		}

		err := env.cli.run([]string{"admin", "export", "-resource", "escolas", "-format", "sheets"})
		assert.EqualError(t, err, "export: -spreadsheet is required for the sheets format")

		require.NoError(t, env.cli.run([]string{"admin", "export", "-resource", "escolas", "-format", "sheets", "-spreadsheet", "sheet-1"}))
		assert.Equal(t, "sheet-1", gotID)
		assert.Equal(t, "escolas", fake.name)
		assert.Equal(t, exportsvc.EscolaRows([]escola.Escola{esc}), fake.rows)
	})

	t.Run("export failure", func(t *testing.T) {
		orig := newSheetsExporter
		t.Cleanup(func() { newSheetsExporter = orig })
		newSheetsExporter = func(context.Context, string, string, core.Logger) (exportsvc.Exporter, error) {
			return nil, errors.New("no credentials")
		}
		err := env.cli.run([]string{"admin", "export", "-resource", "escolas", "-format", "sheets", "-spreadsheet", "sheet-1"})
		assert.EqualError(t, err, "no credentials")
	})
}
