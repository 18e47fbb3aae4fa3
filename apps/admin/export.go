package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
	exportsvc "github.com/smaipa/smaipa/services/export"
)

const (
	formatCSV    = "csv"
	formatSheets = "sheets"
)

var exportResources = []string{"escolas", "turmas", "alunos", "avaliacoes", "descritores", "gabaritos", "usuarios"}

// mockable
var newSheetsExporter = func(ctx context.Context, spreadsheetID, credentialsFile string, logger core.Logger) (exportsvc.Exporter, error) {
	return exportsvc.NewSheetsExporter(ctx, spreadsheetID, credentialsFile, logger)
}

type exportOptions struct {
	resource      string
	format        string
	out           string
	spreadsheetID string
}

func (cli *commandLine) export(opts exportOptions) error {
	ctx := context.Background()

	rows, err := cli.exportRows(ctx, opts.resource)
	if err != nil {
		return err
	}

	var exporter exportsvc.Exporter
	switch opts.format {
	case formatCSV:
		w := cli.out
		if opts.out != "" {
			f, err := os.Create(opts.out)
			if err != nil {
				return errors.Wrap(err, "creating output file")
			}
			defer f.Close()
			w = f
		}
		exporter = exportsvc.NewCSVExporter(w)
	case formatSheets:
		if opts.spreadsheetID == "" {
			return errors.New("export: -spreadsheet is required for the sheets format")
		}
		if exporter, err = newSheetsExporter(ctx, opts.spreadsheetID, cli.conf.Sheets.CredentialsFile, cli.logger); err != nil {
			return err
		}
	default:
		return fmt.Errorf("export: unknown format %q", opts.format)
	}

	if err := exporter.Export(ctx, opts.resource, rows); err != nil {
		return errors.Wrapf(err, "exporting %s", opts.resource)
	}
	if opts.out != "" || opts.format == formatSheets {
		fmt.Fprintf(cli.out, "%s exported\n", opts.resource)
	}
	return nil
}

// exportRows lists every record of resource in its default ordering.
func (cli *commandLine) exportRows(ctx context.Context, resource string) (interface{}, error) {
	switch resource {
	case "escolas":
		escolas, err := cli.escolaSvc.Query(ctx, nil, nil)
		return exportsvc.EscolaRows(escolas), err
	case "turmas":
		turmas, err := cli.turmaSvc.Query(ctx, nil, nil)
		return exportsvc.TurmaRows(turmas), err
	case "alunos":
		alunos, err := cli.alunoSvc.Query(ctx, nil, nil)
		return exportsvc.AlunoRows(alunos), err
	case "avaliacoes":
		avaliacoes, err := cli.avaliacaoSvc.Query(ctx, nil, nil)
		return exportsvc.AvaliacaoRows(avaliacoes), err
	case "descritores":
		descritores, err := cli.descritorSvc.Query(ctx, nil, nil)
		return exportsvc.DescritorRows(descritores), err
	case "gabaritos":
		gabaritos, err := cli.gabaritoSvc.Query(ctx, nil, nil)
		return exportsvc.GabaritoRows(gabaritos), err
	case "usuarios":
		usuarios, err := cli.usuarioSvc.Query(ctx, nil, nil)
		return exportsvc.UsuarioRows(usuarios), err
	default:
		return nil, fmt.Errorf("export: unknown resource %q", resource)
	}
}
