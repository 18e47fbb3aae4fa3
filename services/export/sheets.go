package exportsvc

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/smaipa/smaipa/core"
)

// SheetsExporter replaces the content of one tab per export in a spreadsheet.
type SheetsExporter struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        core.Logger
}

var _ Exporter = (*SheetsExporter)(nil)

// NewSheetsExporter authenticates with a service account credentials file.
func NewSheetsExporter(ctx context.Context, spreadsheetID, credentialsFile string, logger core.Logger) (*SheetsExporter, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading credentials file")
	}
	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, errors.Wrap(err, "configuring JWT from credentials")
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, errors.Wrap(err, "creating sheets client")
	}
	return &SheetsExporter{svc: svc, spreadsheetID: spreadsheetID, logger: logger}, nil
}

func (e *SheetsExporter) Export(ctx context.Context, name string, rows interface{}) error {
	records, err := Records(rows)
	if err != nil {
		return err
	}
	if err := e.ensureSheet(ctx, name); err != nil {
		return err
	}

	clearRange := fmt.Sprintf("'%s'!A1:ZZ", name)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return errors.Wrapf(err, "clearing range %s", clearRange)
	}

	values := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		row := make([]interface{}, 0, len(rec))
		for _, v := range rec {
			row = append(row, v)
		}
		values = append(values, row)
	}
	writeRange := fmt.Sprintf("'%s'!A1", name)
	_, err = e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrapf(err, "writing %d rows to %s", len(values), name)
	}
	e.logger.Info(fmt.Sprintf("sheets: %d rows written to %s", len(values)-1, name))
	return nil
}

func (e *SheetsExporter) ensureSheet(ctx context.Context, name string) error {
	spreadsheet, err := e.svc.Spreadsheets.Get(e.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "getting spreadsheet")
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == name {
			return nil
		}
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: name}},
		}},
	}
	if _, err := e.svc.Spreadsheets.BatchUpdate(e.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return errors.Wrapf(err, "creating sheet %s", name)
	}
	return nil
}
