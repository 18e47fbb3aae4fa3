// Package exportsvc writes entity listings as CSV files or Google Sheets tabs.
package exportsvc

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// Exporter writes rows (a slice of csv-tagged structs) under the given name.
type Exporter interface {
	Export(ctx context.Context, name string, rows interface{}) error
}

// Records marshals rows into a header line followed by one record per row.
func Records(rows interface{}) ([][]string, error) {
	rec := new(recordsWriter)
	if err := gocsv.MarshalCSV(rows, rec); err != nil {
		return nil, errors.Wrap(err, "marshalling rows")
	}
	return rec.records, nil
}

// recordsWriter collects what gocsv writes.
type recordsWriter struct {
	records [][]string
}

func (w *recordsWriter) Write(record []string) error {
	row := make([]string, len(record))
	copy(row, record)
	w.records = append(w.records, row)
	return nil
}

func (w *recordsWriter) Flush()       {}
func (w *recordsWriter) Error() error { return nil }

// CSVExporter writes semicolon separated CSV, the format spreadsheet tools expect in pt-BR locales.
type CSVExporter struct {
	w io.Writer
}

var _ Exporter = (*CSVExporter)(nil)

func NewCSVExporter(w io.Writer) *CSVExporter {
	return &CSVExporter{w: w}
}

func (e *CSVExporter) Export(_ context.Context, _ string, rows interface{}) error {
	csvWriter := csv.NewWriter(e.w)
	csvWriter.Comma = ';'
	csvWriter.UseCRLF = true
	if err := gocsv.MarshalCSV(rows, csvWriter); err != nil {
		return errors.Wrap(err, "writing csv")
	}
	return nil
}
