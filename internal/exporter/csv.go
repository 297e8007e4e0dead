package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"agrostats/internal/dataset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	Comma     rune
}

// WriteCSV writes ds to w as CSV with a header row. Missing cells are empty.
func WriteCSV(w io.Writer, ds dataset.Dataset, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if opts.Comma != 0 {
		writer.Comma = opts.Comma
	}

	cols := Columns(ds)
	if err := writer.Write(headers(cols)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	columns := make([]*dataset.Column, len(cols))
	for i, f := range cols {
		columns[i], _ = ds.Column(f)
	}

	record := make([]string, len(cols))
	for row := 0; row < ds.Len(); row++ {
		for i, c := range columns {
			record[i], _ = c.Text(row)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", row, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
