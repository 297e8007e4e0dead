package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"agrostats/internal/dataset"
)

// SheetName is the worksheet holding exported records.
const SheetName = "producao"

// WriteXLSX writes ds to w as a single-sheet workbook. Numeric columns are
// stored as numbers and missing cells are left blank.
func WriteXLSX(w io.Writer, ds dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	cols := Columns(ds)
	header := make([]interface{}, len(cols))
	columns := make([]*dataset.Column, len(cols))
	for i, name := range cols {
		header[i] = string(name)
		columns[i], _ = ds.Column(name)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for row := 0; row < ds.Len(); row++ {
		values := make([]interface{}, len(columns))
		for i, c := range columns {
			if v, ok := c.Value(row); ok {
				values[i] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write record %d: %w", row, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f.Write(w)
}
