package dataprocessing

import (
	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"agrostats/internal/dataset"
)

// nanEscape stands in for a literal "NaN" cell while it sits in the frame;
// gota string series would otherwise read it as missing.
const nanEscape = "\x00NaN"

// LoadFrame materializes a raw payload into a frame of string columns. Rows
// whose arity differs from the header are dropped and counted. Empty cells
// load as missing. A repeated header name keeps its first column only.
func LoadFrame(header []string, rows [][]string, logger *slog.Logger) (dataframe.DataFrame, int) {
	keep := make([]int, 0, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if seen[name] {
			logger.Warn("dropping duplicate column",
				slog.String("column", name),
				slog.Int("position", i))
			continue
		}
		seen[name] = true
		keep = append(keep, i)
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, project(header, keep))

	dropped := 0
	for i, row := range rows {
		if len(row) != len(header) {
			dropped++
			logger.Warn("dropping row with wrong arity",
				slog.Int("row", i+1),
				slog.Int("cells", len(row)),
				slog.Int("expected", len(header)))
			continue
		}
		out := project(row, keep)
		for j, cell := range out {
			if cell == "NaN" {
				out[j] = nanEscape
			}
		}
		records = append(records, out)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{""}),
	)
	return df, dropped
}

func project(row []string, keep []int) []string {
	out := make([]string, len(keep))
	for j, i := range keep {
		out[j] = row[i]
	}
	return out
}

// FrameToDataset copies a frame into an explicit dataset of text columns.
// An errored frame yields an empty dataset.
func FrameToDataset(df dataframe.DataFrame) (dataset.Dataset, error) {
	if df.Err != nil || df.Ncol() == 0 {
		return dataset.Empty(), nil
	}

	cols := make([]*dataset.Column, 0, df.Ncol())
	for _, name := range df.Names() {
		s := df.Col(name)
		values := s.Records()
		nan := s.IsNaN()
		valid := make([]bool, len(values))
		for i := range values {
			valid[i] = !nan[i]
			if values[i] == nanEscape {
				values[i] = "NaN"
			}
		}
		cols = append(cols, dataset.NewTextColumn(dataset.Field(name), values, valid))
	}
	return dataset.New(cols...)
}
