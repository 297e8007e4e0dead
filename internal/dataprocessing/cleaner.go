package dataprocessing

import (
	"log/slog"

	"agrostats/internal/dataset"
)

// Drop reasons reported by Clean.
const (
	DropMissingValue        = "missing_value"
	DropMissingYear         = "missing_year"
	DropNonPositiveValue    = "non_positive_value"
	DropMissingMunicipality = "missing_municipality_code"
)

// CleanReport counts the rows removed by each filter.
type CleanReport map[string]int

// Total returns the number of rows removed.
func (r CleanReport) Total() int {
	n := 0
	for _, v := range r {
		n += v
	}
	return n
}

type rowFilter struct {
	reason string
	field  dataset.Field
	keep   func(col *dataset.Column, row int) bool
}

var rowFilters = []rowFilter{
	{
		reason: DropMissingValue,
		field:  dataset.FieldValue,
		keep:   func(c *dataset.Column, i int) bool { return !c.Missing(i) },
	},
	{
		reason: DropMissingYear,
		field:  dataset.FieldYear,
		keep:   func(c *dataset.Column, i int) bool { return !c.Missing(i) },
	},
	{
		reason: DropNonPositiveValue,
		field:  dataset.FieldValue,
		keep: func(c *dataset.Column, i int) bool {
			v, ok := c.Number(i)
			return ok && v > 0
		},
	},
	{
		reason: DropMissingMunicipality,
		field:  dataset.FieldMunicipalityCode,
		keep:   func(c *dataset.Column, i int) bool { return !c.Missing(i) },
	},
}

// Clean applies the row filters in order. A filter whose field is absent is
// skipped. Surviving rows are never modified.
func Clean(ds dataset.Dataset, logger *slog.Logger) (dataset.Dataset, CleanReport) {
	report := CleanReport{}
	out := ds

	for _, f := range rowFilters {
		col, ok := out.Column(f.field)
		if !ok {
			logger.Debug("skipping row filter, field absent",
				slog.String("filter", f.reason),
				slog.String("field", string(f.field)))
			continue
		}

		before := out.Len()
		out = out.Filter(func(row int) bool { return f.keep(col, row) })
		if dropped := before - out.Len(); dropped > 0 {
			report[f.reason] = dropped
		}
	}

	if report.Total() > 0 {
		logger.Info("rows removed by cleaner",
			slog.Int("kept", out.Len()),
			slog.Int("dropped", report.Total()),
			slog.Any("by_reason", map[string]int(report)))
	}
	return out, report
}
