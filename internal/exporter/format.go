package exporter

import (
	"fmt"
	"sort"
	"strings"

	"agrostats/internal/dataset"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported formats.
var Formats = []string{string(FormatCSV), string(FormatXLSX)}

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension with its leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Columns returns the export column order of ds: semantic fields first in
// their canonical order, then passthrough columns sorted by name.
func Columns(ds dataset.Dataset) []dataset.Field {
	out := make([]dataset.Field, 0, len(ds.Fields()))
	for _, f := range dataset.SemanticOrder {
		if ds.Has(f) {
			out = append(out, f)
		}
	}

	var rest []dataset.Field
	for _, f := range ds.Fields() {
		if !dataset.IsSemantic(f) {
			rest = append(rest, f)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

	return append(out, rest...)
}

func headers(cols []dataset.Field) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = string(c)
	}
	return out
}
