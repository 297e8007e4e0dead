package dataprocessing

import (
	"log/slog"
	"regexp"
	"strings"

	"agrostats/internal/dataset"
)

// compositePattern splits "Name (1234567)" into its name and optional code.
var compositePattern = regexp.MustCompile(`^\s*(.*?)\s*(?:\((\d+)\))?\s*$`)

// SplitComposite parses a composite territorial value. name falls back to the
// raw value when no name could be isolated; code is "" when absent.
func SplitComposite(raw string) (name, code string) {
	m := compositePattern.FindStringSubmatch(raw)
	if m == nil {
		return raw, ""
	}
	if m[1] == "" {
		return raw, m[2]
	}
	return m[1], m[2]
}

// ExtractMunicipality replaces the composite locality column with separate
// municipality name and code columns. Codes come from the parenthesized
// suffix. Rows without one keep a code already present in the input; when
// the input had no code column they take the raw locality code column, if
// any. A dataset without the composite column is returned unchanged.
func ExtractMunicipality(ds dataset.Dataset, logger *slog.Logger) (dataset.Dataset, error) {
	composite, ok := ds.Column(dataset.FieldLocality)
	if !ok {
		return ds, nil
	}

	n := ds.Len()
	names := make([]string, n)
	nameValid := make([]bool, n)
	codes := make([]string, n)
	codeValid := make([]bool, n)

	existing, hadCode := ds.Column(dataset.FieldMunicipalityCode)
	fallback, hasFallback := ds.Column(dataset.FieldLocalityCode)

	fromFallback := 0
	for i := 0; i < n; i++ {
		raw, present := composite.Text(i)
		if present {
			names[i], codes[i] = SplitComposite(raw)
			nameValid[i] = true
			codeValid[i] = codes[i] != ""
		}
		if codeValid[i] {
			continue
		}

		if hadCode {
			if v, ok := existing.Text(i); ok && strings.TrimSpace(v) != "" {
				codes[i], codeValid[i] = v, true
			}
			continue
		}
		if hasFallback {
			if v, ok := fallback.Text(i); ok && strings.TrimSpace(v) != "" {
				codes[i], codeValid[i] = v, true
				fromFallback++
			}
		}
	}

	if fromFallback > 0 {
		logger.Debug("municipality codes resolved from fallback column",
			slog.Int("rows", fromFallback))
	}

	out := ds.Without(dataset.FieldLocality)
	out, err := out.With(dataset.NewTextColumn(dataset.FieldMunicipalityName, names, nameValid))
	if err != nil {
		return dataset.Empty(), err
	}
	return out.With(dataset.NewTextColumn(dataset.FieldMunicipalityCode, codes, codeValid))
}
