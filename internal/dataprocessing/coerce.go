package dataprocessing

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"agrostats/internal/dataset"
)

// placeholderDash marks a suppressed or unavailable value.
const placeholderDash = "-"

// numericFields are coerced to numbers; every other text column is trimmed.
var numericFields = []dataset.Field{
	dataset.FieldYear,
	dataset.FieldValue,
	dataset.FieldMunicipalityCode,
	dataset.FieldProductCode,
	dataset.FieldLevelCode,
}

func isNumericField(f dataset.Field) bool {
	for _, n := range numericFields {
		if n == f {
			return true
		}
	}
	return false
}

// ParseNumber parses a trimmed decimal. Anything else, including NaN and
// infinities, reports false.
func ParseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// CoerceTypes converts the numeric fields to numbers and trims every other
// text column. Unparseable cells become missing; no column is dropped.
func CoerceTypes(ds dataset.Dataset, logger *slog.Logger) (dataset.Dataset, error) {
	out := ds
	for _, field := range ds.Fields() {
		col, _ := ds.Column(field)
		if col.Kind() != dataset.KindText {
			continue
		}

		texts, valid := col.Texts()
		var (
			next *dataset.Column
			err  error
		)
		if isNumericField(field) {
			next = toNumber(field, texts, valid, logger)
		} else {
			for i := range texts {
				texts[i] = strings.TrimSpace(texts[i])
			}
			next = dataset.NewTextColumn(field, texts, valid)
		}

		out, err = out.With(next)
		if err != nil {
			return dataset.Empty(), err
		}
	}
	return out, nil
}

func toNumber(field dataset.Field, texts []string, valid []bool, logger *slog.Logger) *dataset.Column {
	nums := make([]float64, len(texts))
	ok := make([]bool, len(texts))
	failed := 0

	for i, s := range texts {
		if !valid[i] {
			continue
		}
		if field == dataset.FieldValue && strings.TrimSpace(s) == placeholderDash {
			continue
		}
		if nums[i], ok[i] = ParseNumber(s); !ok[i] {
			failed++
		}
	}

	if failed > 0 {
		logger.Debug("non-numeric cells set to missing",
			slog.String("field", string(field)),
			slog.Int("cells", failed))
	}
	return dataset.NewNumberColumn(field, nums, ok)
}
