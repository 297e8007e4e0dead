package dataprocessing

import (
	"log/slog"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"agrostats/internal/dataset"
)

// MatchRule assigns Target to a raw column whose name is one of Codes, or
// whose lowercased name contains one of Patterns.
type MatchRule struct {
	Codes    []string
	Patterns []string
	Target   dataset.Field
}

// MappingRules is evaluated top to bottom; the first matching rule wins.
// Code-specific labels ("... (código)") precede their plain counterparts so
// the plain pattern never shadows them. Patterns keep their accents, which
// keeps them from matching the ASCII semantic names.
var MappingRules = []MatchRule{
	{Codes: []string{"NC"}, Patterns: []string{"nível territorial (código)"}, Target: dataset.FieldLevelCode},
	{Codes: []string{"NN"}, Patterns: []string{"nível territorial"}, Target: dataset.FieldLevel},
	{Codes: []string{"MC"}, Patterns: []string{"unidade de medida (código)"}, Target: dataset.FieldUnitCode},
	{Codes: []string{"MN"}, Patterns: []string{"unidade de medida"}, Target: dataset.FieldUnit},
	{Codes: []string{"V"}, Patterns: []string{"valor"}, Target: dataset.FieldValue},
	{Codes: []string{"D1C"}, Patterns: []string{"município (código)"}, Target: dataset.FieldLocalityCode},
	{Codes: []string{"D1N"}, Patterns: []string{"município"}, Target: dataset.FieldLocality},
	{Codes: []string{"D2C", "D2N"}, Patterns: []string{"ano"}, Target: dataset.FieldYear},
	{Codes: []string{"D3C"}, Patterns: []string{"variável (código)"}, Target: dataset.FieldVariableCode},
	{Codes: []string{"D3N"}, Patterns: []string{"variável"}, Target: dataset.FieldVariable},
	{Codes: []string{"D4C"}, Patterns: []string{"produto das lavouras temporárias (código)"}, Target: dataset.FieldProductCode},
	{Codes: []string{"D4N"}, Patterns: []string{"produto das lavouras"}, Target: dataset.FieldProduct},
}

// Matches reports whether the rule applies to a raw column name.
func (r MatchRule) Matches(raw, lowered string) bool {
	for _, code := range r.Codes {
		if raw == code {
			return true
		}
	}
	for _, p := range r.Patterns {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// ColumnMapper renames raw SIDRA columns to semantic field names.
type ColumnMapper struct {
	rules  []MatchRule
	logger *slog.Logger
}

// NewColumnMapper returns a mapper over MappingRules.
func NewColumnMapper(logger *slog.Logger) *ColumnMapper {
	return NewColumnMapperWithRules(MappingRules, logger)
}

// NewColumnMapperWithRules returns a mapper over a custom rule list.
func NewColumnMapperWithRules(rules []MatchRule, logger *slog.Logger) *ColumnMapper {
	return &ColumnMapper{
		rules:  rules,
		logger: logger.With(slog.String("component", "column_mapper")),
	}
}

// Resolve returns the semantic name for a raw column, or false when no rule
// matches.
func (m *ColumnMapper) Resolve(raw string) (dataset.Field, bool) {
	return m.resolve(raw, cases.Lower(language.Und))
}

func (m *ColumnMapper) resolve(raw string, lower cases.Caser) (dataset.Field, bool) {
	trimmed := strings.TrimSpace(raw)
	lowered := lower.String(norm.NFC.String(trimmed))
	for _, rule := range m.rules {
		if rule.Matches(trimmed, lowered) {
			return rule.Target, true
		}
	}
	return "", false
}

// Map returns a new frame whose columns carry semantic names. Unmatched
// columns pass through under their raw name. When two columns resolve to the
// same name only the first is kept. An empty or errored frame yields an
// empty frame without evaluating any rule.
func (m *ColumnMapper) Map(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Err != nil || df.Nrow() == 0 || df.Ncol() == 0 {
		return dataframe.DataFrame{}
	}

	lower := cases.Lower(language.Und)
	claimed := make(map[string]string, df.Ncol())
	cols := make([]series.Series, 0, df.Ncol())

	for _, raw := range df.Names() {
		name := raw
		if target, ok := m.resolve(raw, lower); ok {
			name = string(target)
		}

		if first, taken := claimed[name]; taken {
			m.logger.Debug("dropping column with an already claimed name",
				slog.String("column", raw),
				slog.String("target", name),
				slog.String("kept", first))
			continue
		}
		claimed[name] = raw

		s := df.Col(raw).Copy()
		s.Name = name
		cols = append(cols, s)
	}

	return dataframe.New(cols...)
}
