package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"agrostats/internal/config"
	"agrostats/pkg/contracts/domain"
)

var (
	fourDigits = regexp.MustCompile(`^[0-9]{4}$`)
	// IBGE municipality codes carry a trailing check digit.
	municipalityCode = regexp.MustCompile(`^[0-9]{7}$`)
)

// Result is the outcome of validating a production query.
type Result = domain.ValidationResult

// ParamValidator checks query parameters against format and domain rules.
// It performs no I/O and is safe for concurrent use.
type ParamValidator struct {
	validate      *validator.Validate
	minYear       int
	maxYear       int
	allowed       []string
	variablesRule string
}

// NewParamValidator builds a validator for the configured year range and
// variable set. Both year bounds are inclusive.
func NewParamValidator(cfg config.QueryConfig) *ParamValidator {
	pv := &ParamValidator{
		validate:      validator.New(),
		minYear:       cfg.MinYear,
		maxYear:       cfg.MaxYear,
		allowed:       append([]string(nil), cfg.AllowedVariables...),
		variablesRule: "oneof=" + strings.Join(cfg.AllowedVariables, " "),
	}

	// Registration only fails on an empty tag or nil func.
	_ = pv.validate.RegisterValidation("digits4", func(fl validator.FieldLevel) bool {
		return fourDigits.MatchString(fl.Field().String())
	})
	_ = pv.validate.RegisterValidation("ibge_municipality", func(fl validator.FieldLevel) bool {
		return municipalityCode.MatchString(fl.Field().String())
	})
	_ = pv.validate.RegisterValidation("year_token", func(fl validator.FieldLevel) bool {
		return pv.validYear(fl.Field().String())
	})

	return pv
}

func (pv *ParamValidator) validYear(token string) bool {
	if strings.EqualFold(token, config.LastPeriod) {
		return true
	}
	if !fourDigits.MatchString(token) {
		return false
	}
	year, _ := strconv.Atoi(token)
	return year >= pv.minYear && year <= pv.maxYear
}

// Validate checks every token independently. Each bad year yields its own
// message; bad variables and bad products are reported in one message each.
// The individually valid subsets are returned even when Valid is false.
// A "last" token in any letter case is returned as "last".
func (pv *ParamValidator) Validate(years, variables, products []string) Result {
	res := Result{
		Errors:         []string{},
		ValidYears:     []string{},
		ValidVariables: []string{},
		ValidProducts:  []string{},
	}

	for _, year := range years {
		if err := pv.validate.Var(year, "year_token"); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"invalid year %q: expected a 4-digit year between %d and %d or %q",
				year, pv.minYear, pv.maxYear, config.LastPeriod))
			continue
		}
		if strings.EqualFold(year, config.LastPeriod) {
			year = config.LastPeriod
		}
		res.ValidYears = append(res.ValidYears, year)
	}

	var badVariables []string
	for _, code := range variables {
		if err := pv.validate.Var(code, "required,"+pv.variablesRule); err != nil {
			badVariables = append(badVariables, code)
			continue
		}
		res.ValidVariables = append(res.ValidVariables, code)
	}
	if len(badVariables) > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"invalid variable codes: %s (allowed: %s)",
			strings.Join(quoteAll(badVariables), ", "), strings.Join(pv.allowed, ", ")))
	}

	var badProducts []string
	for _, code := range products {
		if err := pv.validate.Var(code, "digits4"); err != nil {
			badProducts = append(badProducts, code)
			continue
		}
		res.ValidProducts = append(res.ValidProducts, code)
	}
	if len(badProducts) > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"invalid product codes: %s (expected 4 digits)",
			strings.Join(quoteAll(badProducts), ", ")))
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// ValidateRegion checks a territorial scope override: "all" or a list of
// 7-digit IBGE municipality codes. It returns the scope in the remote list
// syntax. An empty list yields "" and no error.
func (pv *ParamValidator) ValidateRegion(tokens []string) (string, error) {
	if len(tokens) == 1 && strings.EqualFold(tokens[0], config.AllRegions) {
		return config.AllRegions, nil
	}

	var bad []string
	for _, code := range tokens {
		if err := pv.validate.Var(code, "ibge_municipality"); err != nil {
			bad = append(bad, code)
		}
	}
	if len(bad) > 0 {
		return "", fmt.Errorf("invalid region: %s (expected %q or 7-digit municipality codes)",
			strings.Join(quoteAll(bad), ", "), config.AllRegions)
	}
	return strings.Join(tokens, ","), nil
}

// ValidateQuery is Validate over a domain.ProductionQuery, plus the
// optional region override.
func (pv *ParamValidator) ValidateQuery(q domain.ProductionQuery) Result {
	res := pv.Validate(q.Years, q.Variables, q.Products)

	region, err := pv.ValidateRegion(q.Region)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		res.Valid = false
		return res
	}
	res.ValidRegion = region
	return res
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strconv.Quote(s)
	}
	return out
}
