package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrostats/internal/config"
	"agrostats/pkg/contracts/domain"
)

func newValidator() *ParamValidator {
	return NewParamValidator(config.Default().Query)
}

func TestValidateYears(t *testing.T) {
	v := newValidator()

	for year := 2021; year <= 2025; year++ {
		res := v.Validate([]string{fmt.Sprint(year)}, nil, nil)
		assert.True(t, res.Valid, "year %d", year)
	}

	tests := []struct {
		token string
		valid bool
	}{
		{"last", true},
		{"LAST", true},
		{"Last", true},
		{"2020", false},
		{"2026", false},
		{"202", false},
		{"20231", false},
		{"２０２３", false},
		{"abcd", false},
		{"", false},
		{" 2023", false},
		{"lastyear", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			res := v.Validate([]string{tt.token}, nil, nil)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.valid {
				assert.Len(t, res.ValidYears, 1)
				assert.Empty(t, res.Errors)
			} else {
				assert.Empty(t, res.ValidYears)
				require.Len(t, res.Errors, 1)
				assert.Contains(t, res.Errors[0], fmt.Sprintf("%q", tt.token))
			}
		})
	}
}

func TestValidateYearsReportsEachBadToken(t *testing.T) {
	res := newValidator().Validate([]string{"2019", "2023", "x"}, nil, nil)

	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)
	assert.Equal(t, []string{"2023"}, res.ValidYears)
}

func TestValidateNormalizesLast(t *testing.T) {
	res := newValidator().Validate([]string{"LaSt"}, nil, nil)
	assert.Equal(t, []string{"last"}, res.ValidYears)
}

func TestValidateVariables(t *testing.T) {
	v := newValidator()

	ok := v.Validate(nil, []string{"109", "112", "214", "215", "216"}, nil)
	assert.True(t, ok.Valid)
	assert.Equal(t, []string{"109", "112", "214", "215", "216"}, ok.ValidVariables)

	bad := v.Validate(nil, []string{"214", "999", "21", "abc"}, nil)
	assert.False(t, bad.Valid)
	assert.Equal(t, []string{"214"}, bad.ValidVariables)
	require.Len(t, bad.Errors, 1, "unrecognized variables are reported together")
	assert.Contains(t, bad.Errors[0], `"999"`)
	assert.Contains(t, bad.Errors[0], `"21"`)
	assert.Contains(t, bad.Errors[0], `"abc"`)
}

func TestValidateProducts(t *testing.T) {
	v := newValidator()

	bad := v.Validate(nil, nil, []string{"2711", "27", "-271", "27a1", "27111"})
	assert.False(t, bad.Valid)
	assert.Equal(t, []string{"2711"}, bad.ValidProducts)
	require.Len(t, bad.Errors, 1)
	assert.Contains(t, bad.Errors[0], "expected 4 digits")
}

func TestValidateCollectsAcrossChecks(t *testing.T) {
	res := newValidator().ValidateQuery(domain.ProductionQuery{
		Years:     []string{"2023", "1999"},
		Variables: []string{"214", "1"},
		Products:  []string{"2713", "x"},
	})

	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 3)
	assert.Equal(t, []string{"2023"}, res.ValidYears)
	assert.Equal(t, []string{"214"}, res.ValidVariables)
	assert.Equal(t, []string{"2713"}, res.ValidProducts)
}

func TestValidateEmptyInput(t *testing.T) {
	res := newValidator().Validate(nil, nil, nil)
	assert.True(t, res.Valid)
	assert.NotNil(t, res.Errors)
	assert.NotNil(t, res.ValidYears)
}

func TestValidatorHonoursConfiguredRange(t *testing.T) {
	cfg := config.Default().Query
	cfg.MinYear, cfg.MaxYear = 2010, 2012

	v := NewParamValidator(cfg)
	assert.True(t, v.Validate([]string{"2010", "2012"}, nil, nil).Valid)
	assert.False(t, v.Validate([]string{"2021"}, nil, nil).Valid)
}

func TestValidateRegion(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		want    string
		wantErr string
	}{
		{name: "empty", tokens: nil, want: ""},
		{name: "all any case", tokens: []string{"ALL"}, want: "all"},
		{name: "municipalities", tokens: []string{"5200050", "4205902"}, want: "5200050,4205902"},
		{name: "short code", tokens: []string{"52000"}, wantErr: `"52000"`},
		{name: "all mixed with codes", tokens: []string{"all", "5200050"}, wantErr: `"all"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newValidator().ValidateRegion(tt.tokens)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
