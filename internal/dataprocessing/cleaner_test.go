package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrostats/internal/dataset"
	"agrostats/internal/infrastructure"
)

func TestCleanKeepsOnlyValidRow(t *testing.T) {
	nan := math.NaN()
	ds, err := dataset.New(
		textColumn(dataset.FieldMunicipalityName, "missing value", "missing year", "zero", "negative", "missing code", "valid"),
		dataset.NewNumberColumn(dataset.FieldValue, []float64{nan, 10, 0, -5, 10, 10}, nil),
		dataset.NewNumberColumn(dataset.FieldYear, []float64{2023, nan, 2023, 2023, 2023, 2023}, nil),
		dataset.NewNumberColumn(dataset.FieldMunicipalityCode, []float64{1, 2, 3, 4, nan, 6}, nil),
	)
	require.NoError(t, err)

	out, report := Clean(ds, infrastructure.NewNopLogger())

	require.Equal(t, 1, out.Len())
	assert.Equal(t, dataset.Record{
		"municipio_nome":        "valid",
		"valor":                 int64(10),
		"ano":                   int64(2023),
		"municipio_codigo_ibge": int64(6),
	}, out.Records()[0])

	assert.Equal(t, CleanReport{
		DropMissingValue:        1,
		DropMissingYear:         1,
		DropNonPositiveValue:    2,
		DropMissingMunicipality: 1,
	}, report)
	assert.Equal(t, 6, ds.Len(), "input is not modified")
}

func TestCleanSkipsAbsentFields(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewNumberColumn(dataset.FieldValue, []float64{1, -1}, nil),
	)
	require.NoError(t, err)

	out, report := Clean(ds, infrastructure.NewNopLogger())
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, 1, report.Total())
}

func TestCleanDropsTextValues(t *testing.T) {
	ds, err := dataset.New(textColumn(dataset.FieldValue, "10"))
	require.NoError(t, err)

	out, report := Clean(ds, infrastructure.NewNopLogger())
	assert.True(t, out.IsEmpty())
	assert.Equal(t, 1, report[DropNonPositiveValue])
}

func TestCleanEmptyDataset(t *testing.T) {
	out, report := Clean(dataset.Empty(), infrastructure.NewNopLogger())
	assert.True(t, out.IsEmpty())
	assert.Zero(t, report.Total())
}
