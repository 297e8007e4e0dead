package dataprocessing

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrostats/internal/dataset"
	"agrostats/internal/infrastructure"
	"agrostats/internal/shared/testutil"
)

func newProcessor() *Processor {
	logger := infrastructure.NewNopLogger()
	return NewProcessor(NewColumnMapper(logger), logger, nil)
}

func TestProcessEndToEnd(t *testing.T) {
	payload := [][]string{
		{"D1N", "D2C", "D4N", "V"},
		{"City A (1234)", "2023", "Corn", "100"},
		{"City B", "2023", "Corn", "-"},
	}

	ds, err := newProcessor().Process(context.Background(), payload[0], payload[1:])
	require.NoError(t, err)

	want := []dataset.Record{{
		"municipio_nome":        "City A",
		"municipio_codigo_ibge": int64(1234),
		"ano":                   int64(2023),
		"produto":               "Corn",
		"valor":                 int64(100),
	}}
	if diff := cmp.Diff(want, ds.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessFullSidraRow(t *testing.T) {
	ds, err := newProcessor().Process(context.Background(), testutil.SidraHeader, testutil.SidraRows())
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	rec := ds.Records()[0]
	assert.Equal(t, "Abadia de Goiás - GO", rec["municipio_nome"])
	assert.Equal(t, int64(5200050), rec["municipio_codigo_ibge"], "code falls back to D1C")
	assert.Equal(t, int64(5400), rec["valor"])
	assert.Equal(t, int64(2711), rec["produto_codigo"])
	assert.Equal(t, "Toneladas", rec["unidade"])
	assert.NotContains(t, rec, "localidade")
	assert.NotContains(t, rec, "D2N")
}

func TestProcessInvalidTable(t *testing.T) {
	ds, err := newProcessor().Process(context.Background(), []string{"V"}, [][]string{{"1", "2"}})
	require.NoError(t, err)
	assert.True(t, ds.IsEmpty())
}

func TestProcessEverythingDropped(t *testing.T) {
	ds, err := newProcessor().Process(context.Background(),
		[]string{"D1N", "D2C", "V"},
		[][]string{{"City B", "2023", "0"}},
	)
	require.NoError(t, err)
	assert.True(t, ds.IsEmpty())
}

func TestProcessRecoversPanics(t *testing.T) {
	logger := infrastructure.NewNopLogger()
	p := NewProcessor(nil, logger, nil)

	ds, err := p.Process(context.Background(), []string{"V"}, [][]string{{"1"}})
	assert.ErrorIs(t, err, ErrTransformFailed)
	assert.True(t, ds.IsEmpty())
}
