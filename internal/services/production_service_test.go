package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agrostats/internal/config"
	"agrostats/internal/dataprocessing"
	"agrostats/internal/dataset"
	"agrostats/internal/infrastructure"
	"agrostats/internal/validation"
	"agrostats/pkg/contracts/domain"
)

// MockProductionFetcher is a mock implementation of ProductionFetcher
type MockProductionFetcher struct {
	mock.Mock
	lastOptions dataprocessing.FetchOptions
}

func (m *MockProductionFetcher) Fetch(ctx context.Context, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) dataset.Dataset {
	m.lastOptions = dataprocessing.FetchOptions{}
	for _, opt := range opts {
		opt(&m.lastOptions)
	}
	args := m.Called(ctx, q)
	return args.Get(0).(dataset.Dataset)
}

func sampleDataset(t *testing.T) dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		dataset.NewTextColumn(dataset.FieldMunicipalityName, []string{"Chapecó - SC"}, nil),
		dataset.NewNumberColumn(dataset.FieldMunicipalityCode, []float64{4204202}, nil),
		dataset.NewNumberColumn(dataset.FieldYear, []float64{2023}, nil),
		dataset.NewNumberColumn(dataset.FieldValue, []float64{1250}, nil),
	)
	require.NoError(t, err)
	return ds
}

func newProductionService(fetcher ProductionFetcher) *ProductionService {
	cfg := config.Default()
	return NewProductionService(validation.NewParamValidator(cfg.Query), fetcher, cfg.Query, infrastructure.NewNopLogger())
}

func TestProductionServiceAppliesDefaults(t *testing.T) {
	fetcher := new(MockProductionFetcher)
	fetcher.On("Fetch", mock.Anything, domain.ProductionQuery{
		Years:     []string{"last"},
		Variables: []string{"214"},
		Products:  config.CropCodes(),
	}).Return(sampleDataset(t))

	resp, err := newProductionService(fetcher).Productions(context.Background(), domain.ProductionQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Chapecó - SC", resp.Records[0]["municipio_nome"])
	assert.Equal(t, int64(4204202), resp.Records[0]["municipio_codigo_ibge"])
	fetcher.AssertExpectations(t)
}

func TestProductionServiceNormalizesLast(t *testing.T) {
	fetcher := new(MockProductionFetcher)
	fetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(q domain.ProductionQuery) bool {
		return len(q.Years) == 1 && q.Years[0] == "last"
	})).Return(sampleDataset(t))

	_, err := newProductionService(fetcher).Productions(context.Background(), domain.ProductionQuery{Years: []string{"LAST"}})
	require.NoError(t, err)
	fetcher.AssertExpectations(t)
}

func TestProductionServiceRejectsInvalidQuery(t *testing.T) {
	fetcher := new(MockProductionFetcher)

	_, err := newProductionService(fetcher).Productions(context.Background(), domain.ProductionQuery{
		Years:     []string{"2023", "1999"},
		Variables: []string{"999"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, verr.Result.Valid)
	assert.Len(t, verr.Result.Errors, 2)
	assert.Equal(t, []string{"2023"}, verr.Result.ValidYears)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestProductionServiceEmptyResult(t *testing.T) {
	fetcher := new(MockProductionFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(dataset.Empty())

	_, err := newProductionService(fetcher).Productions(context.Background(), domain.ProductionQuery{})
	assert.ErrorIs(t, err, ErrNoProductionData)
}

func TestProductionServiceCancelledContext(t *testing.T) {
	fetcher := new(MockProductionFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(dataset.Empty())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newProductionService(fetcher).Productions(ctx, domain.ProductionQuery{})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrNoProductionData))
}

func TestProductionsByCrop(t *testing.T) {
	fetcher := new(MockProductionFetcher)
	fetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(q domain.ProductionQuery) bool {
		return len(q.Products) == 1 && q.Products[0] == "2713"
	})).Return(sampleDataset(t))

	resp, err := newProductionService(fetcher).ProductionsByCrop(context.Background(), "2713", domain.ProductionQuery{Products: []string{"2711"}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	fetcher.AssertExpectations(t)
}

func TestProductionsByCropRejectsBadCode(t *testing.T) {
	fetcher := new(MockProductionFetcher)

	_, err := newProductionService(fetcher).ProductionsByCrop(context.Background(), "soja", domain.ProductionQuery{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProductionsByCropResolvesNames(t *testing.T) {
	fetcher := new(MockProductionFetcher)
	fetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(q domain.ProductionQuery) bool {
		return len(q.Products) == 1 && q.Products[0] == "2713"
	})).Return(sampleDataset(t))

	svc := newProductionService(fetcher).WithCropResolver(NewCropService(config.Crops, infrastructure.NewNopLogger()))

	resp, err := svc.ProductionsByCrop(context.Background(), "soja", domain.ProductionQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)

	_, err = svc.ProductionsByCrop(context.Background(), "banana", domain.ProductionQuery{})
	assert.ErrorIs(t, err, ErrCropNotFound)
	fetcher.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestProductionsByCropPassesUnlistedCodes(t *testing.T) {
	fetcher := new(MockProductionFetcher)
	fetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(q domain.ProductionQuery) bool {
		return len(q.Products) == 1 && q.Products[0] == "9999"
	})).Return(sampleDataset(t))

	svc := newProductionService(fetcher).WithCropResolver(NewCropService(config.Crops, infrastructure.NewNopLogger()))

	resp, err := svc.ProductionsByCrop(context.Background(), "9999", domain.ProductionQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	fetcher.AssertExpectations(t)
}

func TestProductionServiceRegionOverride(t *testing.T) {
	fetcher := new(MockProductionFetcher)
	fetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(q domain.ProductionQuery) bool {
		return assert.ObjectsAreEqual([]string{"5200050,4205902"}, q.Region)
	})).Return(sampleDataset(t))

	svc := newProductionService(fetcher)
	_, err := svc.Productions(context.Background(), domain.ProductionQuery{Region: []string{"5200050", "4205902"}},
		dataprocessing.WithMaxAttempts(2))
	require.NoError(t, err)
	assert.Equal(t, "5200050,4205902", fetcher.lastOptions.Region)
	assert.Equal(t, 2, fetcher.lastOptions.MaxAttempts)

	_, err = svc.Productions(context.Background(), domain.ProductionQuery{Region: []string{"GO"}})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Result.Errors[0], "invalid region")
	fetcher.AssertNumberOfCalls(t, "Fetch", 1)
}
