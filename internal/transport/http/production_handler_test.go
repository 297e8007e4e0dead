package http

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agrostats/internal/dataprocessing"
	"agrostats/internal/dataset"
	apierrors "agrostats/internal/errors"
	"agrostats/internal/services"
	"agrostats/internal/shared/testutil"
	"agrostats/pkg/contracts/domain"
)

// MockProductionService is a mock implementation of ProductionServiceInterface.
// Options are recorded by count only.
type MockProductionService struct {
	mock.Mock
}

// WithDefaults fills only the years, with "last".
func (m *MockProductionService) WithDefaults(q domain.ProductionQuery) domain.ProductionQuery {
	if len(q.Years) == 0 {
		q.Years = []string{"last"}
	}
	return q
}

func (m *MockProductionService) Dataset(ctx context.Context, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) (dataset.Dataset, error) {
	args := m.Called(q, len(opts))
	return args.Get(0).(dataset.Dataset), args.Error(1)
}

func (m *MockProductionService) Productions(ctx context.Context, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) (*domain.ProductionResponse, error) {
	args := m.Called(q, len(opts))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductionResponse), args.Error(1)
}

func (m *MockProductionService) ProductionsByCrop(ctx context.Context, product string, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) (*domain.ProductionResponse, error) {
	args := m.Called(product, q, len(opts))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductionResponse), args.Error(1)
}

func newProductionRouter(t *testing.T, svc ProductionServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewProductionHandler(svc, logger, apierrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Mount("/api/productions", h.Routes())
	r.Get("/api/data", h.GetProductions)
	return r
}

func sampleResponse() *domain.ProductionResponse {
	return &domain.ProductionResponse{
		Records: []map[string]any{{"municipio_nome": "Abadia de Goiás", "valor": int64(1500)}},
		Count:   1,
	}
}

func TestProductionHandler_GetProductions(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockProductionService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "records for query",
			url:  "/api/productions?years=2023&variables=214&products=2711,2713",
			setupMock: func(m *MockProductionService) {
				q := domain.ProductionQuery{Years: []string{"2023"}, Variables: []string{"214"}, Products: []string{"2711", "2713"}}
				m.On("Productions", q, 0).Return(sampleResponse(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"dados":[{"municipio_nome":"Abadia de Goiás","valor":1500}]`,
		},
		{
			name: "dashboard parameter names",
			url:  "/api/data?ano=2022&cultura=2711",
			setupMock: func(m *MockProductionService) {
				q := domain.ProductionQuery{Years: []string{"2022"}, Products: []string{"2711"}}
				m.On("Productions", q, 0).Return(sampleResponse(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name: "attempts override",
			url:  "/api/productions?attempts=5",
			setupMock: func(m *MockProductionService) {
				m.On("Productions", domain.ProductionQuery{}, 1).Return(sampleResponse(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name:           "attempts out of range",
			url:            "/api/productions?attempts=50",
			setupMock:      func(m *MockProductionService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"VALIDATION_FAILED"`,
		},
		{
			name: "validation errors listed",
			url:  "/api/productions?years=1900&variables=999",
			setupMock: func(m *MockProductionService) {
				err := &services.ValidationError{Result: domain.ValidationResult{Errors: []string{"Invalid year: 1900", "Invalid variable: 999"}}}
				m.On("Productions", mock.Anything, 0).Return(nil, err)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"errors":["Invalid year: 1900","Invalid variable: 999"]`,
		},
		{
			name: "no data",
			url:  "/api/productions?years=2023",
			setupMock: func(m *MockProductionService) {
				m.On("Productions", mock.Anything, 0).Return(nil, services.ErrNoProductionData)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"DATA_NOT_FOUND"`,
		},
		{
			name: "deadline exceeded",
			url:  "/api/productions",
			setupMock: func(m *MockProductionService) {
				m.On("Productions", mock.Anything, 0).Return(nil, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedBody:   `"Request Timeout"`,
		},
		{
			name: "internal error",
			url:  "/api/productions",
			setupMock: func(m *MockProductionService) {
				m.On("Productions", mock.Anything, 0).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"Internal Server Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductionService)
			tt.setupMock(mockService)

			rec := httptest.NewRecorder()
			newProductionRouter(t, mockService).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestProductionHandler_GetProductionsByCrop(t *testing.T) {
	mockService := new(MockProductionService)
	mockService.On("ProductionsByCrop", "2711", domain.ProductionQuery{Years: []string{"2023"}}, 0).Return(sampleResponse(), nil)
	mockService.On("ProductionsByCrop", "9999", domain.ProductionQuery{}, 0).
		Return(nil, fmt.Errorf("%w: 9999", services.ErrCropNotFound))

	router := newProductionRouter(t, mockService)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/productions/2711?years=2023", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dados":[{"municipio_nome":"Abadia de Goiás","valor":1500}],"count":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/productions/9999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"CROP_NOT_FOUND"`)

	mockService.AssertExpectations(t)
}

func TestProductionHandler_ExportProductions(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewTextColumn(dataset.FieldMunicipalityName, []string{"City A"}, nil),
		dataset.NewNumberColumn(dataset.FieldValue, []float64{1500}, nil),
	)
	require.NoError(t, err)

	mockService := new(MockProductionService)
	mockService.On("Dataset", domain.ProductionQuery{Years: []string{"2023"}}, 0).Return(ds, nil)

	router := newProductionRouter(t, mockService)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/productions/export?years=2023", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="producao_agricola_2023.csv"`, rec.Header().Get("Content-Disposition"))

	body := bytes.TrimPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF})
	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"municipio_nome", "valor"}, {"City A", "1500"}}, rows)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/productions/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockService.AssertExpectations(t)
}

func TestProductionHandler_ExportXLSX(t *testing.T) {
	ds, err := dataset.New(dataset.NewTextColumn(dataset.FieldMunicipalityName, []string{"City A"}, nil))
	require.NoError(t, err)

	mockService := new(MockProductionService)
	mockService.On("Dataset", domain.ProductionQuery{Years: []string{"last"}}, 0).Return(ds, nil)

	rec := httptest.NewRecorder()
	newProductionRouter(t, mockService).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/productions/export?format=XLSX", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="producao_agricola_last.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}
