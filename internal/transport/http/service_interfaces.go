package http

import (
	"context"

	"agrostats/internal/dataprocessing"
	"agrostats/internal/dataset"
	"agrostats/internal/services"
	"agrostats/pkg/contracts/domain"
)

// ProductionServiceInterface defines the production query operations
type ProductionServiceInterface interface {
	WithDefaults(q domain.ProductionQuery) domain.ProductionQuery
	Dataset(ctx context.Context, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) (dataset.Dataset, error)
	Productions(ctx context.Context, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) (*domain.ProductionResponse, error)
	ProductionsByCrop(ctx context.Context, product string, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) (*domain.ProductionResponse, error)
}

// CropServiceInterface defines the crop catalogue operations
type CropServiceInterface interface {
	List() []domain.Crop
	Names() map[string]string
	Get(code string) (domain.Crop, error)
	Search(ctx context.Context, query string) (services.CropMatch, error)
}

// HealthServiceInterface defines the health check operations
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
