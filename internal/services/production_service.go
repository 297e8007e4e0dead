package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"agrostats/internal/config"
	"agrostats/internal/dataprocessing"
	"agrostats/internal/dataset"
	"agrostats/pkg/contracts/domain"
)

// QueryValidator checks a production query.
type QueryValidator interface {
	ValidateQuery(q domain.ProductionQuery) domain.ValidationResult
}

// ProductionFetcher runs the fetch-normalize-clean pipeline.
type ProductionFetcher interface {
	Fetch(ctx context.Context, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) dataset.Dataset
}

// CropResolver turns a crop code or name into a known crop.
type CropResolver interface {
	Search(ctx context.Context, query string) (CropMatch, error)
}

// ProductionService answers production queries. It fills in defaults,
// rejects the whole query on any validation error and turns an empty
// pipeline result into ErrNoProductionData.
type ProductionService struct {
	validator QueryValidator
	fetcher   ProductionFetcher
	defaults  config.QueryConfig
	crops     CropResolver
	logger    *slog.Logger
}

// NewProductionService creates a production service with injected dependencies
func NewProductionService(validator QueryValidator, fetcher ProductionFetcher, cfg config.QueryConfig, logger *slog.Logger) *ProductionService {
	return &ProductionService{
		validator: validator,
		fetcher:   fetcher,
		defaults:  cfg,
		logger:    logger.With(slog.String("service", "production")),
	}
}

// WithCropResolver lets ProductionsByCrop accept crop names as well as codes.
func (s *ProductionService) WithCropResolver(r CropResolver) *ProductionService {
	s.crops = r
	return s
}

// WithDefaults returns q with every empty list replaced by its default:
// configured years and variables, and every known crop.
func (s *ProductionService) WithDefaults(q domain.ProductionQuery) domain.ProductionQuery {
	if len(q.Years) == 0 {
		q.Years = append([]string(nil), s.defaults.DefaultYears...)
	}
	if len(q.Variables) == 0 {
		q.Variables = append([]string(nil), s.defaults.DefaultVariables...)
	}
	if len(q.Products) == 0 {
		q.Products = config.CropCodes()
	}
	return q
}

// Dataset validates q and runs the pipeline. opts override the fetch
// defaults, such as the attempt budget. The returned dataset is never empty
// when err is nil.
func (s *ProductionService) Dataset(ctx context.Context, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) (dataset.Dataset, error) {
	q = s.WithDefaults(q)

	result := s.validator.ValidateQuery(q)
	if !result.Valid {
		s.logger.InfoContext(ctx, "query rejected",
			slog.Any("errors", result.Errors))
		return dataset.Empty(), &ValidationError{Result: result}
	}

	normalized := domain.ProductionQuery{
		Years:     result.ValidYears,
		Variables: result.ValidVariables,
		Products:  result.ValidProducts,
	}
	if result.ValidRegion != "" {
		normalized.Region = []string{result.ValidRegion}
		opts = append([]dataprocessing.FetchOption{dataprocessing.WithRegion(result.ValidRegion)}, opts...)
	}

	start := time.Now()
	ds := s.fetcher.Fetch(ctx, normalized, opts...)

	s.logger.InfoContext(ctx, "production query served",
		slog.Any("years", normalized.Years),
		slog.Any("variables", normalized.Variables),
		slog.Int("products", len(normalized.Products)),
		slog.Int("records", ds.Len()),
		slog.Duration("duration", time.Since(start)))

	if ds.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return dataset.Empty(), fmt.Errorf("production query aborted: %w", err)
		}
		return dataset.Empty(), ErrNoProductionData
	}
	return ds, nil
}

// Productions returns the normalized records for q.
func (s *ProductionService) Productions(ctx context.Context, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) (*domain.ProductionResponse, error) {
	ds, err := s.Dataset(ctx, q, opts...)
	if err != nil {
		return nil, err
	}
	return NewProductionResponse(ds), nil
}

// ProductionsByCrop is Productions restricted to a single product. A
// 4-digit code is used as is; anything else is resolved as a crop name.
func (s *ProductionService) ProductionsByCrop(ctx context.Context, product string, q domain.ProductionQuery, opts ...dataprocessing.FetchOption) (*domain.ProductionResponse, error) {
	if s.crops != nil && !isProductCode(product) {
		match, err := s.crops.Search(ctx, product)
		if err != nil {
			return nil, err
		}
		if !match.Exact {
			s.logger.InfoContext(ctx, "resolved crop by similarity",
				slog.String("query", product),
				slog.String("crop_code", match.Crop.Code),
				slog.Float64("similarity", match.Similarity))
		}
		product = match.Crop.Code
	}

	q.Products = []string{product}
	return s.Productions(ctx, q, opts...)
}

// isProductCode reports whether s is already a 4-digit product code.
func isProductCode(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NewProductionResponse wraps the records of ds.
func NewProductionResponse(ds dataset.Dataset) *domain.ProductionResponse {
	recs := ds.Records()
	out := make([]map[string]any, len(recs))
	for i, r := range recs {
		out[i] = r
	}
	return &domain.ProductionResponse{Records: out, Count: len(out)}
}
