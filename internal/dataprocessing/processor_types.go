package dataprocessing

import (
	"context"

	"agrostats/internal/dataset"
	"agrostats/pkg/contracts/domain"
)

// TableClient retrieves one raw table per call: a header row followed by
// data rows, or nothing. Implementations own their timeouts.
type TableClient interface {
	GetTable(ctx context.Context, req domain.TableRequest) ([][]string, error)
}

// PayloadProcessor normalizes a raw payload.
type PayloadProcessor interface {
	Process(ctx context.Context, header []string, rows [][]string) (dataset.Dataset, error)
}

// FetchOptions fixes the table coordinates and the retry budget of a fetch.
type FetchOptions struct {
	TableCode        string
	TerritorialLevel string
	Region           string
	Classification   string
	MaxAttempts      int
}

// FetchOption overrides part of FetchOptions for one call.
type FetchOption func(*FetchOptions)

// WithMaxAttempts overrides the number of attempts. Values below 1 mean 1.
func WithMaxAttempts(n int) FetchOption {
	return func(o *FetchOptions) {
		o.MaxAttempts = n
	}
}

// WithRegion overrides the territorial scope.
func WithRegion(region string) FetchOption {
	return func(o *FetchOptions) {
		o.Region = region
	}
}
