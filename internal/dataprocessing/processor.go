package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agrostats/internal/dataset"
	"agrostats/internal/infrastructure"
)

// ErrTransformFailed is returned when a pipeline stage fails. The partially
// transformed data is discarded.
var ErrTransformFailed = errors.New("transform failed")

// DropArity is the drop reason for rows whose length differs from the header.
const DropArity = "wrong_arity"

// Processor turns a raw payload into normalized records:
// load → map columns → extract municipality → coerce types → clean rows.
type Processor struct {
	mapper  *ColumnMapper
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// NewProcessor creates a processor. metrics may be nil.
func NewProcessor(mapper *ColumnMapper, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Processor {
	return &Processor{
		mapper:  mapper,
		logger:  logger.With(slog.String("component", "processor")),
		metrics: metrics,
	}
}

// Process runs every stage over header and rows. Stage errors and panics
// are reported as ErrTransformFailed with an empty dataset.
func (p *Processor) Process(ctx context.Context, header []string, rows [][]string) (out dataset.Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, "panic while transforming payload", slog.Any("panic", r))
			out, err = dataset.Empty(), fmt.Errorf("%w: panic: %v", ErrTransformFailed, r)
		}
	}()

	logger := p.logger
	frame, dropped := LoadFrame(header, rows, logger)
	p.metrics.RecordRowsDropped(ctx, DropArity, dropped)

	mapped := p.mapper.Map(frame)
	if mapped.Nrow() == 0 {
		if frame.Err != nil {
			logger.WarnContext(ctx, "payload is not a valid table", slog.String("error", frame.Err.Error()))
		}
		return dataset.Empty(), nil
	}

	stage := func(name string, fn func(dataset.Dataset, *slog.Logger) (dataset.Dataset, error), in dataset.Dataset) (dataset.Dataset, error) {
		res, err := fn(in, logger)
		if err != nil {
			return dataset.Empty(), fmt.Errorf("%w: %s: %v", ErrTransformFailed, name, err)
		}
		return res, nil
	}

	ds, err := FrameToDataset(mapped)
	if err != nil {
		return dataset.Empty(), fmt.Errorf("%w: load: %v", ErrTransformFailed, err)
	}
	if ds, err = stage("extract_municipality", ExtractMunicipality, ds); err != nil {
		return ds, err
	}
	if ds, err = stage("coerce_types", CoerceTypes, ds); err != nil {
		return ds, err
	}

	cleaned, report := Clean(ds, logger)
	for reason, n := range report {
		p.metrics.RecordRowsDropped(ctx, reason, n)
	}

	logger.DebugContext(ctx, "payload processed",
		slog.Int("raw_rows", len(rows)),
		slog.Int("records", cleaned.Len()))

	return cleaned, nil
}
