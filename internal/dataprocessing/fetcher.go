package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"agrostats/internal/config"
	"agrostats/internal/dataset"
	"agrostats/internal/infrastructure"
	"agrostats/pkg/contracts/domain"
)

// Fetch attempt outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
	OutcomeShort = "short"
)

var (
	errEmptyPayload = errors.New("empty payload")
	errShortPayload = errors.New("payload has no data rows")
)

// BuildPeriod renders the period expression: "last" alone stays literal,
// anything else is joined with ",".
func BuildPeriod(years []string) string {
	if len(years) == 1 && strings.EqualFold(years[0], config.LastPeriod) {
		return config.LastPeriod
	}
	return strings.Join(years, ",")
}

// BuildRequest binds a query to the table coordinates.
func BuildRequest(q domain.ProductionQuery, opts FetchOptions) domain.TableRequest {
	return domain.TableRequest{
		TableCode:          opts.TableCode,
		TerritorialLevel:   opts.TerritorialLevel,
		IBGETerritorialIDs: opts.Region,
		Variable:           strings.Join(q.Variables, ","),
		Period:             BuildPeriod(q.Years),
		Classification:     opts.Classification,
		Categories:         strings.Join(q.Products, ","),
		Header:             "n",
	}
}

// Fetcher drives a TableClient with a bounded, delay-free retry policy and
// normalizes the first usable payload.
type Fetcher struct {
	client    TableClient
	processor PayloadProcessor
	defaults  FetchOptions
	logger    *slog.Logger
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
}

// NewFetcher creates a fetcher whose table coordinates and attempt budget
// come from cfg. metrics may be nil.
func NewFetcher(client TableClient, processor PayloadProcessor, cfg config.SidraConfig, logger *slog.Logger, metrics *infrastructure.BusinessMetrics, tracer trace.Tracer) *Fetcher {
	return &Fetcher{
		client:    client,
		processor: processor,
		defaults: FetchOptions{
			TableCode:        cfg.TableCode,
			TerritorialLevel: cfg.TerritorialLevel,
			Region:           cfg.Region,
			Classification:   cfg.Classification,
			MaxAttempts:      cfg.MaxAttempts,
		},
		logger:  logger.With(slog.String("component", "fetcher")),
		metrics: metrics,
		tracer:  tracer,
	}
}

// Fetch returns the normalized dataset for q, or an empty dataset. It never
// fails: remote errors, empty payloads and transform failures are logged.
// Only transport-level emptiness is retried.
func (f *Fetcher) Fetch(ctx context.Context, q domain.ProductionQuery, opts ...FetchOption) dataset.Dataset {
	o := f.defaults
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}

	req := BuildRequest(q, o)

	ctx, span := f.tracer.Start(ctx, "pipeline.fetch", trace.WithAttributes(
		attribute.String("sidra.table", req.TableCode),
		attribute.String("sidra.period", req.Period),
		attribute.String("sidra.variables", req.Variable),
		attribute.String("sidra.products", req.Categories),
		attribute.Int("sidra.max_attempts", o.MaxAttempts),
	))
	defer span.End()

	start := time.Now()
	result := f.fetch(ctx, req, o.MaxAttempts)
	f.metrics.RecordFetchDuration(ctx, time.Since(start), !result.IsEmpty())
	f.metrics.RecordRecords(ctx, result.Len())

	span.SetAttributes(attribute.Int("pipeline.records", result.Len()))
	return result
}

func (f *Fetcher) fetch(ctx context.Context, req domain.TableRequest, maxAttempts int) dataset.Dataset {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			f.logger.WarnContext(ctx, "fetch abandoned", slog.String("error", err.Error()))
			return dataset.Empty()
		}

		rows, err := f.attempt(ctx, req)
		if err != nil {
			f.logger.WarnContext(ctx, "fetch attempt failed",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", maxAttempts),
				slog.String("error", err.Error()))
			continue
		}

		ds, err := f.processor.Process(ctx, rows[0], rows[1:])
		if err != nil {
			f.logger.ErrorContext(ctx, "payload could not be normalized",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			infrastructure.RecordError(ctx, err)
			return dataset.Empty()
		}

		f.logger.InfoContext(ctx, "fetch completed",
			slog.Int("attempt", attempt),
			slog.Int("raw_rows", len(rows)-1),
			slog.Int("records", ds.Len()))
		return ds
	}

	f.logger.ErrorContext(ctx, "no data after all attempts",
		slog.Int("max_attempts", maxAttempts),
		slog.String("period", req.Period))
	trace.SpanFromContext(ctx).SetStatus(codes.Error, "no data after all attempts")
	return dataset.Empty()
}

// attempt performs one remote call and classifies it.
func (f *Fetcher) attempt(ctx context.Context, req domain.TableRequest) ([][]string, error) {
	rows, err := f.call(ctx, req)
	switch {
	case err != nil:
		f.metrics.RecordFetchAttempt(ctx, OutcomeError)
		return nil, err
	case len(rows) == 0:
		f.metrics.RecordFetchAttempt(ctx, OutcomeEmpty)
		return nil, errEmptyPayload
	case len(rows) < 2:
		f.metrics.RecordFetchAttempt(ctx, OutcomeShort)
		return nil, errShortPayload
	}
	f.metrics.RecordFetchAttempt(ctx, OutcomeOK)
	return rows, nil
}

// call shields the retry loop from a panicking client.
func (f *Fetcher) call(ctx context.Context, req domain.TableRequest) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("table client panicked")
			f.logger.ErrorContext(ctx, "table client panicked", slog.Any("panic", r))
		}
	}()
	return f.client.GetTable(ctx, req)
}
