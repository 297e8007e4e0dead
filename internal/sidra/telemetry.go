package sidra

import (
	"log/slog"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

// instrumentResty opens a client span per request and logs its outcome.
func instrumentResty(client *resty.Client, tracer trace.Tracer, logger *slog.Logger) {
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		ctx, _ := tracer.Start(req.Context(), "sidra "+req.Method, trace.WithSpanKind(trace.SpanKindClient))
		req.SetContext(ctx)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		ctx := res.Request.Context()
		span := trace.SpanFromContext(ctx)
		defer span.End()

		span.SetAttributes(
			semconv.HTTPRequestMethodKey.String(res.Request.Method),
			semconv.URLFullKey.String(res.Request.URL),
			semconv.HTTPResponseStatusCodeKey.Int(res.StatusCode()),
		)
		if res.IsError() {
			span.SetStatus(codes.Error, res.Status())
		}

		logger.DebugContext(ctx, "sidra response",
			slog.String("url", res.Request.URL),
			slog.Int("status_code", res.StatusCode()),
			slog.Duration("duration", res.Time()))
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		ctx := req.Context()
		span := trace.SpanFromContext(ctx)
		defer span.End()

		span.SetAttributes(
			semconv.HTTPRequestMethodKey.String(req.Method),
			attribute.String("url.template", req.URL),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		logger.WarnContext(ctx, "sidra request error",
			slog.String("url", req.URL),
			slog.String("error", err.Error()))
	})
}
