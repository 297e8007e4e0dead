// Package sidra is a client for the IBGE SIDRA table values API. It turns a
// domain.TableRequest into the API's path syntax and returns the response as
// a header row followed by positional data rows.
package sidra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"

	"agrostats/internal/config"
	"agrostats/pkg/contracts/domain"
)

const valuesPath = "/values/t/{table}/n{level}/{region}/v/{variables}/p/{period}/c{classification}/{categories}/h/{header}"

// ErrInvalidRequest is returned when a TableRequest would produce a malformed path.
var ErrInvalidRequest = errors.New("invalid table request")

// StatusError reports a non-2xx answer from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sidra returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Client fetches tables from SIDRA. It never retries on its own.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient builds a client for cfg. tracer may be a no-op tracer.
func NewClient(cfg config.SidraConfig, logger *slog.Logger, tracer trace.Tracer) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)

	logger = logger.With(slog.String("component", "sidra_client"))
	instrumentResty(rc, tracer, logger)

	return &Client{http: rc, logger: logger}
}

// GetTable performs one request. An empty JSON array yields (nil, nil).
func (c *Client) GetTable(ctx context.Context, req domain.TableRequest) ([][]string, error) {
	params, err := pathParams(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetRawPathParams(params).
		Get(valuesPath)
	if err != nil {
		return nil, fmt.Errorf("sidra request failed: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		body := resp.Body()
		if len(body) > 512 {
			body = body[:512]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: strings.TrimSpace(string(body))}
	}

	rows, err := decodeTable(bytes.NewReader(resp.Body()), req.Header == "y")
	if err != nil {
		return nil, fmt.Errorf("decode sidra response: %w", err)
	}

	c.logger.DebugContext(ctx, "sidra table received",
		slog.String("table", req.TableCode),
		slog.Int("rows", len(rows)))

	return rows, nil
}

// Check answers whether the API host responds. Any status below 500 counts
// as reachable.
func (c *Client) Check(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Head("/")
	if err != nil {
		return fmt.Errorf("sidra unreachable: %w", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return &StatusError{StatusCode: resp.StatusCode()}
	}
	return nil
}

// Path renders the request path for req, for logging and tests.
func Path(req domain.TableRequest) (string, error) {
	params, err := pathParams(req)
	if err != nil {
		return "", err
	}
	path := valuesPath
	for k, v := range params {
		path = strings.ReplaceAll(path, "{"+k+"}", v)
	}
	return path, nil
}

func pathParams(req domain.TableRequest) (map[string]string, error) {
	header := req.Header
	if header == "" {
		header = "n"
	}

	params := map[string]string{
		"table":          req.TableCode,
		"level":          req.TerritorialLevel,
		"region":         req.IBGETerritorialIDs,
		"variables":      req.Variable,
		"period":         req.Period,
		"classification": req.Classification,
		"categories":     req.Categories,
		"header":         header,
	}
	for k, v := range params {
		if v == "" {
			return nil, fmt.Errorf("%w: %s is empty", ErrInvalidRequest, k)
		}
		if strings.ContainsAny(v, "/?#% ") {
			return nil, fmt.Errorf("%w: %s contains reserved characters", ErrInvalidRequest, k)
		}
	}
	return params, nil
}
