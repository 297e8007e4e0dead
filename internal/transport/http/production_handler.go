package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"agrostats/internal/dataprocessing"
	apierrors "agrostats/internal/errors"
	"agrostats/internal/exporter"
	mw "agrostats/internal/middleware"
	"agrostats/internal/services"
	"agrostats/pkg/contracts/domain"
)

// MaxAttemptsOverride bounds the attempts query parameter.
const MaxAttemptsOverride = 10

// ProductionHandler serves municipal production records
type ProductionHandler struct {
	service      ProductionServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	params       *mw.QueryParamValidator
}

// NewProductionHandler creates a new production handler with RFC 7807 error handling
func NewProductionHandler(service ProductionServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ProductionHandler {
	return &ProductionHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "production_handler")),
		errorHandler: errorHandler,
		params:       mw.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the production routes, mounted at /api/productions
func (h *ProductionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetProductions)
	r.Get("/export", h.ExportProductions)
	r.Get("/{product}", h.GetProductionsByCrop)
	return r
}

// parseQuery reads the query lists. English names and the Portuguese
// names used by the dashboard are both accepted.
func parseQuery(r *http.Request) domain.ProductionQuery {
	return domain.ProductionQuery{
		Years:     mw.ListParam(r, "years", "ano"),
		Variables: mw.ListParam(r, "variables", "variavel"),
		Products:  mw.ListParam(r, "products", "cultura", "produto"),
		Region:    mw.ListParam(r, "region", "municipio"),
	}
}

// fetchOptions turns the attempts parameter into fetch options. ok is false
// when an error response was already written.
func (h *ProductionHandler) fetchOptions(w http.ResponseWriter, r *http.Request) ([]dataprocessing.FetchOption, bool) {
	attempts, ok := h.params.ValidateInt(w, r, "attempts", 1, MaxAttemptsOverride, 0)
	if !ok {
		return nil, false
	}
	if attempts == 0 {
		return nil, true
	}
	return []dataprocessing.FetchOption{dataprocessing.WithMaxAttempts(attempts)}, true
}

// GetProductions handles GET /api/productions and GET /api/data
func (h *ProductionHandler) GetProductions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	q := parseQuery(r)

	opts, ok := h.fetchOptions(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching productions",
		slog.String("request_id", reqID),
		slog.Any("years", q.Years),
		slog.Any("variables", q.Variables),
		slog.Any("products", q.Products),
	)

	resp, err := h.service.Productions(r.Context(), q, opts...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, resp)
}

// GetProductionsByCrop handles GET /api/productions/{product}
func (h *ProductionHandler) GetProductionsByCrop(w http.ResponseWriter, r *http.Request) {
	product := chi.URLParam(r, "product")
	q := parseQuery(r)

	opts, ok := h.fetchOptions(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ProductionsByCrop(r.Context(), product, q, opts...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, resp)
}

// ExportProductions handles GET /api/productions/export?format=csv|xlsx
func (h *ProductionHandler) ExportProductions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	name, ok := h.params.ValidateEnum(w, r, "format", exporter.Formats, string(exporter.FormatCSV))
	if !ok {
		return
	}
	format := exporter.Format(name)

	opts, ok := h.fetchOptions(w, r)
	if !ok {
		return
	}

	// Defaults first so the file name carries the period actually served.
	q := h.service.WithDefaults(parseQuery(r))
	ds, err := h.service.Dataset(r.Context(), q, opts...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporter.FileName(format, q.Years)))

	if err := exporter.Write(w, format, ds); err != nil {
		// Headers are gone once the body started, so the error can only be logged.
		h.logger.ErrorContext(r.Context(), "failed to write export",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("format", name),
		)
	}
}

// handleServiceError maps service errors to API errors
func (h *ProductionHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.errorHandler.HandleError(w, r, apierrors.NewValidationErrors(validationErr.Result.Errors))
	case errors.Is(err, services.ErrNoProductionData):
		h.errorHandler.HandleError(w, r, apierrors.ErrDataNotFound)
	case errors.Is(err, services.ErrCropNotFound):
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound, "CROP_NOT_FOUND", err.Error()))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
