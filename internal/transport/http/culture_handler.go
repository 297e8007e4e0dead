package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "agrostats/internal/errors"
	"agrostats/internal/services"
)

// CultureHandler serves the crop catalogue
type CultureHandler struct {
	service      CropServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCultureHandler creates a new culture handler
func NewCultureHandler(service CropServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CultureHandler {
	return &CultureHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "culture_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the culture routes, mounted at /api/cultures
func (h *CultureHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListCultures)
	r.Get("/search", h.SearchCulture)
	r.Get("/{code}", h.GetCulture)
	return r
}

// ListCultures handles GET /api/cultures and GET /api/opcoes/cultures
func (h *CultureHandler) ListCultures(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"culturas": h.service.Names(),
	})
}

// GetCulture handles GET /api/cultures/{code}
func (h *CultureHandler) GetCulture(w http.ResponseWriter, r *http.Request) {
	crop, err := h.service.Get(chi.URLParam(r, "code"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, crop)
}

// SearchCulture handles GET /api/cultures/search?q=
func (h *CultureHandler) SearchCulture(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("q", "q is required"))
		return
	}

	match, err := h.service.Search(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "crop resolved",
		slog.String("query", q),
		slog.String("code", match.Crop.Code),
		slog.Float64("similarity", match.Similarity))

	render.JSON(w, r, match)
}

func (h *CultureHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrCropNotFound):
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound, "CROP_NOT_FOUND", err.Error()))
	case errors.Is(err, services.ErrInvalidInput):
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
