package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salama/internal/errors"
	"salama/internal/services"
	"salama/pkg/contracts/domain"
)

// DataHandler serves the dataset, KPI and quality endpoints.
type DataHandler struct {
	service *services.DataService
	logger  *slog.Logger
}

// NewDataHandler creates a data handler.
func NewDataHandler(service *services.DataService, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "data")),
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/datasets", h.ListDatasets)
	r.Get("/datasets/{kind}", h.GetDataset)
	r.Get("/kpis", h.GetKPIs)
	r.Get("/quality", h.GetQuality)
	r.Post("/reload", h.Reload)
	return r
}

// ListDatasets handles GET /api/datasets.
func (h *DataHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.service.Datasets(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   datasets,
		"count":  len(datasets),
	})
}

// GetDataset handles GET /api/datasets/{kind}. Filters apply; limit and
// offset paginate the filtered rows.
func (h *DataHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	filters, apiErr := parseFilters(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}
	page, apiErr := parsePagination(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	t, err := h.service.Dataset(r.Context(), domain.KindOf(kind), filters)
	if err != nil {
		if errors.Is(err, services.ErrDatasetNotFound) {
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.DatasetNotFoundError(kind)))
			return
		}
		h.renderError(w, r, err)
		return
	}

	total := t.NumRows()
	rows := page.slice(t.Rows)
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"kind":    kind,
		"columns": t.Columns,
		"rows":    rows,
		"count":   len(rows),
		"total":   total,
		"offset":  page.Offset,
	})
}

// GetKPIs handles GET /api/kpis.
func (h *DataHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.service.KPIs(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   kpis,
	})
}

// GetQuality handles GET /api/quality.
func (h *DataHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	quality, err := h.service.Quality(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   quality,
	})
}

// Reload handles POST /api/reload, rerunning the ingestion pipeline.
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Reload(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "reload failed",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ReloadFailedError(err)))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":    "success",
		"datasets":  len(snapshot.Unified),
		"loaded_at": snapshot.LoadedAt,
	})
}

// renderError maps service errors onto the shared envelope.
func (h *DataHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNotLoaded) {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrServiceUnavailable))
		return
	}
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path))
	render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInternalServer))
}
