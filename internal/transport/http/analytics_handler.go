package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salama/internal/errors"
	"salama/internal/services"
)

// AnalyticsHandler serves the compliance, risk, incident and insight
// endpoints.
type AnalyticsHandler struct {
	service *services.DataService
	logger  *slog.Logger
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(service *services.DataService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "analytics")),
	}
}

// Routes returns the analytics routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/compliance", h.GetCompliance)
	r.Get("/risk", h.GetRisk)
	r.Get("/incidents", h.GetIncidents)
	r.Get("/insights", h.GetInsights)
	r.Get("/charts", h.GetCharts)
	return r
}

// GetCompliance handles GET /api/analytics/compliance.
func (h *AnalyticsHandler) GetCompliance(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func() (interface{}, error) {
		filters, apiErr := parseFilters(r)
		if apiErr != nil {
			return nil, apiErr
		}
		return h.service.Compliance(r.Context(), filters)
	})
}

// GetRisk handles GET /api/analytics/risk.
func (h *AnalyticsHandler) GetRisk(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func() (interface{}, error) {
		filters, apiErr := parseFilters(r)
		if apiErr != nil {
			return nil, apiErr
		}
		return h.service.Risk(r.Context(), filters)
	})
}

// GetIncidents handles GET /api/analytics/incidents.
func (h *AnalyticsHandler) GetIncidents(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func() (interface{}, error) {
		filters, apiErr := parseFilters(r)
		if apiErr != nil {
			return nil, apiErr
		}
		return h.service.Incidents(r.Context(), filters)
	})
}

// GetInsights handles GET /api/analytics/insights.
func (h *AnalyticsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func() (interface{}, error) {
		filters, apiErr := parseFilters(r)
		if apiErr != nil {
			return nil, apiErr
		}
		return h.service.Insights(r.Context(), filters)
	})
}

// GetCharts handles GET /api/analytics/charts, returning every chart
// aggregation in one payload.
func (h *AnalyticsHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func() (interface{}, error) {
		filters, apiErr := parseFilters(r)
		if apiErr != nil {
			return nil, apiErr
		}
		return h.service.ChartDistributions(r.Context(), filters)
	})
}

// respond renders a computation result under the standard envelope.
func (h *AnalyticsHandler) respond(w http.ResponseWriter, r *http.Request, compute func() (interface{}, error)) {
	data, err := compute()
	if err != nil {
		var apiErr *apierrors.APIError
		switch {
		case errors.As(err, &apiErr):
			render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		case errors.Is(err, services.ErrNotLoaded):
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrServiceUnavailable))
		default:
			h.logger.ErrorContext(r.Context(), "analytics request failed",
				slog.String("error", err.Error()),
				slog.String("path", r.URL.Path))
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInternalServer))
		}
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}
