package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salama/internal/errors"
	"salama/internal/exporter"
	"salama/internal/services"
)

// ExportHandler writes snapshot exports to the configured output directory.
type ExportHandler struct {
	service *services.DataService
	csv     *exporter.CSVWriter
	excel   *exporter.ExcelWriter
	json    *exporter.JSONWriter
	logger  *slog.Logger
}

// NewExportHandler creates an export handler.
func NewExportHandler(service *services.DataService, csv *exporter.CSVWriter, excel *exporter.ExcelWriter, jsonWriter *exporter.JSONWriter, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		csv:     csv,
		excel:   excel,
		json:    jsonWriter,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// Routes returns the export routes.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/{format}", h.Export)
	return r
}

// Export handles POST /api/export/{format} for csv, excel and json.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Snapshot()
	if snap == nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrServiceUnavailable))
		return
	}

	format := chi.URLParam(r, "format")
	stamp := time.Now().Format("20060102-150405")

	var files []string
	var err error
	switch format {
	case "csv":
		for kind, t := range snap.Unified {
			name := fmt.Sprintf("%s-%s.csv", kind, stamp)
			if err = h.csv.WriteTable(name, t); err != nil {
				break
			}
			files = append(files, name)
		}
	case "excel":
		name := fmt.Sprintf("safety-data-%s.xlsx", stamp)
		err = h.excel.WriteWorkbook(name, snap.Unified)
		files = append(files, name)
	case "json":
		name := fmt.Sprintf("safety-data-%s.json", stamp)
		err = h.json.Write(name, snap.Unified)
		files = append(files, name)
	default:
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.ErrValidation("format", fmt.Sprintf("unsupported format %q", format))))
		return
	}

	if err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ExportFailedError(err)))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"format": format,
		"files":  files,
	})
}
