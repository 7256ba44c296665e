package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/services"
)

// ExportHandler serves the Markdown conversation export.
type ExportHandler struct {
	exportService services.ExportService
	logger        *zap.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exportService services.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// RegisterRoutes registers the export handler's routes on the given mux.
// The export is served without a session gate.
func (h *ExportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /conversations/export", h.Export)
}

// Export handles GET /conversations/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	document, err := h.exportService.Markdown(r.Context())
	if err != nil {
		h.logger.Error("Failed to export conversations", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "export_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Type", "text/markdown")
	w.Header().Set("Content-Disposition", `attachment; filename="conversations.md"`)
	if _, err := w.Write([]byte(document)); err != nil {
		h.logger.Error("Failed to write export document", zap.Error(err))
	}
}
