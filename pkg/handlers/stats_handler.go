package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/auth"
	"github.com/visakha-ai/visakha-admin/pkg/services"
)

// StatsHandler serves the dashboard overview numbers.
type StatsHandler struct {
	statsService services.StatsService
	logger       *zap.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsService services.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// RegisterRoutes registers the stats handler's routes on the given mux.
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /admin/stats",
		authMiddleware.RequireSuperAdmin(h.Overview))
}

// Overview handles GET /admin/stats
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Overview(r.Context())
	if err != nil {
		h.logger.Error("Failed to assemble stats overview", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "stats_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
