package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/auth"
	"github.com/visakha-ai/visakha-admin/pkg/config"
	"github.com/visakha-ai/visakha-admin/pkg/services"
)

// ResolvedResponse for PATCH /feedback-conversations/{conversationId}/resolved
type ResolvedResponse struct {
	Success        bool   `json:"success"`
	ConversationID string `json:"conversationId"`
	Resolved       bool   `json:"resolved"`
}

// FeedbackHandler handles the feedback triage HTTP surface.
type FeedbackHandler struct {
	feedbackService services.FeedbackService
	pagination      config.PaginationConfig
	logger          *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackService services.FeedbackService, pagination config.PaginationConfig, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		pagination:      pagination,
		logger:          logger,
	}
}

// RegisterRoutes registers the feedback handler's routes on the given mux.
// The triage surfaces carry no session gate; only the raw negative feed
// under /admin is super-admin only.
func (h *FeedbackHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /feedback-conversations", h.List)
	mux.HandleFunc("GET /feedback-conversations/{conversationId}", h.Get)
	mux.HandleFunc("PATCH /feedback-conversations/{conversationId}/resolved", h.SetResolved)
	mux.HandleFunc("GET /admin/feedback/negative",
		authMiddleware.RequireSuperAdmin(h.ListNegative))
}

// List handles GET /feedback-conversations
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := ParsePagination(r, h.pagination.FeedbackPageSize, h.pagination.MaxPageSize)

	result, err := h.feedbackService.ListConversations(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("Failed to list feedback conversations", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_feedback_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /feedback-conversations/{conversationId}
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("conversationId")

	view, err := h.feedbackService.GetConversation(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Conversation not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get feedback conversation",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "get_feedback_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, view); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SetResolved handles PATCH /feedback-conversations/{conversationId}/resolved
func (h *FeedbackHandler) SetResolved(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("conversationId")

	// Decode into a raw map first: a missing field and a non-boolean both
	// have to fail, and a typed struct would silently default them.
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid request", "resolved must be a boolean"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var resolved bool
	raw, ok := body["resolved"]
	if !ok || json.Unmarshal(raw, &resolved) != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid request", "resolved must be a boolean"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.feedbackService.SetResolved(r.Context(), conversationID, resolved); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Conversation not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to update resolved flag",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "update_resolved_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := ResolvedResponse{
		Success:        true,
		ConversationID: conversationID,
		Resolved:       resolved,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListNegative handles GET /admin/feedback/negative
func (h *FeedbackHandler) ListNegative(w http.ResponseWriter, r *http.Request) {
	page, limit := ParsePagination(r, h.pagination.AdminPageSize, h.pagination.MaxPageSize)

	result, err := h.feedbackService.ListNegative(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("Failed to list negative feedback", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_negative_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
