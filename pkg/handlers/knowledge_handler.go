package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/auth"
	"github.com/visakha-ai/visakha-admin/pkg/services"
)

// CreateKnowledgeRequest for POST /admin/knowledge
type CreateKnowledgeRequest struct {
	Question        string   `json:"question"`
	Answer          string   `json:"answer"`
	Tags            []string `json:"tags"`
	SourceMessageID string   `json:"sourceMessageId"`
}

// UpdateKnowledgeRequest for PUT /admin/knowledge/{id}
type UpdateKnowledgeRequest struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags"`
}

// CreateKnowledgeResponse for POST /admin/knowledge. Echoes the stored
// entry back in full.
type CreateKnowledgeResponse struct {
	Success         bool           `json:"success"`
	ID              string         `json:"id"`
	Question        string         `json:"question"`
	Answer          string         `json:"answer"`
	Tags            []string       `json:"tags"`
	SourceMessageID *bson.ObjectID `json:"sourceMessageId,omitempty"`
	CreatedBy       string         `json:"createdBy"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// SyncResponse for POST /admin/knowledge/sync
type SyncResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// KnowledgeHandler handles the golden-knowledge curation surface.
// All routes are super-admin gated.
type KnowledgeHandler struct {
	knowledgeService services.KnowledgeService
	logger           *zap.Logger
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(knowledgeService services.KnowledgeService, logger *zap.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{
		knowledgeService: knowledgeService,
		logger:           logger,
	}
}

// RegisterRoutes registers the knowledge handler's routes on the given mux.
func (h *KnowledgeHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /admin/knowledge",
		authMiddleware.RequireSuperAdmin(h.Create))
	mux.HandleFunc("GET /admin/knowledge",
		authMiddleware.RequireSuperAdmin(h.List))
	mux.HandleFunc("GET /admin/knowledge/search",
		authMiddleware.RequireSuperAdmin(h.Search))
	mux.HandleFunc("POST /admin/knowledge/sync",
		authMiddleware.RequireSuperAdmin(h.Sync))
	mux.HandleFunc("PUT /admin/knowledge/{id}",
		authMiddleware.RequireSuperAdmin(h.Update))
	mux.HandleFunc("DELETE /admin/knowledge/{id}",
		authMiddleware.RequireSuperAdmin(h.Delete))
}

// Create handles POST /admin/knowledge
func (h *KnowledgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateKnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Question == "" || req.Answer == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "question and answer are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	entry, err := h.knowledgeService.Create(r.Context(), services.CreateKnowledgeInput{
		Question:        req.Question,
		Answer:          req.Answer,
		Tags:            req.Tags,
		SourceMessageID: req.SourceMessageID,
		CreatedBy:       auth.EmailFromContext(r.Context()),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidID) {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "sourceMessageId is not a valid ID"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to create knowledge entry", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "create_knowledge_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := CreateKnowledgeResponse{
		Success:         true,
		ID:              entry.ID.Hex(),
		Question:        entry.Question,
		Answer:          entry.Answer,
		Tags:            entry.Tags,
		SourceMessageID: entry.SourceMessageID,
		CreatedBy:       entry.CreatedBy,
		CreatedAt:       entry.CreatedAt,
		UpdatedAt:       entry.UpdatedAt,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /admin/knowledge
func (h *KnowledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.knowledgeService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("Failed to list knowledge entries", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_knowledge_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /admin/knowledge/{id}
func (h *KnowledgeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateKnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Question == "" || req.Answer == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "question and answer are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.knowledgeService.Update(r.Context(), id, req.Question, req.Answer, req.Tags); err != nil {
		h.writeKnowledgeError(w, id, err, "update_knowledge_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /admin/knowledge/{id}
func (h *KnowledgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.knowledgeService.Delete(r.Context(), id); err != nil {
		h.writeKnowledgeError(w, id, err, "delete_knowledge_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Sync handles POST /admin/knowledge/sync
func (h *KnowledgeHandler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.knowledgeService.Sync(r.Context())
	if err != nil {
		h.logger.Error("Failed to sync knowledge to RAG store", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "sync_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := SyncResponse{
		Success: true,
		Count:   result.Count,
		Message: result.Message(),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Search handles GET /admin/knowledge/search
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "q is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	results, err := h.knowledgeService.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to search RAG knowledge", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "search_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, results); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *KnowledgeHandler) writeKnowledgeError(w http.ResponseWriter, id string, err error, code string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidID):
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	case errors.Is(err, apperrors.ErrNotFound):
		if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Knowledge entry not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	default:
		h.logger.Error("Knowledge operation failed", zap.String("id", id), zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	}
}
