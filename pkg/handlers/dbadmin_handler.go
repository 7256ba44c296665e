package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/auth"
	"github.com/visakha-ai/visakha-admin/pkg/config"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
)

// CollectionListResponse for GET /admin/db/{collection}
type CollectionListResponse struct {
	Data       []bson.M `json:"data"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int64    `json:"totalPages"`
}

// DBAdminHandler exposes raw CRUD over the allow-listed collections.
// Super-admin only; the allow-list lives in the repository so nothing
// sensitive is reachable even if a route slips through.
type DBAdminHandler struct {
	collections repositories.CollectionRepository
	pagination  config.PaginationConfig
	logger      *zap.Logger
}

// NewDBAdminHandler creates a new DB admin handler.
func NewDBAdminHandler(collections repositories.CollectionRepository, pagination config.PaginationConfig, logger *zap.Logger) *DBAdminHandler {
	return &DBAdminHandler{
		collections: collections,
		pagination:  pagination,
		logger:      logger,
	}
}

// RegisterRoutes registers the DB admin handler's routes on the given mux.
func (h *DBAdminHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /admin/db/{collection}",
		authMiddleware.RequireSuperAdmin(h.List))
	mux.HandleFunc("POST /admin/db/{collection}",
		authMiddleware.RequireSuperAdmin(h.Create))
	mux.HandleFunc("PUT /admin/db/{collection}/{id}",
		authMiddleware.RequireSuperAdmin(h.Update))
	mux.HandleFunc("DELETE /admin/db/{collection}/{id}",
		authMiddleware.RequireSuperAdmin(h.Delete))
}

// List handles GET /admin/db/{collection}
func (h *DBAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	page, limit := ParsePagination(r, h.pagination.AdminPageSize, h.pagination.MaxPageSize)
	skip := int64(page-1) * int64(limit)

	docs, total, err := h.collections.List(r.Context(), collection, skip, int64(limit))
	if err != nil {
		h.writeCollectionError(w, collection, err, "list_failed")
		return
	}

	response := CollectionListResponse{
		Data:       docs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /admin/db/{collection}
func (h *DBAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	var doc bson.M
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	id, err := h.collections.Insert(r.Context(), collection, doc)
	if err != nil {
		h.writeCollectionError(w, collection, err, "create_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, map[string]string{"insertedId": id.Hex()}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /admin/db/{collection}/{id}
func (h *DBAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	id, ok := ParseObjectID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var doc bson.M
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	matched, modified, err := h.collections.Update(r.Context(), collection, id, doc)
	if err != nil {
		h.writeCollectionError(w, collection, err, "update_failed")
		return
	}

	response := map[string]int64{
		"matchedCount":  matched,
		"modifiedCount": modified,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /admin/db/{collection}/{id}
func (h *DBAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	id, ok := ParseObjectID(w, r, "id", h.logger)
	if !ok {
		return
	}

	deleted, err := h.collections.Delete(r.Context(), collection, id)
	if err != nil {
		h.writeCollectionError(w, collection, err, "delete_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *DBAdminHandler) writeCollectionError(w http.ResponseWriter, collection string, err error, code string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_collection", "Invalid collection"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.logger.Error("DB admin operation failed", zap.String("collection", collection), zap.Error(err))
	if err := ErrorResponse(w, http.StatusInternalServerError, code, err.Error()); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
