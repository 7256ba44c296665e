package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/auth"
	"github.com/visakha-ai/visakha-admin/pkg/services"
)

// AddMemberRequest for POST /admin/moderators
type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RemoveMemberRequest for DELETE /admin/moderators
type RemoveMemberRequest struct {
	Email string `json:"email"`
}

// AddMemberResponse for POST /admin/moderators
type AddMemberResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

// TeamHandler handles the operator roster surface. Super-admin only.
type TeamHandler struct {
	teamService services.TeamService
	logger      *zap.Logger
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(teamService services.TeamService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		logger:      logger,
	}
}

// RegisterRoutes registers the team handler's routes on the given mux.
func (h *TeamHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /admin/moderators",
		authMiddleware.RequireSuperAdmin(h.List))
	mux.HandleFunc("POST /admin/moderators",
		authMiddleware.RequireSuperAdmin(h.Add))
	mux.HandleFunc("DELETE /admin/moderators",
		authMiddleware.RequireSuperAdmin(h.Remove))
}

// List handles GET /admin/moderators
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.teamService.Members(r.Context())
	if err != nil {
		h.logger.Error("Failed to list team members", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_members_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, members); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Add handles POST /admin/moderators
func (h *TeamHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Email == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "email is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	member, err := h.teamService.Add(r.Context(), auth.EmailFromContext(r.Context()), req.Email, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidRole):
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_role", "Role must be super_admin or moderator"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrConflict):
			if err := ErrorResponse(w, http.StatusBadRequest, "already_exists", "User already exists"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to add team member", zap.String("email", req.Email), zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "add_member_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	response := AddMemberResponse{
		Success: true,
		Email:   member.Email,
		Role:    member.Role,
	}
	if err := WriteJSON(w, http.StatusCreated, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Remove handles DELETE /admin/moderators
func (h *TeamHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req RemoveMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Email == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "email is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.teamService.Remove(r.Context(), auth.EmailFromContext(r.Context()), req.Email); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSelfRemoval):
			if err := ErrorResponse(w, http.StatusBadRequest, "self_removal", "You cannot remove your own account"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrLastAdmin):
			if err := ErrorResponse(w, http.StatusBadRequest, "last_admin", "Cannot remove the last super admin"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Team member not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to remove team member", zap.String("email", req.Email), zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "remove_member_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
