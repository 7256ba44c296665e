package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/auth"
)

// GoogleLoginRequest for POST /auth/google
type GoogleLoginRequest struct {
	Token string `json:"token"`
}

// AuthHandler handles the login endpoints. Both are unauthenticated by
// nature; everything else behind the API requires the session they issue.
type AuthHandler struct {
	authService auth.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService auth.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/google", h.GoogleLogin)
	mux.HandleFunc("POST /auth/dev-login", h.DevLogin)
}

// GoogleLogin handles POST /auth/google
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Token == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "token is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	session, err := h.authService.GoogleLogin(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid Google token"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		if errors.Is(err, apperrors.ErrForbidden) {
			if err := ErrorResponse(w, http.StatusForbidden, "forbidden", "Access denied. You are not authorized to use this dashboard."); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Google login failed", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "login_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, session); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DevLogin handles POST /auth/dev-login
func (h *AuthHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	session, err := h.authService.DevLogin(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			if err := ErrorResponse(w, http.StatusForbidden, "forbidden", "Dev login is disabled in production"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Dev login failed", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "login_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, session); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
