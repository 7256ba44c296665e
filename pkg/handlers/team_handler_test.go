package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/models"
)

func TestTeamHandler_List(t *testing.T) {
	svc := &mockTeamService{members: []models.AdminUser{
		{Email: "sa@example.com", Role: models.RoleSuperAdmin},
		{Email: "mod@example.com", Role: models.RoleModerator},
	}}
	handler := NewTeamHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/admin/moderators", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body []models.AdminUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 2)
}

func TestTeamHandler_Add(t *testing.T) {
	svc := &mockTeamService{added: &models.AdminUser{Email: "new@example.com", Role: models.RoleModerator}}
	handler := NewTeamHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/admin/moderators",
		strings.NewReader(`{"email":"new@example.com"}`))
	req = req.WithContext(superAdminContext("sa@example.com"))
	rec := httptest.NewRecorder()
	handler.Add(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "sa@example.com", svc.lastActor)

	var body AddMemberResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "new@example.com", body.Email)
	assert.Equal(t, models.RoleModerator, body.Role)
}

func TestTeamHandler_Add_RequiresEmail(t *testing.T) {
	handler := NewTeamHandler(&mockTeamService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/admin/moderators", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.Add(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamHandler_Add_Duplicate(t *testing.T) {
	svc := &mockTeamService{addErr: apperrors.ErrConflict}
	handler := NewTeamHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/admin/moderators",
		strings.NewReader(`{"email":"dup@example.com"}`))
	rec := httptest.NewRecorder()
	handler.Add(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestTeamHandler_Add_InvalidRole(t *testing.T) {
	svc := &mockTeamService{addErr: apperrors.ErrInvalidRole}
	handler := NewTeamHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/admin/moderators",
		strings.NewReader(`{"email":"x@example.com","role":"owner"}`))
	rec := httptest.NewRecorder()
	handler.Add(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamHandler_Remove(t *testing.T) {
	svc := &mockTeamService{}
	handler := NewTeamHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/admin/moderators",
		strings.NewReader(`{"email":"mod@example.com"}`))
	req = req.WithContext(superAdminContext("sa@example.com"))
	rec := httptest.NewRecorder()
	handler.Remove(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mod@example.com", svc.lastEmail)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
}

func TestTeamHandler_Remove_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"self removal", apperrors.ErrSelfRemoval, http.StatusBadRequest, "You cannot remove your own account"},
		{"last admin", apperrors.ErrLastAdmin, http.StatusBadRequest, "last super admin"},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTeamService{removeErr: tt.err}
			handler := NewTeamHandler(svc, zap.NewNop())

			req := httptest.NewRequest(http.MethodDelete, "/admin/moderators",
				strings.NewReader(`{"email":"x@example.com"}`))
			rec := httptest.NewRecorder()
			handler.Remove(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
