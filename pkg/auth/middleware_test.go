package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/models"
)

func newTestMiddleware(t *testing.T, repoUsers ...*models.AdminUser) (*Middleware, AuthService) {
	t.Helper()
	svc := NewAuthService(testConfig(), &fakeVerifier{}, newFakeAdminRepo(repoUsers...), zap.NewNop())
	return NewMiddleware(svc, zap.NewNop()), svc
}

func loginToken(t *testing.T, svc AuthService) string {
	t.Helper()
	session, err := svc.DevLogin(context.Background())
	require.NoError(t, err)
	return session.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRequireAuth_MissingToken(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/feedback-conversations", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "unauthorized", body["error"])
	assert.Equal(t, "Authentication required", body["message"])
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	})

	req := httptest.NewRequest(http.MethodGet, "/feedback-conversations", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ClaimsReachHandler(t *testing.T) {
	mw, svc := newTestMiddleware(t)
	token := loginToken(t, svc)

	var seen *Claims
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		require.True(t, ok)
		seen = claims
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/feedback-conversations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "root@example.com", seen.Email)

	ctx := context.WithValue(context.Background(), ClaimsKey, seen)
	assert.Equal(t, "root@example.com", EmailFromContext(ctx))
	assert.Empty(t, EmailFromContext(context.Background()))
}

func TestRequireSuperAdmin_ModeratorForbidden(t *testing.T) {
	moderator := &models.AdminUser{Email: "mod@example.com", Role: models.RoleModerator}
	svc := NewAuthService(testConfig(), &fakeVerifier{email: moderator.Email}, newFakeAdminRepo(moderator), zap.NewNop())
	mw := NewMiddleware(svc, zap.NewNop())

	session, err := svc.GoogleLogin(context.Background(), "google-token")
	require.NoError(t, err)

	handler := mw.RequireSuperAdmin(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a moderator")
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Requires Super Admin privileges", body["message"])
}

func TestRequireSuperAdmin_SuperAdminPasses(t *testing.T) {
	mw, svc := newTestMiddleware(t)
	token := loginToken(t, svc)

	handler := mw.RequireSuperAdmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
