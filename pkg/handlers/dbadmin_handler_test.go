package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
)

func TestDBAdminHandler_List(t *testing.T) {
	repo := &mockCollectionRepo{
		docs:  []bson.M{{"name": "alice"}, {"name": "bob"}},
		total: 42,
	}
	handler := NewDBAdminHandler(repo, testPagination(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/admin/db/users?page=2&limit=20", nil)
	req.SetPathValue("collection", "users")
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "users", repo.lastCollection)
	assert.Equal(t, int64(20), repo.lastSkip)
	assert.Equal(t, int64(20), repo.lastLimit)

	var body CollectionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body.Total)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, int64(3), body.TotalPages)
	assert.Len(t, body.Data, 2)
}

func TestDBAdminHandler_List_InvalidCollection(t *testing.T) {
	repo := &mockCollectionRepo{err: apperrors.ErrNotFound}
	handler := NewDBAdminHandler(repo, testPagination(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/admin/db/admin_users", nil)
	req.SetPathValue("collection", "admin_users")
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid collection")
}

func TestDBAdminHandler_Create(t *testing.T) {
	id := bson.NewObjectID()
	repo := &mockCollectionRepo{inserted: id}
	handler := NewDBAdminHandler(repo, testPagination(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/admin/db/faqs",
		strings.NewReader(`{"question":"What is this?"}`))
	req.SetPathValue("collection", "faqs")
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), id.Hex())
	assert.Equal(t, "What is this?", repo.lastDoc["question"])
}

func TestDBAdminHandler_Update(t *testing.T) {
	repo := &mockCollectionRepo{matched: 1, modified: 1}
	handler := NewDBAdminHandler(repo, testPagination(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPut, "/admin/db/messages/x",
		strings.NewReader(`{"text":"edited"}`))
	req.SetPathValue("collection", "messages")
	req.SetPathValue("id", bson.NewObjectID().Hex())
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"matchedCount": 1, "modifiedCount": 1}`, rec.Body.String())
}

func TestDBAdminHandler_Update_MalformedID(t *testing.T) {
	handler := NewDBAdminHandler(&mockCollectionRepo{}, testPagination(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPut, "/admin/db/messages/not-hex",
		strings.NewReader(`{"text":"edited"}`))
	req.SetPathValue("collection", "messages")
	req.SetPathValue("id", "not-hex")
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid ID format")
}

func TestDBAdminHandler_Delete(t *testing.T) {
	repo := &mockCollectionRepo{deleted: 1}
	handler := NewDBAdminHandler(repo, testPagination(), zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/admin/db/conversations/x", nil)
	req.SetPathValue("collection", "conversations")
	req.SetPathValue("id", bson.NewObjectID().Hex())
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deletedCount": 1}`, rec.Body.String())
}
