package handlers

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// ParsePagination reads the page and limit query parameters. Page defaults
// to 1 and never drops below it; limit defaults to defaultLimit and is
// clamped to [1, maxLimit]. Unparseable values fall back to the defaults
// rather than erroring - paging noise is not worth a 400.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) (page, limit int) {
	page = 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}

	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// ParseObjectID extracts and validates an ObjectID path parameter. On failure
// it writes a 400 response and returns false.
func ParseObjectID(w http.ResponseWriter, r *http.Request, key string, logger *zap.Logger) (bson.ObjectID, bool) {
	raw := r.PathValue(key)
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid ID format"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return bson.ObjectID{}, false
	}
	return id, true
}
