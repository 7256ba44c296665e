// Package auth provides the Google-gated session flow for visakha-admin:
// a Google ID token is exchanged for a locally signed HS256 JWT carrying the
// admin's email and role, and middleware gates the admin surfaces on it.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/visakha-ai/visakha-admin/pkg/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ClaimsKey is the context key for storing session claims.
const ClaimsKey contextKey = "claims"

// Claims is the session token payload. It embeds RegisteredClaims for the
// standard fields (exp, iat) and adds the admin identity.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsSuperAdmin reports whether the session belongs to a super admin.
func (c *Claims) IsSuperAdmin() bool {
	return c.Role == models.RoleSuperAdmin
}

// GetClaims retrieves session claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// EmailFromContext returns the authenticated admin's email, or empty string
// when the context carries no session.
func EmailFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Email
}
