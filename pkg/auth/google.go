package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// IdentityVerifier verifies an external identity assertion and returns the
// asserted email address. The production implementation validates Google ID
// tokens; tests substitute a fake.
type IdentityVerifier interface {
	VerifyEmail(ctx context.Context, token string) (string, error)
}

type googleVerifier struct {
	clientID string
}

// NewGoogleVerifier creates an IdentityVerifier backed by Google's ID token
// validation, with clientID as the expected audience.
func NewGoogleVerifier(clientID string) IdentityVerifier {
	return &googleVerifier{clientID: clientID}
}

var _ IdentityVerifier = (*googleVerifier)(nil)

func (v *googleVerifier) VerifyEmail(ctx context.Context, token string) (string, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return "", fmt.Errorf("failed to validate google id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("google id token carries no email claim")
	}
	return email, nil
}
