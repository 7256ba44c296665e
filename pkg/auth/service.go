package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/config"
	"github.com/visakha-ai/visakha-admin/pkg/models"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
)

// SessionUser is the identity echoed back to the dashboard on login.
type SessionUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is a freshly issued session token with its owner.
type Session struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// AuthService handles login, session token issuance and validation, and
// bootstrap admin seeding.
type AuthService interface {
	// GoogleLogin exchanges a Google ID token for a session. Verification
	// failures map to ErrUnauthorized; a verified email that is not on the
	// admin roster maps to ErrForbidden.
	GoogleLogin(ctx context.Context, googleToken string) (*Session, error)

	// DevLogin issues a session for the bootstrap admin without Google,
	// seeding the account if needed. Refused in production.
	DevLogin(ctx context.Context) (*Session, error)

	// ValidateRequest extracts and validates the Bearer token.
	ValidateRequest(r *http.Request) (*Claims, error)

	// EnsureBootstrapAdmin seeds the configured bootstrap email as a super
	// admin when the roster holds none. Called once at startup.
	EnsureBootstrapAdmin(ctx context.Context) error
}

type authService struct {
	cfg      *config.Config
	verifier IdentityVerifier
	admins   repositories.AdminUserRepository
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, verifier IdentityVerifier, admins repositories.AdminUserRepository, logger *zap.Logger) AuthService {
	return &authService{
		cfg:      cfg,
		verifier: verifier,
		admins:   admins,
		logger:   logger.Named("auth"),
	}
}

var _ AuthService = (*authService)(nil)

func (s *authService) GoogleLogin(ctx context.Context, googleToken string) (*Session, error) {
	email, err := s.verifier.VerifyEmail(ctx, googleToken)
	if err != nil {
		s.logger.Warn("Google token verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("Login attempt by unknown email", zap.String("email", email))
		return nil, fmt.Errorf("%s: %w", email, apperrors.ErrForbidden)
	}
	if err != nil {
		return nil, err
	}

	return s.issueSession(admin)
}

func (s *authService) DevLogin(ctx context.Context) (*Session, error) {
	if s.cfg.IsProduction() {
		return nil, fmt.Errorf("dev login: %w", apperrors.ErrForbidden)
	}

	email := s.cfg.Auth.BootstrapAdminEmail
	admin, err := s.admins.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		admin = &models.AdminUser{
			Email:     email,
			Role:      models.RoleSuperAdmin,
			AddedBy:   "system",
			CreatedAt: time.Now().UTC(),
		}
		if err := s.admins.Insert(ctx, admin); err != nil {
			return nil, err
		}
		s.logger.Info("Seeded bootstrap admin via dev login", zap.String("email", email))
	} else if err != nil {
		return nil, err
	}

	return s.issueSession(admin)
}

func (s *authService) ValidateRequest(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, fmt.Errorf("missing authorization header: %w", apperrors.ErrUnauthorized)
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("malformed authorization header: %w", apperrors.ErrUnauthorized)
	}

	return s.validateToken(parts[1])
}

func (s *authService) EnsureBootstrapAdmin(ctx context.Context) error {
	count, err := s.admins.CountSuperAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := &models.AdminUser{
		Email:     s.cfg.Auth.BootstrapAdminEmail,
		Role:      models.RoleSuperAdmin,
		AddedBy:   "system",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.admins.Insert(ctx, admin); err != nil {
		// A concurrent seeder already won; that satisfies the invariant.
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return err
	}

	s.logger.Info("Seeded bootstrap super admin", zap.String("email", admin.Email))
	return nil
}

func (s *authService) issueSession(admin *models.AdminUser) (*Session, error) {
	now := time.Now()
	ttl := time.Duration(s.cfg.Auth.TokenTTLHours) * time.Hour

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: admin.Email,
		Role:  admin.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &Session{
		Token: token,
		User:  SessionUser{Email: admin.Email, Role: admin.Role},
	}, nil
}

func (s *authService) validateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return []byte(s.cfg.Auth.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token: %w", apperrors.ErrUnauthorized)
	}
	return claims, nil
}
