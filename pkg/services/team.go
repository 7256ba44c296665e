package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/models"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
)

// TeamService manages the dashboard operator roster.
type TeamService interface {
	Members(ctx context.Context) ([]models.AdminUser, error)
	Add(ctx context.Context, actorEmail, email, role string) (*models.AdminUser, error)
	Remove(ctx context.Context, actorEmail, email string) error
}

type teamService struct {
	repo   repositories.AdminUserRepository
	logger *zap.Logger
}

// NewTeamService creates a new TeamService.
func NewTeamService(repo repositories.AdminUserRepository, logger *zap.Logger) TeamService {
	return &teamService{
		repo:   repo,
		logger: logger.Named("team"),
	}
}

var _ TeamService = (*teamService)(nil)

func (s *teamService) Members(ctx context.Context) ([]models.AdminUser, error) {
	return s.repo.List(ctx)
}

func (s *teamService) Add(ctx context.Context, actorEmail, email, role string) (*models.AdminUser, error) {
	if role == "" {
		role = models.RoleModerator
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("role %q: %w", role, apperrors.ErrInvalidRole)
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("member %s: %w", email, apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	member := &models.AdminUser{
		Email:     email,
		Role:      role,
		AddedBy:   actorEmail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("Team member added",
		zap.String("email", email),
		zap.String("role", role),
		zap.String("added_by", actorEmail))
	return member, nil
}

func (s *teamService) Remove(ctx context.Context, actorEmail, email string) error {
	if email == actorEmail {
		return apperrors.ErrSelfRemoval
	}

	member, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	// The roster must never drop to zero super admins; losing the last one
	// would lock everyone out of team management permanently.
	if member.Role == models.RoleSuperAdmin {
		count, err := s.repo.CountSuperAdmins(ctx)
		if err != nil {
			return err
		}
		if count <= 1 {
			return apperrors.ErrLastAdmin
		}
	}

	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		return err
	}

	s.logger.Info("Team member removed",
		zap.String("email", email),
		zap.String("removed_by", actorEmail))
	return nil
}
