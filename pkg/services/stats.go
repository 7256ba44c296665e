package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/models"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
)

// timelineWindow is how far back the question-volume histogram reaches.
const timelineWindow = 30 * 24 * time.Hour

// StatsService assembles the dashboard overview.
type StatsService interface {
	Overview(ctx context.Context) (*models.Stats, error)
}

type statsService struct {
	repo   repositories.StatsRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(repo repositories.StatsRepository, logger *zap.Logger) StatsService {
	return &statsService{
		repo:   repo,
		logger: logger.Named("stats"),
		now:    time.Now,
	}
}

var _ StatsService = (*statsService)(nil)

func (s *statsService) Overview(ctx context.Context) (*models.Stats, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	timeline, err := s.repo.QuestionsTimeline(ctx, s.now().Add(-timelineWindow))
	if err != nil {
		return nil, err
	}

	return &models.Stats{
		Totals:            totals,
		QuestionsTimeline: timeline,
	}, nil
}
