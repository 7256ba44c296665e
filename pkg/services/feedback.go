// Package services holds the business logic between the HTTP handlers and
// the repositories.
package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/models"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
)

// FeedbackService serves the feedback triage surfaces: the reshaped
// conversation list and detail, the resolved flag, and the raw negative feed.
type FeedbackService interface {
	ListConversations(ctx context.Context, page, limit int) (*models.PagedConversations, error)
	GetConversation(ctx context.Context, conversationID string) (*models.ConversationView, error)
	SetResolved(ctx context.Context, conversationID string, resolved bool) error
	ListNegative(ctx context.Context, page, limit int) (*models.PagedNegativeFeedback, error)
}

type feedbackService struct {
	repo   repositories.FeedbackRepository
	logger *zap.Logger
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(repo repositories.FeedbackRepository, logger *zap.Logger) FeedbackService {
	return &feedbackService{
		repo:   repo,
		logger: logger.Named("feedback"),
	}
}

var _ FeedbackService = (*feedbackService)(nil)

func (s *feedbackService) ListConversations(ctx context.Context, page, limit int) (*models.PagedConversations, error) {
	skip := int64(page-1) * int64(limit)

	data, err := s.repo.ListConversations(ctx, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	// Total is a second, independent read; under concurrent writes it can
	// disagree with the page contents. Accepted, not reconciled.
	total, err := s.repo.CountConversations(ctx)
	if err != nil {
		return nil, err
	}

	return &models.PagedConversations{
		Page:       page,
		Limit:      limit,
		Count:      len(data),
		Total:      total,
		TotalPages: totalPages(total, limit),
		Data:       data,
	}, nil
}

func (s *feedbackService) GetConversation(ctx context.Context, conversationID string) (*models.ConversationView, error) {
	return s.repo.GetConversation(ctx, conversationID)
}

func (s *feedbackService) SetResolved(ctx context.Context, conversationID string, resolved bool) error {
	if err := s.repo.SetResolved(ctx, conversationID, resolved); err != nil {
		return err
	}
	s.logger.Info("Conversation resolved flag updated",
		zap.String("conversation_id", conversationID),
		zap.Bool("resolved", resolved))
	return nil
}

func (s *feedbackService) ListNegative(ctx context.Context, page, limit int) (*models.PagedNegativeFeedback, error) {
	skip := int64(page-1) * int64(limit)

	data, err := s.repo.ListNegative(ctx, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountNegative(ctx)
	if err != nil {
		return nil, err
	}

	return &models.PagedNegativeFeedback{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// totalPages is ceil(total/limit) in integer arithmetic.
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
