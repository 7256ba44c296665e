package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/database"
	"github.com/visakha-ai/visakha-admin/pkg/models"
)

// FeedbackRepository provides data access for the feedback triage surfaces:
// the reshaped conversation views, the resolved flag, the raw negative feed
// and the export set.
type FeedbackRepository interface {
	ListConversations(ctx context.Context, skip, limit int64) ([]models.ConversationView, error)
	CountConversations(ctx context.Context) (int64, error)
	GetConversation(ctx context.Context, conversationID string) (*models.ConversationView, error)
	SetResolved(ctx context.Context, conversationID string, resolved bool) error
	ListNegative(ctx context.Context, skip, limit int64) ([]models.NegativeFeedbackMessage, error)
	CountNegative(ctx context.Context) (int64, error)
	ListForExport(ctx context.Context) ([]models.ExportConversation, error)
}

type feedbackRepository struct {
	db *database.DB
}

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(db *database.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

var _ FeedbackRepository = (*feedbackRepository)(nil)

func (r *feedbackRepository) ListConversations(ctx context.Context, skip, limit int64) ([]models.ConversationView, error) {
	cursor, err := r.db.Messages().Aggregate(ctx, feedbackConversationsPipeline(skip, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate feedback conversations: %w", err)
	}

	views := make([]models.ConversationView, 0)
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode feedback conversations: %w", err)
	}

	for i := range views {
		normalizeUsers(views[i].Messages)
	}
	return views, nil
}

func (r *feedbackRepository) CountConversations(ctx context.Context) (int64, error) {
	cursor, err := r.db.Messages().Aggregate(ctx, feedbackConversationCountPipeline())
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback conversations: %w", err)
	}

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("failed to decode feedback conversation count: %w", err)
	}
	if len(result) == 0 {
		// $count emits no document over an empty set.
		return 0, nil
	}
	return result[0].Total, nil
}

func (r *feedbackRepository) GetConversation(ctx context.Context, conversationID string) (*models.ConversationView, error) {
	cursor, err := r.db.Messages().Aggregate(ctx, feedbackConversationDetailPipeline(conversationID))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate feedback conversation: %w", err)
	}

	var views []models.ConversationView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode feedback conversation: %w", err)
	}
	if len(views) == 0 {
		return nil, apperrors.ErrNotFound
	}

	view := views[0]
	normalizeUsers(view.Messages)
	return &view, nil
}

func (r *feedbackRepository) SetResolved(ctx context.Context, conversationID string, resolved bool) error {
	result, err := r.db.Conversations().UpdateOne(ctx,
		bson.M{"conversationId": conversationID},
		bson.M{"$set": bson.M{"resolved": resolved}},
	)
	if err != nil {
		return fmt.Errorf("failed to update resolved flag: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *feedbackRepository) ListNegative(ctx context.Context, skip, limit int64) ([]models.NegativeFeedbackMessage, error) {
	cursor, err := r.db.Messages().Aggregate(ctx, negativeFeedbackPipeline(skip, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate negative feedback: %w", err)
	}

	messages := make([]models.NegativeFeedbackMessage, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode negative feedback: %w", err)
	}
	return messages, nil
}

func (r *feedbackRepository) CountNegative(ctx context.Context) (int64, error) {
	total, err := r.db.Messages().CountDocuments(ctx, negativeRatingFilter())
	if err != nil {
		return 0, fmt.Errorf("failed to count negative feedback: %w", err)
	}
	return total, nil
}

func (r *feedbackRepository) ListForExport(ctx context.Context) ([]models.ExportConversation, error) {
	cursor, err := r.db.Conversations().Aggregate(ctx, exportConversationsPipeline())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate export conversations: %w", err)
	}

	conversations := make([]models.ExportConversation, 0)
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("failed to decode export conversations: %w", err)
	}
	return conversations, nil
}

// normalizeUsers nils out user documents whose referent did not resolve. The
// pipeline's $let emits an empty document for a dangling ref; the API
// contract is an explicit null.
func normalizeUsers(messages []models.MessageView) {
	for i := range messages {
		if messages[i].User != nil && messages[i].User.ID.IsZero() {
			messages[i].User = nil
		}
	}
}
