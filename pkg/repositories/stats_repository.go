package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/visakha-ai/visakha-admin/pkg/database"
	"github.com/visakha-ai/visakha-admin/pkg/models"
)

// StatsRepository provides the dashboard overview counts and the question
// volume histogram.
type StatsRepository interface {
	Totals(ctx context.Context) (models.StatsTotals, error)
	QuestionsTimeline(ctx context.Context, since time.Time) ([]models.TimelineBucket, error)
}

type statsRepository struct {
	db *database.DB
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db *database.DB) StatsRepository {
	return &statsRepository{db: db}
}

var _ StatsRepository = (*statsRepository)(nil)

func (r *statsRepository) Totals(ctx context.Context) (models.StatsTotals, error) {
	var totals models.StatsTotals
	var err error

	if totals.Users, err = r.db.Users().CountDocuments(ctx, bson.M{}); err != nil {
		return totals, fmt.Errorf("failed to count users: %w", err)
	}
	if totals.Conversations, err = r.db.Conversations().CountDocuments(ctx, bson.M{}); err != nil {
		return totals, fmt.Errorf("failed to count conversations: %w", err)
	}
	if totals.Messages, err = r.db.Messages().CountDocuments(ctx, bson.M{}); err != nil {
		return totals, fmt.Errorf("failed to count messages: %w", err)
	}
	if totals.ThumbsUp, err = r.db.Messages().CountDocuments(ctx, bson.M{"feedback.rating": models.RatingThumbsUp}); err != nil {
		return totals, fmt.Errorf("failed to count thumbs up: %w", err)
	}
	if totals.ThumbsDown, err = r.db.Messages().CountDocuments(ctx, negativeRatingFilter()); err != nil {
		return totals, fmt.Errorf("failed to count thumbs down: %w", err)
	}
	return totals, nil
}

func (r *statsRepository) QuestionsTimeline(ctx context.Context, since time.Time) ([]models.TimelineBucket, error) {
	cursor, err := r.db.Messages().Aggregate(ctx, questionsTimelinePipeline(since))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate question timeline: %w", err)
	}

	buckets := make([]models.TimelineBucket, 0)
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode question timeline: %w", err)
	}
	return buckets, nil
}

// questionsTimelinePipeline groups User-sender messages since the cutoff
// into daily buckets keyed by the %Y-%m-%d day string.
func questionsTimelinePipeline(since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"sender":    models.SenderUser,
			"createdAt": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$createdAt",
			}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}
