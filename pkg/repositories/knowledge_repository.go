package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/database"
	"github.com/visakha-ai/visakha-admin/pkg/models"
)

// KnowledgeRepository provides data access for golden knowledge entries and
// their synced RAG copies.
type KnowledgeRepository interface {
	Insert(ctx context.Context, entry *models.GoldenKnowledge) error
	List(ctx context.Context, query string, limit int64) ([]models.GoldenKnowledge, error)
	All(ctx context.Context) ([]models.GoldenKnowledge, error)
	Update(ctx context.Context, id bson.ObjectID, question, answer string, tags []string) error
	Delete(ctx context.Context, id bson.ObjectID) error
	ReplaceRag(ctx context.Context, entries []models.RagKnowledge) error
	SearchRag(ctx context.Context, query string, limit int64) ([]models.RagKnowledge, error)
	SearchRagResults(ctx context.Context, query string, limit int64) ([]models.KnowledgeSearchResult, error)
}

type knowledgeRepository struct {
	db *database.DB
}

// NewKnowledgeRepository creates a new KnowledgeRepository.
func NewKnowledgeRepository(db *database.DB) KnowledgeRepository {
	return &knowledgeRepository{db: db}
}

var _ KnowledgeRepository = (*knowledgeRepository)(nil)

func (r *knowledgeRepository) Insert(ctx context.Context, entry *models.GoldenKnowledge) error {
	result, err := r.db.GoldenKnowledge().InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to insert knowledge entry: %w", err)
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		entry.ID = id
	}
	return nil
}

func (r *knowledgeRepository) List(ctx context.Context, query string, limit int64) ([]models.GoldenKnowledge, error) {
	filter := bson.M{}
	if query != "" {
		re := caseInsensitiveSubstring(query)
		filter = bson.M{"$or": bson.A{
			bson.M{"question": re},
			bson.M{"answer": re},
		}}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.db.GoldenKnowledge().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge entries: %w", err)
	}

	entries := make([]models.GoldenKnowledge, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge entries: %w", err)
	}
	return entries, nil
}

func (r *knowledgeRepository) All(ctx context.Context) ([]models.GoldenKnowledge, error) {
	cursor, err := r.db.GoldenKnowledge().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge entries: %w", err)
	}

	entries := make([]models.GoldenKnowledge, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge entries: %w", err)
	}
	return entries, nil
}

func (r *knowledgeRepository) Update(ctx context.Context, id bson.ObjectID, question, answer string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}

	result, err := r.db.GoldenKnowledge().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"question":  question,
			"answer":    answer,
			"tags":      tags,
			"updatedAt": time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update knowledge entry: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *knowledgeRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.db.GoldenKnowledge().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete knowledge entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceRag swaps the entire rag_knowledge collection for the given set.
// Delete-then-insert without a transaction: a failure between the two leaves
// the collection partial, and the recovery path is simply running sync again.
func (r *knowledgeRepository) ReplaceRag(ctx context.Context, entries []models.RagKnowledge) error {
	if _, err := r.db.RagKnowledge().DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear rag knowledge: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	docs := make([]any, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e)
	}
	if _, err := r.db.RagKnowledge().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert rag knowledge: %w", err)
	}
	return nil
}

func (r *knowledgeRepository) SearchRag(ctx context.Context, query string, limit int64) ([]models.RagKnowledge, error) {
	cursor, err := r.db.RagKnowledge().Find(ctx, ragSearchFilter(query), options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search rag knowledge: %w", err)
	}

	entries := make([]models.RagKnowledge, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode rag knowledge: %w", err)
	}
	return entries, nil
}

// SearchRagResults is the tool-facing variant: same filter, with internal
// bookkeeping fields projected away.
func (r *knowledgeRepository) SearchRagResults(ctx context.Context, query string, limit int64) ([]models.KnowledgeSearchResult, error) {
	opts := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{
			"_id":             0,
			"sourceMessageId": 0,
			"createdBy":       0,
			"createdAt":       0,
			"updatedAt":       0,
		})

	cursor, err := r.db.RagKnowledge().Find(ctx, ragSearchFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search rag knowledge: %w", err)
	}

	results := make([]models.KnowledgeSearchResult, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode rag knowledge results: %w", err)
	}
	return results, nil
}

// ragSearchFilter matches the query as a case-insensitive substring of
// question, answer or any tag.
func ragSearchFilter(query string) bson.M {
	re := caseInsensitiveSubstring(query)
	return bson.M{"$or": bson.A{
		bson.M{"question": re},
		bson.M{"answer": re},
		bson.M{"tags": re},
	}}
}

// caseInsensitiveSubstring builds a literal-substring regex. The query is
// quoted so regex metacharacters from clients cannot change the match
// semantics.
func caseInsensitiveSubstring(query string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
}
