package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/database"
)

// collectionAliases maps the externally addressable collection names to
// their stored names. Only names in this map are reachable through the
// generic CRUD surface; everything else (admin_users, rag_knowledge, ...)
// is invisible to it by construction.
var collectionAliases = map[string]string{
	"users":         database.CollUsers,
	"conversations": database.CollConversations,
	"messages":      database.CollMessages,
	"faqs":          database.CollQuestions,
}

// ResolveCollection maps an external collection name to its stored name.
// Returns false for names outside the allow-list.
func ResolveCollection(name string) (string, bool) {
	stored, ok := collectionAliases[name]
	return stored, ok
}

// CollectionRepository provides schema-agnostic CRUD over the allow-listed
// collections for the raw DB admin surface.
type CollectionRepository interface {
	List(ctx context.Context, name string, skip, limit int64) ([]bson.M, int64, error)
	Insert(ctx context.Context, name string, doc bson.M) (bson.ObjectID, error)
	Update(ctx context.Context, name string, id bson.ObjectID, doc bson.M) (matched, modified int64, err error)
	Delete(ctx context.Context, name string, id bson.ObjectID) (int64, error)
}

type collectionRepository struct {
	db *database.DB
}

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(db *database.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

var _ CollectionRepository = (*collectionRepository)(nil)

func (r *collectionRepository) resolve(name string) (string, error) {
	stored, ok := ResolveCollection(name)
	if !ok {
		return "", fmt.Errorf("collection %q: %w", name, apperrors.ErrNotFound)
	}
	return stored, nil
}

func (r *collectionRepository) List(ctx context.Context, name string, skip, limit int64) ([]bson.M, int64, error) {
	stored, err := r.resolve(name)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.db.Collection(stored).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", stored, err)
	}

	docs := make([]bson.M, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s documents: %w", stored, err)
	}

	total, err := r.db.Collection(stored).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", stored, err)
	}
	return docs, total, nil
}

func (r *collectionRepository) Insert(ctx context.Context, name string, doc bson.M) (bson.ObjectID, error) {
	stored, err := r.resolve(name)
	if err != nil {
		return bson.ObjectID{}, err
	}

	// The store owns _id; a client-supplied one is dropped, not honored.
	delete(doc, "_id")
	now := time.Now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	result, err := r.db.Collection(stored).InsertOne(ctx, doc)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("failed to insert into %s: %w", stored, err)
	}

	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.ObjectID{}, fmt.Errorf("unexpected inserted ID type %T", result.InsertedID)
	}
	return id, nil
}

func (r *collectionRepository) Update(ctx context.Context, name string, id bson.ObjectID, doc bson.M) (int64, int64, error) {
	stored, err := r.resolve(name)
	if err != nil {
		return 0, 0, err
	}

	delete(doc, "_id")
	doc["updatedAt"] = time.Now().UTC()

	result, err := r.db.Collection(stored).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": doc})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update %s document: %w", stored, err)
	}
	return result.MatchedCount, result.ModifiedCount, nil
}

func (r *collectionRepository) Delete(ctx context.Context, name string, id bson.ObjectID) (int64, error) {
	stored, err := r.resolve(name)
	if err != nil {
		return 0, err
	}

	result, err := r.db.Collection(stored).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s document: %w", stored, err)
	}
	return result.DeletedCount, nil
}
