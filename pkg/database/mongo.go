// Package database manages the MongoDB connection and collection handles.
// A single client is constructed in main and injected everywhere; nothing in
// this package holds global state.
package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/config"
)

// Collection names. The bson field layouts of these collections are the wire
// contract shared with the chat product; visakha-admin reads most of them and
// owns golden_knowledge, rag_knowledge and admin_users.
const (
	CollUsers           = "users"
	CollConversations   = "conversations"
	CollMessages        = "messages"
	CollGoldenKnowledge = "golden_knowledge"
	CollRagKnowledge    = "rag_knowledge"
	CollAdminUsers      = "admin_users"
	CollQuestions       = "questions"
)

// DB wraps the mongo client and the application database handle.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect establishes a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*DB, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		// Best effort: the client was never usable, but disconnect releases
		// its background resources.
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", cfg.Database))

	return &DB{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Close disconnects the underlying client.
func (d *DB) Close(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}

// Collection returns a handle on a collection by name.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

func (d *DB) Users() *mongo.Collection           { return d.db.Collection(CollUsers) }
func (d *DB) Conversations() *mongo.Collection   { return d.db.Collection(CollConversations) }
func (d *DB) Messages() *mongo.Collection        { return d.db.Collection(CollMessages) }
func (d *DB) GoldenKnowledge() *mongo.Collection { return d.db.Collection(CollGoldenKnowledge) }
func (d *DB) RagKnowledge() *mongo.Collection    { return d.db.Collection(CollRagKnowledge) }
func (d *DB) AdminUsers() *mongo.Collection      { return d.db.Collection(CollAdminUsers) }
