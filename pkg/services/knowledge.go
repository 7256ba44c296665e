package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/models"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
)

const (
	// knowledgeListLimit caps the curation list; the collection is expected
	// to stay in the hundreds.
	knowledgeListLimit = 100
	// ragSearchLimit caps the admin-facing RAG search preview.
	ragSearchLimit = 10
)

// CreateKnowledgeInput carries a new golden entry. SourceMessageID is the
// optional hex ID of the message that prompted the entry.
type CreateKnowledgeInput struct {
	Question        string
	Answer          string
	Tags            []string
	SourceMessageID string
	CreatedBy       string
}

// SyncResult reports the outcome of a golden-to-RAG sync.
type SyncResult struct {
	Count int `json:"count"`
}

// Message is the operator-facing summary of the sync outcome.
func (r SyncResult) Message() string {
	if r.Count == 0 {
		return "No items to sync"
	}
	return "Golden knowledge successfully synced to RAG DB"
}

// KnowledgeService manages golden knowledge curation and its propagation to
// the RAG store.
type KnowledgeService interface {
	Create(ctx context.Context, input CreateKnowledgeInput) (*models.GoldenKnowledge, error)
	List(ctx context.Context, query string) ([]models.GoldenKnowledge, error)
	Update(ctx context.Context, id, question, answer string, tags []string) error
	Delete(ctx context.Context, id string) error
	Sync(ctx context.Context) (SyncResult, error)
	Search(ctx context.Context, query string) ([]models.RagKnowledge, error)
}

type knowledgeService struct {
	repo   repositories.KnowledgeRepository
	logger *zap.Logger
}

// NewKnowledgeService creates a new KnowledgeService.
func NewKnowledgeService(repo repositories.KnowledgeRepository, logger *zap.Logger) KnowledgeService {
	return &knowledgeService{
		repo:   repo,
		logger: logger.Named("knowledge"),
	}
}

var _ KnowledgeService = (*knowledgeService)(nil)

func (s *knowledgeService) Create(ctx context.Context, input CreateKnowledgeInput) (*models.GoldenKnowledge, error) {
	now := time.Now().UTC()
	entry := &models.GoldenKnowledge{
		Question:  input.Question,
		Answer:    input.Answer,
		Tags:      input.Tags,
		CreatedBy: input.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}

	if input.SourceMessageID != "" {
		id, err := bson.ObjectIDFromHex(input.SourceMessageID)
		if err != nil {
			return nil, fmt.Errorf("source message id %q: %w", input.SourceMessageID, apperrors.ErrInvalidID)
		}
		entry.SourceMessageID = &id
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Golden knowledge entry created",
		zap.String("id", entry.ID.Hex()),
		zap.String("created_by", entry.CreatedBy))
	return entry, nil
}

func (s *knowledgeService) List(ctx context.Context, query string) ([]models.GoldenKnowledge, error) {
	return s.repo.List(ctx, query, knowledgeListLimit)
}

func (s *knowledgeService) Update(ctx context.Context, id, question, answer string, tags []string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("knowledge id %q: %w", id, apperrors.ErrInvalidID)
	}
	return s.repo.Update(ctx, oid, question, answer, tags)
}

func (s *knowledgeService) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("knowledge id %q: %w", id, apperrors.ErrInvalidID)
	}
	return s.repo.Delete(ctx, oid)
}

// Sync replaces the entire RAG collection with the current golden set. An
// empty golden set empties the RAG store too - the sync is a full mirror,
// not a merge.
func (s *knowledgeService) Sync(ctx context.Context) (SyncResult, error) {
	entries, err := s.repo.All(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	syncedAt := time.Now().UTC()
	ragEntries := make([]models.RagKnowledge, 0, len(entries))
	for _, e := range entries {
		ragEntries = append(ragEntries, models.NewRagKnowledge(e, syncedAt))
	}

	if err := s.repo.ReplaceRag(ctx, ragEntries); err != nil {
		return SyncResult{}, err
	}

	s.logger.Info("Golden knowledge synced to RAG store", zap.Int("count", len(ragEntries)))
	return SyncResult{Count: len(ragEntries)}, nil
}

func (s *knowledgeService) Search(ctx context.Context, query string) ([]models.RagKnowledge, error) {
	return s.repo.SearchRag(ctx, query, ragSearchLimit)
}
