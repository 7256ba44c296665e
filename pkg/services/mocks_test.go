package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/models"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
)

// mockFeedbackRepo implements repositories.FeedbackRepository over in-memory
// slices, emulating skip/limit windows.
type mockFeedbackRepo struct {
	conversations []models.ConversationView
	negative      []models.NegativeFeedbackMessage
	export        []models.ExportConversation

	// resolved records SetResolved calls by conversationId.
	resolved map[string][]bool

	err error
}

var _ repositories.FeedbackRepository = (*mockFeedbackRepo)(nil)

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{resolved: make(map[string][]bool)}
}

func window[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return []T{}
	}
	end := skip + limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}

func (m *mockFeedbackRepo) ListConversations(ctx context.Context, skip, limit int64) ([]models.ConversationView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return window(m.conversations, skip, limit), nil
}

func (m *mockFeedbackRepo) CountConversations(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.conversations)), nil
}

func (m *mockFeedbackRepo) GetConversation(ctx context.Context, conversationID string) (*models.ConversationView, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.conversations {
		if m.conversations[i].ConversationID == conversationID {
			return &m.conversations[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockFeedbackRepo) SetResolved(ctx context.Context, conversationID string, resolved bool) error {
	if m.err != nil {
		return m.err
	}
	found := false
	for i := range m.conversations {
		if m.conversations[i].ConversationID == conversationID {
			m.conversations[i].Resolved = resolved
			found = true
		}
	}
	if !found {
		return apperrors.ErrNotFound
	}
	m.resolved[conversationID] = append(m.resolved[conversationID], resolved)
	return nil
}

func (m *mockFeedbackRepo) ListNegative(ctx context.Context, skip, limit int64) ([]models.NegativeFeedbackMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return window(m.negative, skip, limit), nil
}

func (m *mockFeedbackRepo) CountNegative(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.negative)), nil
}

func (m *mockFeedbackRepo) ListForExport(ctx context.Context) ([]models.ExportConversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.export, nil
}

// mockKnowledgeRepo implements repositories.KnowledgeRepository, recording
// the RAG replacement sets it receives.
type mockKnowledgeRepo struct {
	golden []models.GoldenKnowledge
	rag    []models.RagKnowledge

	// ragReplacements records every ReplaceRag call, including empty sets.
	ragReplacements [][]models.RagKnowledge

	err error
}

var _ repositories.KnowledgeRepository = (*mockKnowledgeRepo)(nil)

func (m *mockKnowledgeRepo) Insert(ctx context.Context, entry *models.GoldenKnowledge) error {
	if m.err != nil {
		return m.err
	}
	if entry.ID.IsZero() {
		entry.ID = bson.NewObjectID()
	}
	m.golden = append(m.golden, *entry)
	return nil
}

func (m *mockKnowledgeRepo) List(ctx context.Context, query string, limit int64) ([]models.GoldenKnowledge, error) {
	if m.err != nil {
		return nil, m.err
	}
	return window(m.golden, 0, limit), nil
}

func (m *mockKnowledgeRepo) All(ctx context.Context) ([]models.GoldenKnowledge, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.golden, nil
}

func (m *mockKnowledgeRepo) Update(ctx context.Context, id bson.ObjectID, question, answer string, tags []string) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.golden {
		if m.golden[i].ID == id {
			m.golden[i].Question = question
			m.golden[i].Answer = answer
			m.golden[i].Tags = tags
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockKnowledgeRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.golden {
		if m.golden[i].ID == id {
			m.golden = append(m.golden[:i], m.golden[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockKnowledgeRepo) ReplaceRag(ctx context.Context, entries []models.RagKnowledge) error {
	if m.err != nil {
		return m.err
	}
	m.rag = entries
	m.ragReplacements = append(m.ragReplacements, entries)
	return nil
}

func (m *mockKnowledgeRepo) SearchRag(ctx context.Context, query string, limit int64) ([]models.RagKnowledge, error) {
	if m.err != nil {
		return nil, m.err
	}
	return window(m.rag, 0, limit), nil
}

func (m *mockKnowledgeRepo) SearchRagResults(ctx context.Context, query string, limit int64) ([]models.KnowledgeSearchResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	results := make([]models.KnowledgeSearchResult, 0)
	for _, e := range window(m.rag, 0, limit) {
		results = append(results, models.KnowledgeSearchResult{
			Question:   e.Question,
			Answer:     e.Answer,
			Tags:       e.Tags,
			SearchText: e.SearchText,
			SyncedAt:   e.SyncedAt,
		})
	}
	return results, nil
}

// mockAdminUserRepo implements repositories.AdminUserRepository in memory.
type mockAdminUserRepo struct {
	users []models.AdminUser
	err   error
}

var _ repositories.AdminUserRepository = (*mockAdminUserRepo)(nil)

func (m *mockAdminUserRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.users {
		if m.users[i].Email == email {
			return &m.users[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockAdminUserRepo) List(ctx context.Context) ([]models.AdminUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

func (m *mockAdminUserRepo) Insert(ctx context.Context, user *models.AdminUser) error {
	if m.err != nil {
		return m.err
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *mockAdminUserRepo) DeleteByEmail(ctx context.Context, email string) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.users {
		if m.users[i].Email == email {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockAdminUserRepo) CountSuperAdmins(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var count int64
	for _, u := range m.users {
		if u.Role == models.RoleSuperAdmin {
			count++
		}
	}
	return count, nil
}

// mockStatsRepo implements repositories.StatsRepository with canned data.
type mockStatsRepo struct {
	totals   models.StatsTotals
	timeline []models.TimelineBucket
	since    time.Time
	err      error
}

var _ repositories.StatsRepository = (*mockStatsRepo)(nil)

func (m *mockStatsRepo) Totals(ctx context.Context) (models.StatsTotals, error) {
	if m.err != nil {
		return models.StatsTotals{}, m.err
	}
	return m.totals, nil
}

func (m *mockStatsRepo) QuestionsTimeline(ctx context.Context, since time.Time) ([]models.TimelineBucket, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.since = since
	return m.timeline, nil
}
