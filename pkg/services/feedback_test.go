package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/models"
)

func conversationFixtures(n int) []models.ConversationView {
	views := make([]models.ConversationView, 0, n)
	for i := 0; i < n; i++ {
		views = append(views, models.ConversationView{
			ConversationID: fmt.Sprintf("conv-%d", i),
			Title:          fmt.Sprintf("Conversation %d", i),
		})
	}
	return views
}

func TestListConversations_Envelope(t *testing.T) {
	repo := newMockFeedbackRepo()
	repo.conversations = conversationFixtures(25)
	svc := NewFeedbackService(repo, zap.NewNop())

	page, err := svc.ListConversations(context.Background(), 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 10, page.Count)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, int64(3), page.TotalPages)
	require.Len(t, page.Data, 10)
	assert.Equal(t, "conv-10", page.Data[0].ConversationID)
}

func TestListConversations_LastPartialPage(t *testing.T) {
	repo := newMockFeedbackRepo()
	repo.conversations = conversationFixtures(25)
	svc := NewFeedbackService(repo, zap.NewNop())

	page, err := svc.ListConversations(context.Background(), 3, 10)
	require.NoError(t, err)

	assert.Equal(t, 5, page.Count)
	assert.Equal(t, int64(3), page.TotalPages)
}

func TestListConversations_BeyondEnd(t *testing.T) {
	repo := newMockFeedbackRepo()
	repo.conversations = conversationFixtures(5)
	svc := NewFeedbackService(repo, zap.NewNop())

	page, err := svc.ListConversations(context.Background(), 4, 10)
	require.NoError(t, err)

	// Out-of-range pages are an empty data window, not an error.
	assert.Equal(t, 0, page.Count)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, int64(1), page.TotalPages)
}

func TestListConversations_Empty(t *testing.T) {
	svc := NewFeedbackService(newMockFeedbackRepo(), zap.NewNop())

	page, err := svc.ListConversations(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, int64(0), page.TotalPages)
	assert.Empty(t, page.Data)
}

func TestGetConversation(t *testing.T) {
	repo := newMockFeedbackRepo()
	repo.conversations = conversationFixtures(3)
	svc := NewFeedbackService(repo, zap.NewNop())

	view, err := svc.GetConversation(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "Conversation 1", view.Title)

	_, err = svc.GetConversation(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetResolved_Idempotent(t *testing.T) {
	repo := newMockFeedbackRepo()
	repo.conversations = conversationFixtures(1)
	svc := NewFeedbackService(repo, zap.NewNop())

	require.NoError(t, svc.SetResolved(context.Background(), "conv-0", true))
	require.NoError(t, svc.SetResolved(context.Background(), "conv-0", true))

	// Repeating the same value succeeds and converges on the same state.
	assert.True(t, repo.conversations[0].Resolved)
	assert.Equal(t, []bool{true, true}, repo.resolved["conv-0"])

	require.NoError(t, svc.SetResolved(context.Background(), "conv-0", false))
	assert.False(t, repo.conversations[0].Resolved)
}

func TestSetResolved_NotFound(t *testing.T) {
	svc := NewFeedbackService(newMockFeedbackRepo(), zap.NewNop())
	err := svc.SetResolved(context.Background(), "missing", true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListNegative_Envelope(t *testing.T) {
	repo := newMockFeedbackRepo()
	for i := 0; i < 45; i++ {
		repo.negative = append(repo.negative, models.NegativeFeedbackMessage{
			Message: models.Message{ConversationID: fmt.Sprintf("conv-%d", i)},
		})
	}
	svc := NewFeedbackService(repo, zap.NewNop())

	page, err := svc.ListNegative(context.Background(), 2, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(45), page.Total)
	assert.Equal(t, int64(3), page.TotalPages)
	require.Len(t, page.Data, 20)
	assert.Equal(t, "conv-20", page.Data[0].ConversationID)
}

func TestListConversations_RepoError(t *testing.T) {
	repo := newMockFeedbackRepo()
	repo.err = errors.New("network down")
	svc := NewFeedbackService(repo, zap.NewNop())

	_, err := svc.ListConversations(context.Background(), 1, 10)
	assert.Error(t, err)
}
