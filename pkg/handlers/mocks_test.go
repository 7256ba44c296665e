package handlers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/auth"
	"github.com/visakha-ai/visakha-admin/pkg/models"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
	"github.com/visakha-ai/visakha-admin/pkg/services"
)

// mockFeedbackService is a mock for testing the feedback handler.
type mockFeedbackService struct {
	page        *models.PagedConversations
	view        *models.ConversationView
	negative    *models.PagedNegativeFeedback
	listErr     error
	getErr      error
	resolveErr  error
	negativeErr error

	lastPage     int
	lastLimit    int
	lastResolved bool
}

var _ services.FeedbackService = (*mockFeedbackService)(nil)

func (m *mockFeedbackService) ListConversations(ctx context.Context, page, limit int) (*models.PagedConversations, error) {
	m.lastPage, m.lastLimit = page, limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.page, nil
}

func (m *mockFeedbackService) GetConversation(ctx context.Context, conversationID string) (*models.ConversationView, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.view, nil
}

func (m *mockFeedbackService) SetResolved(ctx context.Context, conversationID string, resolved bool) error {
	m.lastResolved = resolved
	return m.resolveErr
}

func (m *mockFeedbackService) ListNegative(ctx context.Context, page, limit int) (*models.PagedNegativeFeedback, error) {
	m.lastPage, m.lastLimit = page, limit
	if m.negativeErr != nil {
		return nil, m.negativeErr
	}
	return m.negative, nil
}

// mockKnowledgeService is a mock for testing the knowledge handler.
type mockKnowledgeService struct {
	entry      *models.GoldenKnowledge
	entries    []models.GoldenKnowledge
	results    []models.RagKnowledge
	syncResult services.SyncResult
	createErr  error
	listErr    error
	updateErr  error
	deleteErr  error
	syncErr    error
	searchErr  error

	lastInput services.CreateKnowledgeInput
	lastQuery string
}

var _ services.KnowledgeService = (*mockKnowledgeService)(nil)

func (m *mockKnowledgeService) Create(ctx context.Context, input services.CreateKnowledgeInput) (*models.GoldenKnowledge, error) {
	m.lastInput = input
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.entry, nil
}

func (m *mockKnowledgeService) List(ctx context.Context, query string) ([]models.GoldenKnowledge, error) {
	m.lastQuery = query
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entries, nil
}

func (m *mockKnowledgeService) Update(ctx context.Context, id, question, answer string, tags []string) error {
	return m.updateErr
}

func (m *mockKnowledgeService) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func (m *mockKnowledgeService) Sync(ctx context.Context) (services.SyncResult, error) {
	if m.syncErr != nil {
		return services.SyncResult{}, m.syncErr
	}
	return m.syncResult, nil
}

func (m *mockKnowledgeService) Search(ctx context.Context, query string) ([]models.RagKnowledge, error) {
	m.lastQuery = query
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

// mockTeamService is a mock for testing the team handler.
type mockTeamService struct {
	members   []models.AdminUser
	added     *models.AdminUser
	listErr   error
	addErr    error
	removeErr error

	lastActor string
	lastEmail string
	lastRole  string
}

var _ services.TeamService = (*mockTeamService)(nil)

func (m *mockTeamService) Members(ctx context.Context) ([]models.AdminUser, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.members, nil
}

func (m *mockTeamService) Add(ctx context.Context, actorEmail, email, role string) (*models.AdminUser, error) {
	m.lastActor, m.lastEmail, m.lastRole = actorEmail, email, role
	if m.addErr != nil {
		return nil, m.addErr
	}
	return m.added, nil
}

func (m *mockTeamService) Remove(ctx context.Context, actorEmail, email string) error {
	m.lastActor, m.lastEmail = actorEmail, email
	return m.removeErr
}

// mockStatsService is a mock for testing the stats handler.
type mockStatsService struct {
	stats *models.Stats
	err   error
}

var _ services.StatsService = (*mockStatsService)(nil)

func (m *mockStatsService) Overview(ctx context.Context) (*models.Stats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

// mockExportService is a mock for testing the export handler.
type mockExportService struct {
	document string
	err      error
}

var _ services.ExportService = (*mockExportService)(nil)

func (m *mockExportService) Markdown(ctx context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.document, nil
}

// mockCollectionRepo is a mock for testing the DB admin handler.
type mockCollectionRepo struct {
	docs     []bson.M
	total    int64
	inserted bson.ObjectID
	matched  int64
	modified int64
	deleted  int64
	err      error

	lastCollection string
	lastSkip       int64
	lastLimit      int64
	lastDoc        bson.M
}

var _ repositories.CollectionRepository = (*mockCollectionRepo)(nil)

func (m *mockCollectionRepo) List(ctx context.Context, name string, skip, limit int64) ([]bson.M, int64, error) {
	m.lastCollection, m.lastSkip, m.lastLimit = name, skip, limit
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.docs, m.total, nil
}

func (m *mockCollectionRepo) Insert(ctx context.Context, name string, doc bson.M) (bson.ObjectID, error) {
	m.lastCollection, m.lastDoc = name, doc
	if m.err != nil {
		return bson.ObjectID{}, m.err
	}
	return m.inserted, nil
}

func (m *mockCollectionRepo) Update(ctx context.Context, name string, id bson.ObjectID, doc bson.M) (int64, int64, error) {
	m.lastCollection, m.lastDoc = name, doc
	if m.err != nil {
		return 0, 0, m.err
	}
	return m.matched, m.modified, nil
}

func (m *mockCollectionRepo) Delete(ctx context.Context, name string, id bson.ObjectID) (int64, error) {
	m.lastCollection = name
	if m.err != nil {
		return 0, m.err
	}
	return m.deleted, nil
}

// stubAuthService satisfies auth.AuthService for middleware-level tests.
// ValidateRequest returns the configured claims or error; the login methods
// are never exercised through handlers under test.
type stubAuthService struct {
	claims  *auth.Claims
	session *auth.Session
	err     error
}

var _ auth.AuthService = (*stubAuthService)(nil)

func (s *stubAuthService) GoogleLogin(ctx context.Context, googleToken string) (*auth.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubAuthService) DevLogin(ctx context.Context) (*auth.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubAuthService) ValidateRequest(r *http.Request) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func (s *stubAuthService) EnsureBootstrapAdmin(ctx context.Context) error {
	return nil
}

// superAdminContext returns a request context carrying super admin claims,
// the shape handlers see after the middleware ran.
func superAdminContext(email string) context.Context {
	claims := &auth.Claims{Email: email, Role: models.RoleSuperAdmin}
	return context.WithValue(context.Background(), auth.ClaimsKey, claims)
}

func superAdminMiddleware(email string) *auth.Middleware {
	svc := &stubAuthService{claims: &auth.Claims{Email: email, Role: models.RoleSuperAdmin}}
	return auth.NewMiddleware(svc, zap.NewNop())
}

// unauthenticatedMiddleware fails every token validation, the shape a
// request with no session hits.
func unauthenticatedMiddleware() *auth.Middleware {
	svc := &stubAuthService{err: apperrors.ErrUnauthorized}
	return auth.NewMiddleware(svc, zap.NewNop())
}
