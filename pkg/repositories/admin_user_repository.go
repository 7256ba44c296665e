package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/visakha-ai/visakha-admin/pkg/apperrors"
	"github.com/visakha-ai/visakha-admin/pkg/database"
	"github.com/visakha-ai/visakha-admin/pkg/models"
)

// AdminUserRepository provides data access for dashboard operator accounts.
type AdminUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	List(ctx context.Context) ([]models.AdminUser, error)
	Insert(ctx context.Context, user *models.AdminUser) error
	DeleteByEmail(ctx context.Context, email string) error
	CountSuperAdmins(ctx context.Context) (int64, error)
}

type adminUserRepository struct {
	db *database.DB
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(db *database.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

var _ AdminUserRepository = (*adminUserRepository)(nil)

func (r *adminUserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.AdminUsers().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin user: %w", err)
	}
	return &user, nil
}

func (r *adminUserRepository) List(ctx context.Context) ([]models.AdminUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.db.AdminUsers().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}

	users := make([]models.AdminUser, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode admin users: %w", err)
	}
	return users, nil
}

func (r *adminUserRepository) Insert(ctx context.Context, user *models.AdminUser) error {
	result, err := r.db.AdminUsers().InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (r *adminUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	result, err := r.db.AdminUsers().DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("failed to delete admin user: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *adminUserRepository) CountSuperAdmins(ctx context.Context) (int64, error) {
	count, err := r.db.AdminUsers().CountDocuments(ctx, bson.M{"role": models.RoleSuperAdmin})
	if err != nil {
		return 0, fmt.Errorf("failed to count super admins: %w", err)
	}
	return count, nil
}
