package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/domain"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-backed user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user reference record.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	model := &domain.UserModel{
		ID:       user.ID,
		Username: user.Username,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return err
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var model domain.UserModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// GetByUsername retrieves a user by username.
func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var model domain.UserModel
	result := r.db.WithContext(ctx).First(&model, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Delete removes a user record together with everything that hangs off it:
// their posts go away with those posts' comments, comments they wrote on
// other posts lose their author reference, and their follow edges are removed
// in both directions. All inside one transaction.
func (r *GormUserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&domain.UserModel{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrUserNotFound
		}

		// Comments on the posts this user authored.
		postIDs := tx.Model(&domain.PostModel{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&domain.CommentModel{}).Error; err != nil {
			return err
		}

		if err := tx.Where("author_id = ?", id).Delete(&domain.PostModel{}).Error; err != nil {
			return err
		}

		// Comments this user wrote elsewhere stay, detached from the account.
		if err := tx.Model(&domain.CommentModel{}).
			Where("author_id = ?", id).
			Update("author_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ? OR author_id = ?", id, id).
			Delete(&domain.FollowModel{}).Error; err != nil {
			return err
		}

		return tx.Delete(&domain.UserModel{}, "id = ?", id).Error
	})
}

// Ensure interface is satisfied at compile time.
var _ UserRepository = (*GormUserRepository)(nil)
