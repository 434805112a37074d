package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/domain"
)

// isUniqueViolation reports whether err is a unique-constraint violation,
// matching the wording of the postgres, mysql and sqlite drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint")
}

// GormFollowRepository implements FollowRepository using GORM.
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GORM-backed follow repository.
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// Follow creates a follow edge from userID to authorID. The unique index on
// (user_id, author_id) rejects duplicates.
func (r *GormFollowRepository) Follow(ctx context.Context, userID, authorID string) error {
	model := domain.FollowModel{
		ID:       uuid.New().String(),
		UserID:   userID,
		AuthorID: authorID,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// Unfollow removes the follow edge from userID to authorID.
func (r *GormFollowRepository) Unfollow(ctx context.Context, userID, authorID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&domain.FollowModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// IsFollowing checks if userID follows authorID.
func (r *GormFollowRepository) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowingIDs returns the IDs of all accounts userID follows.
func (r *GormFollowRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Count returns the total number of follow edges.
func (r *GormFollowRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure interface is satisfied at compile time.
var _ FollowRepository = (*GormFollowRepository)(nil)
