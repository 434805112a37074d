package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/domain"
)

// GormGroupRepository implements GroupRepository using GORM.
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GORM-backed group repository.
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// Create creates a new group.
func (r *GormGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	group.ID = uuid.New().String()

	model := &domain.GroupModel{
		ID:          group.ID,
		Title:       group.Title,
		Slug:        group.Slug,
		Description: group.Description,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrSlugExists
		}
		return err
	}
	return nil
}

// GetBySlug retrieves a group by its slug.
func (r *GormGroupRepository) GetBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	var model domain.GroupModel
	result := r.db.WithContext(ctx).First(&model, "slug = ?", slug)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Delete removes a group. Its posts survive with their group reference
// cleared, in the same transaction.
func (r *GormGroupRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.PostModel{}).
			Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.GroupModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}
		return nil
	})
}

// Ensure interface is satisfied at compile time.
var _ GroupRepository = (*GormGroupRepository)(nil)
