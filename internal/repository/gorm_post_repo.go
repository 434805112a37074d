package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/domain"
)

// GormPostRepository implements PostRepository using GORM.
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GORM-backed post repository.
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post. PubDate is assigned once here and never updated.
func (r *GormPostRepository) Create(ctx context.Context, post *domain.Post) error {
	post.ID = uuid.New().String()
	post.PubDate = time.Now().UTC()

	model := domain.PostToModel(post)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	return nil
}

// GetByID retrieves a post by ID with its author and group resolved.
func (r *GormPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var model domain.PostModel
	result := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Update rewrites the mutable columns of a post. PubDate and AuthorID stay
// untouched.
func (r *GormPostRepository) Update(ctx context.Context, post *domain.Post) error {
	result := r.db.WithContext(ctx).Model(&domain.PostModel{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"text":      post.Text,
			"group_id":  post.GroupID,
			"image_key": post.ImageKey,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes a post and its comments in one transaction.
func (r *GormPostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.CommentModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.PostModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

// ListAll returns one page of all posts, newest first.
func (r *GormPostRepository) ListAll(ctx context.Context, page, pageSize int) ([]domain.Post, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&domain.PostModel{}), page, pageSize)
}

// ListByGroup returns one page of a group's posts, newest first.
func (r *GormPostRepository) ListByGroup(ctx context.Context, groupID string, page, pageSize int) ([]domain.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.PostModel{}).Where("group_id = ?", groupID)
	return r.list(ctx, q, page, pageSize)
}

// ListByAuthor returns one page of an author's posts, newest first.
func (r *GormPostRepository) ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.PostModel{}).Where("author_id = ?", authorID)
	return r.list(ctx, q, page, pageSize)
}

// ListByAuthors returns one page of the posts authored by any of the given
// authors, newest first. An empty author set yields an empty page.
func (r *GormPostRepository) ListByAuthors(ctx context.Context, authorIDs []string, page, pageSize int) ([]domain.Post, int64, error) {
	if len(authorIDs) == 0 {
		return []domain.Post{}, 0, nil
	}
	q := r.db.WithContext(ctx).Model(&domain.PostModel{}).Where("author_id IN ?", authorIDs)
	return r.list(ctx, q, page, pageSize)
}

// list executes the shared count+page query. Pages beyond the end come back
// empty with the total still reported.
func (r *GormPostRepository) list(ctx context.Context, q *gorm.DB, page, pageSize int) ([]domain.Post, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []domain.PostModel
	err := q.Session(&gorm.Session{}).
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	posts := make([]domain.Post, len(models))
	for i := range models {
		posts[i] = *models[i].ToDomain()
	}
	return posts, total, nil
}

// Ensure interface is satisfied at compile time.
var _ PostRepository = (*GormPostRepository)(nil)
