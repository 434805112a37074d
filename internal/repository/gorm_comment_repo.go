package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/domain"
)

// GormCommentRepository implements CommentRepository using GORM.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GORM-backed comment repository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment. Created is assigned once here.
func (r *GormCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	comment.ID = uuid.New().String()
	comment.Created = time.Now().UTC()

	model := &domain.CommentModel{
		ID:       comment.ID,
		PostID:   comment.PostID,
		AuthorID: comment.AuthorID,
		Text:     comment.Text,
		Created:  comment.Created,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// ListByPost returns all comments on a post, newest first.
func (r *GormCommentRepository) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	var models []domain.CommentModel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, len(models))
	for i := range models {
		comments[i] = *models[i].ToDomain()
	}
	return comments, nil
}

// CountByPost returns the number of comments on a post.
func (r *GormCommentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CommentModel{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure interface is satisfied at compile time.
var _ CommentRepository = (*GormCommentRepository)(nil)
