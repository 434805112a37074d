package repository

import (
	"context"
	"errors"

	"github.com/plumehq/plume/internal/domain"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrFollowNotFound   = errors.New("follow relationship not found")
	ErrAlreadyFollowing = errors.New("already following")
	ErrSlugExists       = errors.New("group slug already exists")
	ErrUsernameExists   = errors.New("username already exists")
)

// PostRepository defines persistence operations for posts. List methods
// return a single page in pub_date descending order together with the total
// number of matching posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context, page, pageSize int) ([]domain.Post, int64, error)
	ListByGroup(ctx context.Context, groupID string, page, pageSize int) ([]domain.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Post, int64, error)
	ListByAuthors(ctx context.Context, authorIDs []string, page, pageSize int) ([]domain.Post, int64, error)
}

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetBySlug(ctx context.Context, slug string) (*domain.Group, error)
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Follow(ctx context.Context, userID, authorID string) error
	Unfollow(ctx context.Context, userID, authorID string) error
	IsFollowing(ctx context.Context, userID, authorID string) (bool, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// UserRepository defines persistence operations for user reference records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
