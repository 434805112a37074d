package service

import (
	"context"
	"errors"

	"github.com/plumehq/plume/internal/domain"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotPostAuthor    = errors.New("you are not the author of this post")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrSlugExists       = errors.New("group slug already taken")
)

// TimelineService builds the read views: ordered, paginated projections over
// the post store. Page numbers are 1-based; callers validate them before
// calling in.
type TimelineService interface {
	GlobalTimeline(ctx context.Context, page int) (*domain.TimelineResponse, error)
	GroupTimeline(ctx context.Context, slug string, page int) (*domain.TimelineResponse, error)
	AuthorTimeline(ctx context.Context, username string, page int) (*domain.TimelineResponse, error)
	FollowFeed(ctx context.Context, userID string, page int) (*domain.TimelineResponse, error)
}

// PostService covers content writes and the post detail view. viewerID is
// the authenticated caller; an empty viewerID marks an anonymous request.
type PostService interface {
	CreatePost(ctx context.Context, authorID string, req *domain.CreatePostRequest, image *domain.ImageUpload) (*domain.PostResponse, error)
	UpdatePost(ctx context.Context, viewerID, postID string, req *domain.UpdatePostRequest) (*domain.PostResponse, error)
	DeletePost(ctx context.Context, viewerID, postID string) error
	PostDetail(ctx context.Context, postID string) (*domain.PostDetailResponse, error)
	AddComment(ctx context.Context, viewerID, postID, text string) error
	CreateGroup(ctx context.Context, req *domain.CreateGroupRequest) (*domain.GroupResponse, error)
}

// FollowService maintains the directed follow graph. Authors are addressed
// by username, the way the HTTP surface exposes them.
type FollowService interface {
	Follow(ctx context.Context, userID, authorUsername string) error
	Unfollow(ctx context.Context, userID, authorUsername string) error
	IsFollowing(ctx context.Context, userID, authorUsername string) (bool, error)
}
