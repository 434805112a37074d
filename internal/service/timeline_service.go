package service

import (
	"context"
	"errors"
	"time"

	pkglog "github.com/plumehq/plume/pkg/log"
	"github.com/plumehq/plume/pkg/storage"

	"github.com/plumehq/plume/internal/domain"
	"github.com/plumehq/plume/internal/repository"
)

// timelineServiceImpl implements TimelineService.
type timelineServiceImpl struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	follows  repository.FollowRepository
	media    storage.Storage
	pageSize int
	urlTTL   time.Duration
}

// NewTimelineService creates a new TimelineService with a fixed page size.
func NewTimelineService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	follows repository.FollowRepository,
	media storage.Storage,
	pageSize int,
) TimelineService {
	return &timelineServiceImpl{
		posts:    posts,
		groups:   groups,
		users:    users,
		follows:  follows,
		media:    media,
		pageSize: pageSize,
		urlTTL:   15 * time.Minute,
	}
}

// GlobalTimeline returns one page of all posts, newest first.
func (s *timelineServiceImpl) GlobalTimeline(ctx context.Context, page int) (*domain.TimelineResponse, error) {
	posts, total, err := s.posts.ListAll(ctx, page, s.pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildPage(ctx, posts, total, page), nil
}

// GroupTimeline returns one page of the posts filed under the group with the
// given slug.
func (s *timelineServiceImpl) GroupTimeline(ctx context.Context, slug string, page int) (*domain.TimelineResponse, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	posts, total, err := s.posts.ListByGroup(ctx, group.ID, page, s.pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildPage(ctx, posts, total, page), nil
}

// AuthorTimeline returns one page of the posts written by the given author.
func (s *timelineServiceImpl) AuthorTimeline(ctx context.Context, username string, page int) (*domain.TimelineResponse, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	posts, total, err := s.posts.ListByAuthor(ctx, author.ID, page, s.pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildPage(ctx, posts, total, page), nil
}

// FollowFeed returns one page of the posts written by accounts the user
// follows. Following nobody yields an empty page, not an error.
func (s *timelineServiceImpl) FollowFeed(ctx context.Context, userID string, page int) (*domain.TimelineResponse, error) {
	authorIDs, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.posts.ListByAuthors(ctx, authorIDs, page, s.pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildPage(ctx, posts, total, page), nil
}

func (s *timelineServiceImpl) buildPage(ctx context.Context, posts []domain.Post, total int64, page int) *domain.TimelineResponse {
	responses := make([]domain.PostResponse, len(posts))
	for i := range posts {
		responses[i] = s.toResponse(ctx, &posts[i])
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))

	return &domain.TimelineResponse{
		Posts:      responses,
		Total:      total,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: totalPages,
	}
}

// toResponse maps a post to its API shape, resolving the image key to a URL.
func (s *timelineServiceImpl) toResponse(ctx context.Context, p *domain.Post) domain.PostResponse {
	resp := domain.PostResponse{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  p.Author,
		Group:   p.GroupSlug,
	}

	if p.ImageKey != nil {
		url, err := s.media.GetURL(ctx, *p.ImageKey, s.urlTTL)
		if err != nil {
			logger := pkglog.Ctx(ctx)
			logger.Warn().Err(err).Str(pkglog.FieldPostID, p.ID).Msg("failed to resolve image url")
		} else {
			resp.ImageURL = url
		}
	}

	return resp
}

// Ensure interface is satisfied at compile time.
var _ TimelineService = (*timelineServiceImpl)(nil)
