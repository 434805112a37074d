package service

import (
	"context"
	"errors"
	"path"
	"time"

	"github.com/google/uuid"

	pkglog "github.com/plumehq/plume/pkg/log"
	"github.com/plumehq/plume/pkg/storage"

	"github.com/plumehq/plume/internal/audit"
	"github.com/plumehq/plume/internal/domain"
	"github.com/plumehq/plume/internal/repository"
)

// postServiceImpl implements PostService.
type postServiceImpl struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
	media    storage.Storage
	urlTTL   time.Duration
}

// NewPostService creates a new PostService.
func NewPostService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	comments repository.CommentRepository,
	media storage.Storage,
) PostService {
	return &postServiceImpl{
		posts:    posts,
		groups:   groups,
		comments: comments,
		media:    media,
		urlTTL:   15 * time.Minute,
	}
}

// CreatePost creates a post for the authenticated author. The optional image
// is written to media storage first; only its key is persisted.
func (s *postServiceImpl) CreatePost(ctx context.Context, authorID string, req *domain.CreatePostRequest, image *domain.ImageUpload) (*domain.PostResponse, error) {
	groupID, err := s.resolveGroup(ctx, req.Group)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		Text:     req.Text,
		AuthorID: authorID,
		GroupID:  groupID,
	}

	if image != nil {
		key := "posts/" + uuid.New().String() + path.Ext(image.Filename)
		if err := s.media.Write(ctx, key, image.Reader, image.Size, image.ContentType); err != nil {
			return nil, err
		}
		post.ImageKey = &key
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	audit.LogWithDetail(ctx, audit.ActionCreatePost, authorID, post.ID, "post created")

	// Re-read so the response carries the author username and group slug.
	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, created)
	return &resp, nil
}

// UpdatePost edits a post's text and group. Only the author may edit;
// pub_date is never touched.
func (s *postServiceImpl) UpdatePost(ctx context.Context, viewerID, postID string, req *domain.UpdatePostRequest) (*domain.PostResponse, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.AuthorID != viewerID {
		return nil, ErrNotPostAuthor
	}

	groupID, err := s.resolveGroup(ctx, req.Group)
	if err != nil {
		return nil, err
	}

	post.Text = req.Text
	post.GroupID = groupID

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	audit.LogWithDetail(ctx, audit.ActionEditPost, viewerID, postID, "post edited")

	updated, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, updated)
	return &resp, nil
}

// DeletePost removes a post and its comments. Only the author may delete.
func (s *postServiceImpl) DeletePost(ctx context.Context, viewerID, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.AuthorID != viewerID {
		return ErrNotPostAuthor
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	// Media cleanup is best-effort; an orphaned object is harmless.
	if post.ImageKey != nil {
		if err := s.media.Delete(ctx, *post.ImageKey); err != nil {
			logger := pkglog.Ctx(ctx)
			logger.Warn().Err(err).Str(pkglog.FieldPostID, postID).Msg("failed to delete post image")
		}
	}

	audit.LogWithDetail(ctx, audit.ActionDeletePost, viewerID, postID, "post deleted")
	return nil
}

// PostDetail returns a post together with its comments, newest first.
func (s *postServiceImpl) PostDetail(ctx context.Context, postID string) (*domain.PostDetailResponse, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	commentResponses := make([]domain.CommentResponse, len(comments))
	for i := range comments {
		commentResponses[i] = comments[i].ToResponse()
	}

	return &domain.PostDetailResponse{
		Post:     s.toResponse(ctx, post),
		Comments: commentResponses,
	}, nil
}

// AddComment creates a comment on behalf of the viewer. Anonymous attempts
// are dropped silently: nothing is persisted and no error is reported, the
// same way the web layer swallows guest comment submissions.
func (s *postServiceImpl) AddComment(ctx context.Context, viewerID, postID, text string) error {
	if viewerID == "" {
		logger := pkglog.Ctx(ctx)
		logger.Debug().Str(pkglog.FieldPostID, postID).Msg("anonymous comment attempt ignored")
		return nil
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	comment := &domain.Comment{
		PostID:   postID,
		AuthorID: &viewerID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return err
	}

	audit.LogWithDetail(ctx, audit.ActionCreateComment, viewerID, postID, "comment created")
	return nil
}

// CreateGroup creates a new group. Slugs are unique and immutable.
func (s *postServiceImpl) CreateGroup(ctx context.Context, req *domain.CreateGroupRequest) (*domain.GroupResponse, error) {
	group := &domain.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return nil, ErrSlugExists
		}
		return nil, err
	}

	resp := group.ToResponse()
	return &resp, nil
}

// resolveGroup maps a group slug from a request to a group ID. An empty slug
// means the post is filed under no group.
func (s *postServiceImpl) resolveGroup(ctx context.Context, slug string) (*string, error) {
	if slug == "" {
		return nil, nil
	}

	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group.ID, nil
}

func (s *postServiceImpl) toResponse(ctx context.Context, p *domain.Post) domain.PostResponse {
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
var _ PostService = (*postServiceImpl)(nil)
