package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/plumehq/plume/internal/cache"
	"github.com/plumehq/plume/internal/domain"
	"github.com/plumehq/plume/internal/service"
	pkglog "github.com/plumehq/plume/pkg/log"
	"github.com/plumehq/plume/pkg/middleware"
	"github.com/plumehq/plume/pkg/response"
)

// Handler handles HTTP requests for the blogging API.
type Handler struct {
	timelines      service.TimelineService
	posts          service.PostService
	follows        service.FollowService
	pages          cache.PageCache
	authMiddleware *middleware.AuthMiddleware
	cacheTTL       time.Duration
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	timelines service.TimelineService,
	posts service.PostService,
	follows service.FollowService,
	pages cache.PageCache,
	authMiddleware *middleware.AuthMiddleware,
	cacheTTL time.Duration,
) *Handler {
	return &Handler{
		timelines:      timelines,
		posts:          posts,
		follows:        follows,
		pages:          pages,
		authMiddleware: authMiddleware,
		cacheTTL:       cacheTTL,
	}
}

// RegisterRoutes registers all routes onto the Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		posts := api.Group("/posts")
		{
			// GET /api/v1/posts — global timeline, page-cached
			posts.GET("", h.authMiddleware.OptionalAuth(), h.GlobalTimeline)
			// POST /api/v1/posts — auth required
			posts.POST("", h.authMiddleware.RequireAuth(), h.CreatePost)
			// GET /api/v1/posts/:post_id — post detail with comments
			posts.GET("/:post_id", h.PostDetail)
			// PUT /api/v1/posts/:post_id — author only
			posts.PUT("/:post_id", h.authMiddleware.RequireAuth(), h.UpdatePost)
			// DELETE /api/v1/posts/:post_id — author only
			posts.DELETE("/:post_id", h.authMiddleware.RequireAuth(), h.DeletePost)
			// POST /api/v1/posts/:post_id/comments — anonymous allowed, silently dropped
			posts.POST("/:post_id/comments", h.authMiddleware.OptionalAuth(), h.AddComment)
		}

		groups := api.Group("/groups")
		{
			// POST /api/v1/groups — auth required
			groups.POST("", h.authMiddleware.RequireAuth(), h.CreateGroup)
			// GET /api/v1/groups/:slug/posts — group timeline
			groups.GET("/:slug/posts", h.GroupTimeline)
		}

		users := api.Group("/users")
		{
			// GET /api/v1/users/:username/posts — author timeline
			users.GET("/:username/posts", h.AuthorTimeline)
			// POST /api/v1/users/:username/follow — auth required
			users.POST("/:username/follow", h.authMiddleware.RequireAuth(), h.Follow)
			// DELETE /api/v1/users/:username/follow — auth required
			users.DELETE("/:username/follow", h.authMiddleware.RequireAuth(), h.Unfollow)
			// GET /api/v1/users/:username/follow — follow status
			users.GET("/:username/follow", h.authMiddleware.RequireAuth(), h.FollowStatus)
		}

		// GET /api/v1/feed — posts from followed authors, auth required
		api.GET("/feed", h.authMiddleware.RequireAuth(), h.FollowFeed)
	}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GlobalTimeline handles GET /api/v1/posts.
// The rendered page is cached per page number, with separate slots for
// authenticated and anonymous viewers.
func (h *Handler) GlobalTimeline(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	page, ok := pageParam(c)
	if !ok {
		return
	}

	key := cache.Key(fmt.Sprintf("index?page=%d", page), middleware.IsAuthenticated(c))
	if body, hit := h.pages.Get(key); hit {
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	timeline, err := h.timelines.GlobalTimeline(ctx, page)
	if err != nil {
		l.Error().Err(err).Int("page", page).Msg("global timeline failed")
		response.InternalError(c, "failed to load posts")
		return
	}

	body, err := json.Marshal(response.Response{Success: true, Data: timeline})
	if err != nil {
		l.Error().Err(err).Msg("marshal timeline failed")
		response.InternalError(c, "failed to load posts")
		return
	}

	h.pages.Set(key, body, h.cacheTTL)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GroupTimeline handles GET /api/v1/groups/:slug/posts.
func (h *Handler) GroupTimeline(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	page, ok := pageParam(c)
	if !ok {
		return
	}

	slug := c.Param("slug")
	timeline, err := h.timelines.GroupTimeline(ctx, slug, page)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.NotFound(c, "group not found")
			return
		}
		l.Error().Err(err).Str(pkglog.FieldGroupSlug, slug).Msg("group timeline failed")
		response.InternalError(c, "failed to load posts")
		return
	}

	response.Success(c, timeline)
}

// AuthorTimeline handles GET /api/v1/users/:username/posts.
func (h *Handler) AuthorTimeline(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	page, ok := pageParam(c)
	if !ok {
		return
	}

	username := c.Param("username")
	timeline, err := h.timelines.AuthorTimeline(ctx, username, page)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str("username", username).Msg("author timeline failed")
		response.InternalError(c, "failed to load posts")
		return
	}

	response.Success(c, timeline)
}

// FollowFeed handles GET /api/v1/feed.
func (h *Handler) FollowFeed(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	page, ok := pageParam(c)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	timeline, err := h.timelines.FollowFeed(ctx, userID, page)
	if err != nil {
		l.Error().Err(err).Str(pkglog.FieldUserID, userID).Msg("follow feed failed")
		response.InternalError(c, "failed to load feed")
		return
	}

	response.Success(c, timeline)
}

// CreatePost handles POST /api/v1/posts.
// Accepts multipart form data with an optional image file.
func (h *Handler) CreatePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req domain.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "text is required")
		return
	}

	image, closeImage, err := imageParam(c)
	if err != nil {
		response.BadRequest(c, "invalid image upload")
		return
	}
	if closeImage != nil {
		defer closeImage()
	}

	post, err := h.posts.CreatePost(ctx, middleware.GetUserID(c), &req, image)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.BadRequest(c, "group not found")
			return
		}
		l.Error().Err(err).Msg("create post failed")
		response.InternalError(c, "failed to create post")
		return
	}

	response.Created(c, post)
}

// PostDetail handles GET /api/v1/posts/:post_id.
func (h *Handler) PostDetail(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	postID := c.Param("post_id")
	detail, err := h.posts.PostDetail(ctx, postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l.Error().Err(err).Str(pkglog.FieldPostID, postID).Msg("post detail failed")
		response.InternalError(c, "failed to load post")
		return
	}

	response.Success(c, detail)
}

// UpdatePost handles PUT /api/v1/posts/:post_id.
func (h *Handler) UpdatePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req domain.UpdatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "text is required")
		return
	}

	postID := c.Param("post_id")
	post, err := h.posts.UpdatePost(ctx, middleware.GetUserID(c), postID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, "post not found")
		case errors.Is(err, service.ErrNotPostAuthor):
			response.Forbidden(c, "only the author can edit this post")
		case errors.Is(err, service.ErrGroupNotFound):
			response.BadRequest(c, "group not found")
		default:
			l.Error().Err(err).Str(pkglog.FieldPostID, postID).Msg("update post failed")
			response.InternalError(c, "failed to update post")
		}
		return
	}

	response.Success(c, post)
}

// DeletePost handles DELETE /api/v1/posts/:post_id.
func (h *Handler) DeletePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	postID := c.Param("post_id")
	if err := h.posts.DeletePost(ctx, middleware.GetUserID(c), postID); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, "post not found")
		case errors.Is(err, service.ErrNotPostAuthor):
			response.Forbidden(c, "only the author can delete this post")
		default:
			l.Error().Err(err).Str(pkglog.FieldPostID, postID).Msg("delete post failed")
			response.InternalError(c, "failed to delete post")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// AddComment handles POST /api/v1/posts/:post_id/comments.
// Anonymous submissions are accepted and silently dropped.
func (h *Handler) AddComment(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req domain.CreateCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "text is required")
		return
	}

	postID := c.Param("post_id")
	if err := h.posts.AddComment(ctx, middleware.GetUserID(c), postID, req.Text); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l.Error().Err(err).Str(pkglog.FieldPostID, postID).Msg("add comment failed")
		response.InternalError(c, "failed to add comment")
		return
	}

	response.Created(c, gin.H{"message": "comment submitted"})
}

// CreateGroup handles POST /api/v1/groups.
func (h *Handler) CreateGroup(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req domain.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title and slug are required")
		return
	}

	group, err := h.posts.CreateGroup(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrSlugExists) {
			response.Conflict(c, "slug already taken")
			return
		}
		l.Error().Err(err).Str(pkglog.FieldGroupSlug, req.Slug).Msg("create group failed")
		response.InternalError(c, "failed to create group")
		return
	}

	response.Created(c, group)
}

// Follow handles POST /api/v1/users/:username/follow.
func (h *Handler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	username := c.Param("username")
	if err := h.follows.Follow(ctx, middleware.GetUserID(c), username); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrSelfFollow):
			response.BadRequest(c, "cannot follow yourself")
		case errors.Is(err, service.ErrAlreadyFollowing):
			response.Conflict(c, "already following")
		default:
			l.Error().Err(err).Str("username", username).Msg("follow failed")
			response.InternalError(c, "failed to follow user")
		}
		return
	}

	response.Created(c, gin.H{"message": "followed successfully"})
}

// Unfollow handles DELETE /api/v1/users/:username/follow.
// Unfollowing an author who is not followed is a no-op.
func (h *Handler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	username := c.Param("username")
	if err := h.follows.Unfollow(ctx, middleware.GetUserID(c), username); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str("username", username).Msg("unfollow failed")
		response.InternalError(c, "failed to unfollow user")
		return
	}

	c.Status(http.StatusNoContent)
}

// FollowStatus handles GET /api/v1/users/:username/follow.
func (h *Handler) FollowStatus(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	username := c.Param("username")
	following, err := h.follows.IsFollowing(ctx, middleware.GetUserID(c), username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str("username", username).Msg("follow status failed")
		response.InternalError(c, "failed to check follow status")
		return
	}

	response.Success(c, domain.FollowStatusResponse{Following: following})
}

// pageParam parses the ?page query parameter. Missing defaults to 1;
// non-numeric or non-positive values are rejected with 400.
func pageParam(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		response.BadRequest(c, "page must be a positive integer")
		return 0, false
	}
	return page, true
}

// imageParam extracts the optional image file from a multipart form.
// Returns a nil upload when no file was attached.
func imageParam(c *gin.Context) (*domain.ImageUpload, func(), error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}

	upload := &domain.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	}
	return upload, func() { f.Close() }, nil
}
