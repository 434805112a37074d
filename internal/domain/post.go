package domain

import (
	"io"
	"time"
)

// Post represents a published post.
type Post struct {
	ID        string
	Text      string
	PubDate   time.Time
	AuthorID  string
	Author    string // username
	GroupID   *string
	GroupSlug *string
	ImageKey  *string
}

// Group represents a topic posts can be filed under. Slug is the external
// identifier and never changes after creation.
type Group struct {
	ID          string
	Title       string
	Slug        string
	Description string
}

// Comment represents a comment on a post.
type Comment struct {
	ID       string
	PostID   string
	AuthorID *string
	Author   *string // username, nil when the account was removed
	Text     string
	Created  time.Time
}

// User represents a user reference record.
type User struct {
	ID       string
	Username string
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Text  string `form:"text" json:"text" binding:"required"`
	Group string `form:"group" json:"group"` // group slug, optional
}

// UpdatePostRequest is the request body for editing a post.
type UpdatePostRequest struct {
	Text  string `form:"text" json:"text" binding:"required"`
	Group string `form:"group" json:"group"`
}

// CreateCommentRequest is the request body for commenting on a post.
type CreateCommentRequest struct {
	Text string `form:"text" json:"text" binding:"required"`
}

// CreateGroupRequest is the request body for creating a group.
type CreateGroupRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Slug        string `json:"slug" binding:"required,max=100"`
	Description string `json:"description" binding:"max=400"`
}

// ImageUpload carries an uploaded post image into the service layer.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// PostResponse represents a post in API responses.
type PostResponse struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
	Author   string    `json:"author"`
	Group    *string   `json:"group,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
}

// CommentResponse represents a comment in API responses.
type CommentResponse struct {
	ID      string    `json:"id"`
	PostID  string    `json:"post_id"`
	Author  *string   `json:"author"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// TimelineResponse is a single page of a timeline.
type TimelineResponse struct {
	Posts      []PostResponse `json:"posts"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// PostDetailResponse is a post together with its comments.
type PostDetailResponse struct {
	Post     PostResponse      `json:"post"`
	Comments []CommentResponse `json:"comments"`
}

// FollowStatusResponse reports whether the viewer follows an author.
type FollowStatusResponse struct {
	Following bool `json:"following"`
}

// ToResponse converts a Group to its API representation.
func (g *Group) ToResponse() GroupResponse {
	return GroupResponse{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
	}
}

// ToResponse converts a Comment to its API representation.
func (c *Comment) ToResponse() CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		PostID:  c.PostID,
		Author:  c.Author,
		Text:    c.Text,
		Created: c.Created,
	}
}
