package domain

import (
	"time"
)

// PostModel is the GORM model for the posts table.
type PostModel struct {
	ID       string    `gorm:"type:varchar(36);primaryKey"`
	Text     string    `gorm:"type:text;not null"`
	PubDate  time.Time `gorm:"index;not null"`
	AuthorID string    `gorm:"type:varchar(36);index;not null"`
	GroupID  *string   `gorm:"type:varchar(36);index"`
	ImageKey *string   `gorm:"type:varchar(255)"`

	Author UserModel   `gorm:"foreignKey:AuthorID"`
	Group  *GroupModel `gorm:"foreignKey:GroupID"`
}

func (PostModel) TableName() string { return "posts" }

// GroupModel is the GORM model for the groups table.
type GroupModel struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	Title       string `gorm:"type:varchar(200);not null"`
	Slug        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string `gorm:"type:varchar(400)"`
}

func (GroupModel) TableName() string { return "groups" }

// CommentModel is the GORM model for the comments table.
// AuthorID is nullable: removing an account detaches its comments instead of
// deleting them.
type CommentModel struct {
	ID       string    `gorm:"type:varchar(36);primaryKey"`
	PostID   string    `gorm:"type:varchar(36);index;not null"`
	AuthorID *string   `gorm:"type:varchar(36);index"`
	Text     string    `gorm:"type:text;not null"`
	Created  time.Time `gorm:"index;not null"`

	Author *UserModel `gorm:"foreignKey:AuthorID"`
}

func (CommentModel) TableName() string { return "comments" }

// FollowModel is the GORM model for the follows table. The composite unique
// index keeps the graph free of duplicate edges, so feed queries never
// double-count an author's posts.
type FollowModel struct {
	ID       string `gorm:"type:varchar(36);primaryKey"`
	UserID   string `gorm:"type:varchar(36);not null;uniqueIndex:uidx_follow_pair"`
	AuthorID string `gorm:"type:varchar(36);not null;uniqueIndex:uidx_follow_pair"`
}

func (FollowModel) TableName() string { return "follows" }

// UserModel is the GORM model for the users table. Accounts are managed by
// the external identity provider; this table holds the reference records the
// content entities hang off.
type UserModel struct {
	ID       string `gorm:"type:varchar(36);primaryKey"`
	Username string `gorm:"type:varchar(50);uniqueIndex;not null"`
}

func (UserModel) TableName() string { return "users" }

// ToDomain converts PostModel to domain Post.
func (m *PostModel) ToDomain() *Post {
	p := &Post{
		ID:       m.ID,
		Text:     m.Text,
		PubDate:  m.PubDate,
		AuthorID: m.AuthorID,
		GroupID:  m.GroupID,
		ImageKey: m.ImageKey,
		Author:   m.Author.Username,
	}
	if m.Group != nil {
		p.GroupSlug = &m.Group.Slug
	}
	return p
}

// PostToModel converts domain Post to PostModel.
func PostToModel(p *Post) *PostModel {
	return &PostModel{
		ID:       p.ID,
		Text:     p.Text,
		PubDate:  p.PubDate,
		AuthorID: p.AuthorID,
		GroupID:  p.GroupID,
		ImageKey: p.ImageKey,
	}
}

// ToDomain converts CommentModel to domain Comment.
func (m *CommentModel) ToDomain() *Comment {
	c := &Comment{
		ID:       m.ID,
		PostID:   m.PostID,
		AuthorID: m.AuthorID,
		Text:     m.Text,
		Created:  m.Created,
	}
	if m.Author != nil {
		c.Author = &m.Author.Username
	}
	return c
}

// ToDomain converts GroupModel to domain Group.
func (m *GroupModel) ToDomain() *Group {
	return &Group{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
	}
}

// ToDomain converts UserModel to domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:       m.ID,
		Username: m.Username,
	}
}
