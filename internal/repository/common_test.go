package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/domain"
	"github.com/plumehq/plume/pkg/database"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.New(&database.Config{
		Driver:   "sqlite",
		FilePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	err = database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.GroupModel{},
		&domain.PostModel{},
		&domain.CommentModel{},
		&domain.FollowModel{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()

	user := &domain.User{Username: username}
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

func seedGroup(t *testing.T, db *gorm.DB, slug string) *domain.Group {
	t.Helper()

	group := &domain.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, NewGormGroupRepository(db).Create(context.Background(), group))
	return group
}

func seedPost(t *testing.T, db *gorm.DB, authorID string, groupID *string, text string) *domain.Post {
	t.Helper()

	post := &domain.Post{Text: text, AuthorID: authorID, GroupID: groupID}
	require.NoError(t, NewGormPostRepository(db).Create(context.Background(), post))
	return post
}

// seedPostAt inserts a post with an explicit pub_date, for ordering tests.
func seedPostAt(t *testing.T, db *gorm.DB, authorID string, pubDate time.Time, text string) *domain.Post {
	t.Helper()

	post := &domain.Post{
		ID:       uuid.New().String(),
		Text:     text,
		PubDate:  pubDate,
		AuthorID: authorID,
	}
	require.NoError(t, db.Create(domain.PostToModel(post)).Error)
	return post
}
