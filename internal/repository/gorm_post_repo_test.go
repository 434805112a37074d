package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPostRepository_CreateAndGet(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewGormPostRepository(db)

	author := seedUser(t, db, "leo")
	group := seedGroup(t, db, "novels")

	post := seedPost(t, db, author.ID, &group.ID, "war and peace")
	assert.NotEmpty(t, post.ID)
	assert.False(t, post.PubDate.IsZero())

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "war and peace", got.Text)
	assert.Equal(t, "leo", got.Author)
	require.NotNil(t, got.GroupSlug)
	assert.Equal(t, "novels", *got.GroupSlug)

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestGormPostRepository_ListAllOrdering(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewGormPostRepository(db)

	author := seedUser(t, db, "anna")
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedPostAt(t, db, author.ID, base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("post %d", i))
	}

	posts, total, err := repo.ListAll(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, posts, 5)

	// Newest first.
	assert.Equal(t, "post 4", posts[0].Text)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].PubDate.After(posts[i-1].PubDate))
	}
}

func TestGormPostRepository_Pagination(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewGormPostRepository(db)

	author := seedUser(t, db, "writer")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		seedPostAt(t, db, author.ID, base.Add(time.Duration(i)*time.Second), fmt.Sprintf("post %d", i))
	}

	t.Run("first page full", func(t *testing.T) {
		posts, total, err := repo.ListAll(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(13), total)
		assert.Len(t, posts, 10)
	})

	t.Run("second page remainder", func(t *testing.T) {
		posts, total, err := repo.ListAll(ctx, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(13), total)
		assert.Len(t, posts, 3)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		posts, total, err := repo.ListAll(ctx, 3, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(13), total)
		assert.Empty(t, posts)
	})
}

func TestGormPostRepository_ListFilters(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewGormPostRepository(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	group := seedGroup(t, db, "go")

	seedPost(t, db, alice.ID, &group.ID, "alice in group")
	seedPost(t, db, alice.ID, nil, "alice solo")
	seedPost(t, db, bob.ID, nil, "bob solo")
	seedPost(t, db, carol.ID, nil, "carol solo")

	t.Run("by group", func(t *testing.T) {
		posts, total, err := repo.ListByGroup(ctx, group.ID, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, posts, 1)
		assert.Equal(t, "alice in group", posts[0].Text)
	})

	t.Run("by author", func(t *testing.T) {
		posts, total, err := repo.ListByAuthor(ctx, alice.ID, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, posts, 2)
	})

	t.Run("by author set", func(t *testing.T) {
		posts, total, err := repo.ListByAuthors(ctx, []string{alice.ID, bob.ID}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		for _, p := range posts {
			assert.NotEqual(t, carol.ID, p.AuthorID)
		}
	})

	t.Run("empty author set", func(t *testing.T) {
		posts, total, err := repo.ListByAuthors(ctx, nil, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, posts)
	})
}

func TestGormPostRepository_Update(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewGormPostRepository(db)

	author := seedUser(t, db, "editor")
	group := seedGroup(t, db, "drafts")
	post := seedPost(t, db, author.ID, nil, "original")
	originalPubDate := post.PubDate

	post.Text = "revised"
	post.GroupID = &group.ID
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised", got.Text)
	require.NotNil(t, got.GroupSlug)
	assert.Equal(t, "drafts", *got.GroupSlug)
	assert.True(t, got.PubDate.Equal(originalPubDate))

	t.Run("missing post", func(t *testing.T) {
		missing := *post
		missing.ID = "missing"
		assert.ErrorIs(t, repo.Update(ctx, &missing), ErrPostNotFound)
	})
}

func TestGormPostRepository_DeleteCascadesComments(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewGormPostRepository(db)
	comments := NewGormCommentRepository(db)

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author.ID, nil, "doomed")
	other := seedPost(t, db, author.ID, nil, "survivor")

	require.NoError(t, comments.Create(ctx, commentOn(post.ID, &reader.ID, "first")))
	require.NoError(t, comments.Create(ctx, commentOn(post.ID, &reader.ID, "second")))
	require.NoError(t, comments.Create(ctx, commentOn(other.ID, &reader.ID, "elsewhere")))

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	count, err := comments.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = comments.CountByPost(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	t.Run("missing post", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrPostNotFound)
	})
}
