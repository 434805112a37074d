package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/domain"
)

func TestGormGroupRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewGormGroupRepository(db)

	group := seedGroup(t, db, "poetry")
	assert.NotEmpty(t, group.ID)

	t.Run("get by slug", func(t *testing.T) {
		got, err := repo.GetBySlug(ctx, "poetry")
		require.NoError(t, err)
		assert.Equal(t, group.ID, got.ID)
		assert.Equal(t, "Group poetry", got.Title)
	})

	t.Run("slug not found", func(t *testing.T) {
		_, err := repo.GetBySlug(ctx, "missing")
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("duplicate slug rejected", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Group{Title: "Another", Slug: "poetry"})
		assert.ErrorIs(t, err, ErrSlugExists)
	})

	t.Run("delete detaches posts", func(t *testing.T) {
		author := seedUser(t, db, "poet")
		post := seedPost(t, db, author.ID, &group.ID, "haiku")

		require.NoError(t, repo.Delete(ctx, group.ID))

		_, err := repo.GetBySlug(ctx, "poetry")
		assert.ErrorIs(t, err, ErrGroupNotFound)

		// The post survives, just without a group.
		got, err := NewGormPostRepository(db).GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Nil(t, got.GroupID)
		assert.Nil(t, got.GroupSlug)
	})
}
