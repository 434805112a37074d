package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormFollowRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewGormFollowRepository(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	t.Run("follow and check", func(t *testing.T) {
		require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))

		following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, following)

		// Direction matters.
		following, err = repo.IsFollowing(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("duplicate follow rejected", func(t *testing.T) {
		err := repo.Follow(ctx, alice.ID, bob.ID)
		assert.ErrorIs(t, err, ErrAlreadyFollowing)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("following ids", func(t *testing.T) {
		require.NoError(t, repo.Follow(ctx, alice.ID, carol.ID))

		ids, err := repo.FollowingIDs(ctx, alice.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{bob.ID, carol.ID}, ids)

		ids, err = repo.FollowingIDs(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("unfollow restores count", func(t *testing.T) {
		before, err := repo.Count(ctx)
		require.NoError(t, err)

		require.NoError(t, repo.Follow(ctx, bob.ID, carol.ID))
		require.NoError(t, repo.Unfollow(ctx, bob.ID, carol.ID))

		after, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		following, err := repo.IsFollowing(ctx, bob.ID, carol.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("unfollow absent edge", func(t *testing.T) {
		err := repo.Unfollow(ctx, carol.ID, alice.ID)
		assert.ErrorIs(t, err, ErrFollowNotFound)
	})

	t.Run("refollow after unfollow", func(t *testing.T) {
		require.NoError(t, repo.Follow(ctx, bob.ID, carol.ID))

		following, err := repo.IsFollowing(ctx, bob.ID, carol.ID)
		require.NoError(t, err)
		assert.True(t, following)
	})
}
