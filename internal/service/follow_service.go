package service

import (
	"context"
	"errors"

	pkglog "github.com/plumehq/plume/pkg/log"

	"github.com/plumehq/plume/internal/audit"
	"github.com/plumehq/plume/internal/domain"
	"github.com/plumehq/plume/internal/repository"
)

// followServiceImpl implements FollowService.
type followServiceImpl struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

// NewFollowService creates a new FollowService.
func NewFollowService(follows repository.FollowRepository, users repository.UserRepository) FollowService {
	return &followServiceImpl{
		follows: follows,
		users:   users,
	}
}

// Follow creates a follow edge from userID to the author with the given
// username. Self-follows and duplicate edges are rejected.
func (s *followServiceImpl) Follow(ctx context.Context, userID, authorUsername string) error {
	author, err := s.resolveAuthor(ctx, authorUsername)
	if err != nil {
		return err
	}

	if userID == author.ID {
		return ErrSelfFollow
	}

	if err := s.follows.Follow(ctx, userID, author.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyFollowing) {
			return ErrAlreadyFollowing
		}
		logger := pkglog.Ctx(ctx)
		logger.Error().Err(err).
			Str(pkglog.FieldUserID, userID).
			Str(pkglog.FieldUsername, authorUsername).
			Msg("failed to follow author")
		return err
	}

	audit.LogWithDetail(ctx, audit.ActionFollow, userID, author.ID, "author followed")
	return nil
}

// Unfollow removes the follow edge from userID to the author. Removing an
// edge that does not exist is a no-op, not an error.
func (s *followServiceImpl) Unfollow(ctx context.Context, userID, authorUsername string) error {
	author, err := s.resolveAuthor(ctx, authorUsername)
	if err != nil {
		return err
	}

	if err := s.follows.Unfollow(ctx, userID, author.ID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return nil
		}
		logger := pkglog.Ctx(ctx)
		logger.Error().Err(err).
			Str(pkglog.FieldUserID, userID).
			Str(pkglog.FieldUsername, authorUsername).
			Msg("failed to unfollow author")
		return err
	}

	audit.LogWithDetail(ctx, audit.ActionUnfollow, userID, author.ID, "author unfollowed")
	return nil
}

// IsFollowing checks whether userID follows the author with the given
// username.
func (s *followServiceImpl) IsFollowing(ctx context.Context, userID, authorUsername string) (bool, error) {
	author, err := s.resolveAuthor(ctx, authorUsername)
	if err != nil {
		return false, err
	}
	return s.follows.IsFollowing(ctx, userID, author.ID)
}

func (s *followServiceImpl) resolveAuthor(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Ensure interface is satisfied at compile time.
var _ FollowService = (*followServiceImpl)(nil)
