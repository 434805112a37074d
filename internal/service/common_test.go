package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/domain"
	"github.com/plumehq/plume/internal/repository"
	"github.com/plumehq/plume/pkg/database"
)

// fakeStorage keeps media objects in a map. URLs are deterministic so tests
// can assert on them.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Write(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return nil
}

func (s *fakeStorage) Read(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	data, ok := s.objects[key]
	s.mu.Unlock()
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	_, ok := s.objects[key]
	s.mu.Unlock()
	return ok, nil
}

func (s *fakeStorage) GetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "/media/" + key, nil
}

func (s *fakeStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

type testEnv struct {
	db       *gorm.DB
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository
	users    repository.UserRepository
	media    *fakeStorage
}

func newTestEnv(t *testing.T) *testEnv {
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

	return &testEnv{
		db:       db,
		posts:    repository.NewGormPostRepository(db),
		groups:   repository.NewGormGroupRepository(db),
		comments: repository.NewGormCommentRepository(db),
		follows:  repository.NewGormFollowRepository(db),
		users:    repository.NewGormUserRepository(db),
		media:    newFakeStorage(),
	}
}

func (e *testEnv) user(t *testing.T, username string) *domain.User {
	t.Helper()

	u := &domain.User{Username: username}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) group(t *testing.T, slug string) *domain.Group {
	t.Helper()

	g := &domain.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, e.groups.Create(context.Background(), g))
	return g
}

func (e *testEnv) post(t *testing.T, authorID string, groupID *string, text string) *domain.Post {
	t.Helper()

	p := &domain.Post{Text: text, AuthorID: authorID, GroupID: groupID}
	require.NoError(t, e.posts.Create(context.Background(), p))
	return p
}
