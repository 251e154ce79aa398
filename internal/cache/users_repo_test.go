package cache_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/geocoder89/techhive/internal/cache"
	"github.com/geocoder89/techhive/internal/domain/user"
	"github.com/geocoder89/techhive/internal/observability"
	"github.com/geocoder89/techhive/internal/repo/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBackend wraps the memory repo and counts reads that reach it.
type countingBackend struct {
	*memory.UsersRepo
	findAll  int
	findByID int
}

func (c *countingBackend) FindAll(ctx context.Context) ([]user.User, error) {
	c.findAll++
	return c.UsersRepo.FindAll(ctx)
}

func (c *countingBackend) FindByID(ctx context.Context, id int64) (user.User, error) {
	c.findByID++
	return c.UsersRepo.FindByID(ctx, id)
}

type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("redis down")
}
func (brokenStore) Set(ctx context.Context, key string, val []byte) error {
	return errors.New("redis down")
}
func (brokenStore) DeletePrefix(ctx context.Context, prefix string) error {
	return errors.New("redis down")
}
func (brokenStore) Ping(ctx context.Context) error { return errors.New("redis down") }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCached(t *testing.T, store cache.Store) (*cache.UsersRepo, *countingBackend, *observability.Prom) {
	t.Helper()

	backend := &countingBackend{UsersRepo: memory.NewUsersRepo()}
	prom := observability.NewProm(prometheus.NewRegistry())

	return cache.NewUsersRepo(backend, store, discardLogger(), prom), backend, prom
}

func TestUsersRepo_ReadsAreCached(t *testing.T) {
	ctx := context.Background()
	r, backend, prom := newCached(t, cache.New(time.Minute))

	created, err := r.Insert(ctx, user.User{FirstName: "John", LastName: "Doe", Email: "john.doe@techhive.com", Role: "Developer"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		all, err := r.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)

		got, err := r.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	}

	assert.Equal(t, 1, backend.findAll)
	assert.Equal(t, 1, backend.findByID)
	assert.Equal(t, float64(2), testutil.ToFloat64(prom.CacheLookups.WithLabelValues("list", "hit")))
}

func TestUsersRepo_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	r, backend, _ := newCached(t, cache.New(time.Minute))

	created, err := r.Insert(ctx, user.User{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@techhive.com", Role: "Manager"})
	require.NoError(t, err)

	_, err = r.FindByID(ctx, created.ID)
	require.NoError(t, err)

	created.Role = "Team Lead"
	_, err = r.Update(ctx, created)
	require.NoError(t, err)

	got, err := r.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Team Lead", got.Role)
	assert.Equal(t, 2, backend.findByID)

	ok, err := r.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = r.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUsersRepo_ResetInvalidatesList(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newCached(t, cache.New(time.Minute))

	all, err := r.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	require.NoError(t, r.Reset(ctx, []user.User{
		{FirstName: "A", LastName: "A", Email: "a@techhive.com", Role: "Developer"},
	}))

	all, err = r.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUsersRepo_BrokenStoreFallsBackToBackend(t *testing.T) {
	ctx := context.Background()
	r, backend, prom := newCached(t, brokenStore{})

	created, err := r.Insert(ctx, user.User{FirstName: "Tom", LastName: "Miller", Email: "tom.miller@techhive.com", Role: "Architect"})
	require.NoError(t, err)

	got, err := r.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, 1, backend.findByID)
	assert.Equal(t, float64(1), testutil.ToFloat64(prom.CacheLookups.WithLabelValues("id", "error")))
}
