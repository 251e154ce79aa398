// Package repotest holds behaviour checks every user store adapter must pass.
package repotest

import (
	"context"
	"testing"

	"github.com/geocoder89/techhive/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type UsersRepo interface {
	FindAll(ctx context.Context) ([]user.User, error)
	FindByID(ctx context.Context, id int64) (user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)
	EmailExists(ctx context.Context, email string, excludeID *int64) (bool, error)
	Insert(ctx context.Context, u user.User) (user.User, error)
	Update(ctx context.Context, u user.User) (user.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Reset(ctx context.Context, users []user.User) error
}

func sample(first, last, role string) user.User {
	return user.User{
		FirstName: first,
		LastName:  last,
		Email:     first + "." + last + "@techhive.com",
		Role:      role,
	}
}

// RunUsersRepo runs the shared checks. newRepo must return an empty store.
func RunUsersRepo(t *testing.T, newRepo func(t *testing.T) UsersRepo) {
	t.Helper()
	ctx := context.Background()

	t.Run("find_all_in_insertion_order", func(t *testing.T) {
		r := newRepo(t)

		a, err := r.Insert(ctx, sample("john", "doe", "Developer"))
		require.NoError(t, err)
		b, err := r.Insert(ctx, sample("jane", "smith", "Manager"))
		require.NoError(t, err)

		all, err := r.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, a.ID, all[0].ID)
		assert.Equal(t, b.ID, all[1].ID)
		assert.Less(t, a.ID, b.ID)
	})

	t.Run("find_all_empty", func(t *testing.T) {
		r := newRepo(t)

		all, err := r.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("insert_assigns_id", func(t *testing.T) {
		r := newRepo(t)

		in := sample("mike", "johnson", "Designer")
		in.ID = 999

		got, err := r.Insert(ctx, in)
		require.NoError(t, err)
		assert.NotZero(t, got.ID)

		stored, err := r.FindByID(ctx, got.ID)
		require.NoError(t, err)
		assert.Equal(t, got, stored)
	})

	t.Run("find_by_id_missing", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.FindByID(ctx, 42)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("find_by_email_ignores_case", func(t *testing.T) {
		r := newRepo(t)

		created, err := r.Insert(ctx, sample("emily", "williams", "QA Engineer"))
		require.NoError(t, err)

		got, err := r.FindByEmail(ctx, "EMILY.Williams@TechHive.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		_, err = r.FindByEmail(ctx, "nobody@techhive.com")
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("email_exists", func(t *testing.T) {
		r := newRepo(t)

		created, err := r.Insert(ctx, sample("david", "brown", "DevOps Engineer"))
		require.NoError(t, err)

		exists, err := r.EmailExists(ctx, "David.Brown@techhive.com", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = r.EmailExists(ctx, created.Email, &created.ID)
		require.NoError(t, err)
		assert.False(t, exists, "own id must be excluded")

		exists, err = r.EmailExists(ctx, "someone.else@techhive.com", nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("insert_duplicate_email", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.Insert(ctx, sample("sarah", "davis", "Product Manager"))
		require.NoError(t, err)

		dup := sample("sarah", "davis", "Architect")
		dup.Email = "SARAH.DAVIS@techhive.com"

		_, err = r.Insert(ctx, dup)
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("update_overwrites_fields", func(t *testing.T) {
		r := newRepo(t)

		created, err := r.Insert(ctx, sample("tom", "miller", "Architect"))
		require.NoError(t, err)

		changed := created
		changed.FirstName = "Thomas"
		changed.Role = "Team Lead"

		got, err := r.Update(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, changed, got)

		stored, err := r.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Thomas", stored.FirstName)
		assert.Equal(t, "Team Lead", stored.Role)
	})

	t.Run("update_missing", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.Update(ctx, user.User{ID: 7, FirstName: "a", LastName: "b", Email: "a@b.com", Role: "Developer"})
		assert.ErrorIs(t, err, user.ErrNotFound)

		all, err := r.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("update_to_taken_email", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.Insert(ctx, sample("lisa", "wilson", "Team Lead"))
		require.NoError(t, err)
		other, err := r.Insert(ctx, sample("james", "moore", "Developer"))
		require.NoError(t, err)

		other.Email = "lisa.wilson@techhive.com"
		_, err = r.Update(ctx, other)
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("delete", func(t *testing.T) {
		r := newRepo(t)

		created, err := r.Insert(ctx, sample("mary", "taylor", "Designer"))
		require.NoError(t, err)

		ok, err := r.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = r.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, user.ErrNotFound)

		ok, err = r.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("reset_restarts_ids", func(t *testing.T) {
		r := newRepo(t)

		for _, u := range []user.User{sample("a", "one", "Developer"), sample("b", "two", "Developer")} {
			_, err := r.Insert(ctx, u)
			require.NoError(t, err)
		}

		err := r.Reset(ctx, []user.User{
			sample("robert", "anderson", "Developer"),
			sample("patricia", "thomas", "Manager"),
			sample("linda", "white", "DevOps Engineer"),
		})
		require.NoError(t, err)

		all, err := r.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i, u := range all {
			assert.Equal(t, int64(i+1), u.ID)
		}
		assert.Equal(t, "robert", all[0].FirstName)
	})

	t.Run("email_case_folds_beyond_ascii", func(t *testing.T) {
		r := newRepo(t)

		stored, err := r.Insert(ctx, user.User{
			FirstName: "Änne", LastName: "Öberg", Email: "ÄNNE.ÖBERG@techhive.com", Role: "Developer",
		})
		require.NoError(t, err)

		exists, err := r.EmailExists(ctx, "änne.öberg@techhive.com", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		found, err := r.FindByEmail(ctx, "änne.öberg@techhive.com")
		require.NoError(t, err)
		assert.Equal(t, stored, found)

		_, err = r.Insert(ctx, user.User{
			FirstName: "Anne", LastName: "Oberg", Email: "änne.öberg@techhive.com", Role: "Manager",
		})
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("reset_with_duplicate_rolls_back", func(t *testing.T) {
		r := newRepo(t)

		kept, err := r.Insert(ctx, sample("nancy", "lee", "Developer"))
		require.NoError(t, err)

		err = r.Reset(ctx, []user.User{
			{FirstName: "a", LastName: "one", Email: "same@techhive.com", Role: "Developer"},
			{FirstName: "b", LastName: "two", Email: "SAME@techhive.com", Role: "Developer"},
		})
		assert.ErrorIs(t, err, user.ErrEmailTaken)

		all, err := r.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []user.User{kept}, all)

		next, err := r.Insert(ctx, sample("mark", "hall", "Manager"))
		require.NoError(t, err)
		assert.Greater(t, next.ID, kept.ID)
	})
}
