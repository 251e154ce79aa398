package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/geocoder89/techhive/internal/domain/user"
	"github.com/geocoder89/techhive/internal/repo/memory"
	"github.com/geocoder89/techhive/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUsersRepo struct {
	findAllFn     func(ctx context.Context) ([]user.User, error)
	findByIDFn    func(ctx context.Context, id int64) (user.User, error)
	emailExistsFn func(ctx context.Context, email string, excludeID *int64) (bool, error)
	insertFn      func(ctx context.Context, u user.User) (user.User, error)
	updateFn      func(ctx context.Context, u user.User) (user.User, error)
	deleteFn      func(ctx context.Context, id int64) (bool, error)

	updateCalls int
	insertCalls int
}

func (f *fakeUsersRepo) FindAll(ctx context.Context) ([]user.User, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id int64) (user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) EmailExists(ctx context.Context, email string, excludeID *int64) (bool, error) {
	if f.emailExistsFn != nil {
		return f.emailExistsFn(ctx, email, excludeID)
	}
	return false, nil
}

func (f *fakeUsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	f.insertCalls++
	if f.insertFn != nil {
		return f.insertFn(ctx, u)
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	f.updateCalls++
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return u, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return false, nil
}

func newCreate(email string) user.CreateUserRequest {
	return user.CreateUserRequest{FirstName: "John", LastName: "Doe", Email: email, Role: "Developer"}
}

func newUpdate(email string) user.UpdateUserRequest {
	return user.UpdateUserRequest{FirstName: "Johnny", LastName: "Doe", Email: email, Role: "Team Lead"}
}

func TestListUsers(t *testing.T) {
	repo := &fakeUsersRepo{
		findAllFn: func(ctx context.Context) ([]user.User, error) {
			return []user.User{
				{ID: 1, FirstName: "John", LastName: "Doe", Email: "john.doe@techhive.com", Role: "Developer"},
				{ID: 2, FirstName: "Jane", LastName: "Smith", Email: "jane.smith@techhive.com", Role: "Manager"},
			}, nil
		},
	}
	svc := service.NewUsersService(repo, discardLogger())

	got, err := svc.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, user.Read{ID: 2, FirstName: "Jane", LastName: "Smith", Email: "jane.smith@techhive.com", Role: "Manager"}, got[1])
}

func TestListUsers_EmptyStoreReturnsEmptySlice(t *testing.T) {
	svc := service.NewUsersService(&fakeUsersRepo{}, discardLogger())

	got, err := svc.ListUsers(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListUsers_StoreFailure(t *testing.T) {
	storeErr := errors.New("db down")
	repo := &fakeUsersRepo{
		findAllFn: func(ctx context.Context) ([]user.User, error) { return nil, storeErr },
	}
	svc := service.NewUsersService(repo, discardLogger())

	_, err := svc.ListUsers(context.Background())

	assert.ErrorIs(t, err, storeErr)
}

func TestGetUser(t *testing.T) {
	tests := []struct {
		name       string
		findByID   func(ctx context.Context, id int64) (user.User, error)
		wantStatus service.Status
		wantErr    bool
	}{
		{
			name: "found",
			findByID: func(ctx context.Context, id int64) (user.User, error) {
				return user.User{ID: id, FirstName: "John"}, nil
			},
			wantStatus: service.StatusOK,
		},
		{
			name: "not_found",
			findByID: func(ctx context.Context, id int64) (user.User, error) {
				return user.User{}, user.ErrNotFound
			},
			wantStatus: service.StatusNotFound,
		},
		{
			name: "store_error",
			findByID: func(ctx context.Context, id int64) (user.User, error) {
				return user.User{}, errors.New("timeout")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewUsersService(&fakeUsersRepo{findByIDFn: tt.findByID}, discardLogger())

			got, err := svc.GetUser(context.Background(), 5)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			if tt.wantStatus == service.StatusOK {
				assert.Equal(t, int64(5), got.User.ID)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	t.Run("success_maps_fields", func(t *testing.T) {
		repo := &fakeUsersRepo{
			insertFn: func(ctx context.Context, u user.User) (user.User, error) {
				assert.Zero(t, u.ID, "id must come from the store")
				u.ID = 26
				return u, nil
			},
		}
		svc := service.NewUsersService(repo, discardLogger())

		got, err := svc.CreateUser(context.Background(), newCreate("john.doe@techhive.com"))

		require.NoError(t, err)
		assert.Equal(t, service.StatusOK, got.Status)
		assert.Equal(t, user.Read{ID: 26, FirstName: "John", LastName: "Doe", Email: "john.doe@techhive.com", Role: "Developer"}, got.User)
	})

	t.Run("duplicate_email_is_conflict", func(t *testing.T) {
		repo := &fakeUsersRepo{
			emailExistsFn: func(ctx context.Context, email string, excludeID *int64) (bool, error) {
				assert.Nil(t, excludeID)
				return true, nil
			},
		}
		svc := service.NewUsersService(repo, discardLogger())

		got, err := svc.CreateUser(context.Background(), newCreate("jane@techhive.com"))

		require.NoError(t, err)
		assert.Equal(t, service.StatusConflict, got.Status)
		assert.Equal(t, "A user with email 'jane@techhive.com' already exists.", got.Reason)
		assert.Zero(t, repo.insertCalls)
	})

	t.Run("store_unique_violation_is_conflict", func(t *testing.T) {
		repo := &fakeUsersRepo{
			insertFn: func(ctx context.Context, u user.User) (user.User, error) {
				return user.User{}, user.ErrEmailTaken
			},
		}
		svc := service.NewUsersService(repo, discardLogger())

		got, err := svc.CreateUser(context.Background(), newCreate("race@techhive.com"))

		require.NoError(t, err)
		assert.Equal(t, service.StatusConflict, got.Status)
	})

	t.Run("email_check_failure_is_internal", func(t *testing.T) {
		repo := &fakeUsersRepo{
			emailExistsFn: func(ctx context.Context, email string, excludeID *int64) (bool, error) {
				return false, errors.New("connection reset")
			},
		}
		svc := service.NewUsersService(repo, discardLogger())

		_, err := svc.CreateUser(context.Background(), newCreate("x@techhive.com"))

		assert.Error(t, err)
		assert.Zero(t, repo.insertCalls)
	})
}

func TestUpdateUser(t *testing.T) {
	existing := user.User{ID: 3, FirstName: "John", LastName: "Doe", Email: "john.doe@techhive.com", Role: "Developer"}

	t.Run("success_overwrites_all_fields", func(t *testing.T) {
		repo := &fakeUsersRepo{
			findByIDFn: func(ctx context.Context, id int64) (user.User, error) { return existing, nil },
			emailExistsFn: func(ctx context.Context, email string, excludeID *int64) (bool, error) {
				require.NotNil(t, excludeID)
				assert.Equal(t, int64(3), *excludeID)
				return false, nil
			},
		}
		svc := service.NewUsersService(repo, discardLogger())

		got, err := svc.UpdateUser(context.Background(), 3, newUpdate("johnny@techhive.com"))

		require.NoError(t, err)
		assert.Equal(t, service.StatusOK, got.Status)
		assert.Equal(t, user.Read{ID: 3, FirstName: "Johnny", LastName: "Doe", Email: "johnny@techhive.com", Role: "Team Lead"}, got.User)
	})

	t.Run("missing_user_never_writes", func(t *testing.T) {
		repo := &fakeUsersRepo{}
		svc := service.NewUsersService(repo, discardLogger())

		got, err := svc.UpdateUser(context.Background(), 404, newUpdate("a@techhive.com"))

		require.NoError(t, err)
		assert.Equal(t, service.StatusNotFound, got.Status)
		assert.Zero(t, repo.updateCalls)
	})

	t.Run("email_taken_by_other_user", func(t *testing.T) {
		repo := &fakeUsersRepo{
			findByIDFn:    func(ctx context.Context, id int64) (user.User, error) { return existing, nil },
			emailExistsFn: func(ctx context.Context, email string, excludeID *int64) (bool, error) { return true, nil },
		}
		svc := service.NewUsersService(repo, discardLogger())

		got, err := svc.UpdateUser(context.Background(), 3, newUpdate("jane.smith@techhive.com"))

		require.NoError(t, err)
		assert.Equal(t, service.StatusConflict, got.Status)
		assert.Equal(t, "A user with email 'jane.smith@techhive.com' already exists.", got.Reason)
		assert.Zero(t, repo.updateCalls)
	})

	t.Run("deleted_between_lookup_and_write", func(t *testing.T) {
		repo := &fakeUsersRepo{
			findByIDFn: func(ctx context.Context, id int64) (user.User, error) { return existing, nil },
			updateFn: func(ctx context.Context, u user.User) (user.User, error) {
				return user.User{}, user.ErrNotFound
			},
		}
		svc := service.NewUsersService(repo, discardLogger())

		got, err := svc.UpdateUser(context.Background(), 3, newUpdate("john.doe@techhive.com"))

		require.NoError(t, err)
		assert.Equal(t, service.StatusNotFound, got.Status)
	})
}

func TestDeleteUser(t *testing.T) {
	repo := &fakeUsersRepo{
		deleteFn: func(ctx context.Context, id int64) (bool, error) { return id == 1, nil },
	}
	svc := service.NewUsersService(repo, discardLogger())

	ok, err := svc.DeleteUser(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DeleteUser(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

// The checks below run against the real in-memory store.

func TestUsersService_CreateThenGetRoundTrip(t *testing.T) {
	svc := service.NewUsersService(memory.NewUsersRepo(), discardLogger())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, newCreate("round.trip@techhive.com"))
	require.NoError(t, err)
	require.Equal(t, service.StatusOK, created.Status)

	got, err := svc.GetUser(ctx, created.User.ID)
	require.NoError(t, err)
	assert.Equal(t, service.StatusOK, got.Status)
	assert.Equal(t, created.User, got.User)
}

func TestUsersService_DuplicateEmailIgnoresCase(t *testing.T) {
	for _, order := range [][2]string{
		{"dup@techhive.com", "DUP@TechHive.com"},
		{"DUP@TechHive.com", "dup@techhive.com"},
	} {
		svc := service.NewUsersService(memory.NewUsersRepo(), discardLogger())
		ctx := context.Background()

		first, err := svc.CreateUser(ctx, newCreate(order[0]))
		require.NoError(t, err)
		second, err := svc.CreateUser(ctx, newCreate(order[1]))
		require.NoError(t, err)

		assert.Equal(t, service.StatusOK, first.Status)
		assert.Equal(t, service.StatusConflict, second.Status)
	}
}

func TestUsersService_GetAfterDeleteIsNotFound(t *testing.T) {
	svc := service.NewUsersService(memory.NewUsersRepo(), discardLogger())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, newCreate("gone@techhive.com"))
	require.NoError(t, err)

	ok, err := svc.DeleteUser(ctx, created.User.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := svc.GetUser(ctx, created.User.ID)
	require.NoError(t, err)
	assert.Equal(t, service.StatusNotFound, got.Status)
}

func TestUsersService_UpdateKeepingOwnEmail(t *testing.T) {
	svc := service.NewUsersService(memory.NewUsersRepo(), discardLogger())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, newCreate("keep@techhive.com"))
	require.NoError(t, err)

	got, err := svc.UpdateUser(ctx, created.User.ID, newUpdate("keep@techhive.com"))
	require.NoError(t, err)
	assert.Equal(t, service.StatusOK, got.Status)
	assert.Equal(t, "Johnny", got.User.FirstName)
	assert.Equal(t, created.User.ID, got.User.ID)
}

func TestUsersService_UpdateMissingLeavesStoreUntouched(t *testing.T) {
	repo := memory.NewUsersRepo()
	svc := service.NewUsersService(repo, discardLogger())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, newCreate("stay@techhive.com"))
	require.NoError(t, err)

	got, err := svc.UpdateUser(ctx, created.User.ID+100, newUpdate("other@techhive.com"))
	require.NoError(t, err)
	assert.Equal(t, service.StatusNotFound, got.Status)

	all, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []user.Read{created.User}, all)
}
