package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/geocoder89/techhive/internal/domain/user"
	"github.com/geocoder89/techhive/internal/observability"
)

const (
	usersKeyPrefix = "users:v1:"
	usersListKey   = usersKeyPrefix + "list"
)

func userKey(id int64) string {
	return usersKeyPrefix + "id:" + strconv.FormatInt(id, 10)
}

type UsersBackend interface {
	FindAll(ctx context.Context) ([]user.User, error)
	FindByID(ctx context.Context, id int64) (user.User, error)
	EmailExists(ctx context.Context, email string, excludeID *int64) (bool, error)
	Insert(ctx context.Context, u user.User) (user.User, error)
	Update(ctx context.Context, u user.User) (user.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Reset(ctx context.Context, users []user.User) error
}

// UsersRepo serves FindAll and FindByID from a Store and drops every cached
// user key after a successful write. Cache failures degrade to the backend.
// EmailExists is never cached.
type UsersRepo struct {
	next  UsersBackend
	store Store
	log   *slog.Logger
	prom  *observability.Prom
}

func NewUsersRepo(next UsersBackend, store Store, log *slog.Logger, prom *observability.Prom) *UsersRepo {
	if log == nil {
		log = slog.Default()
	}
	return &UsersRepo{next: next, store: store, log: log, prom: prom}
}

func (r *UsersRepo) FindAll(ctx context.Context) ([]user.User, error) {
	var cached []user.User
	if r.lookup(ctx, "list", usersListKey, &cached) {
		return cached, nil
	}

	users, err := r.next.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	r.fill(ctx, usersListKey, users)

	return users, nil
}

func (r *UsersRepo) FindByID(ctx context.Context, id int64) (user.User, error) {
	var cached user.User
	if r.lookup(ctx, "id", userKey(id), &cached) {
		return cached, nil
	}

	u, err := r.next.FindByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	r.fill(ctx, userKey(id), u)

	return u, nil
}

func (r *UsersRepo) EmailExists(ctx context.Context, email string, excludeID *int64) (bool, error) {
	return r.next.EmailExists(ctx, email, excludeID)
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	created, err := r.next.Insert(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	r.invalidate(ctx)
	return created, nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	updated, err := r.next.Update(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	r.invalidate(ctx)
	return updated, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.next.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.invalidate(ctx)
	}
	return deleted, nil
}

func (r *UsersRepo) Reset(ctx context.Context, users []user.User) error {
	err := r.next.Reset(ctx, users)
	// a failed reset may still have changed rows
	r.invalidate(ctx)
	return err
}

func (r *UsersRepo) lookup(ctx context.Context, kind, key string, out any) bool {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.prom.ObserveCache(kind, "error")
		r.log.WarnContext(ctx, "cache get failed", "key", key, "err", err)
		return false
	}
	if !ok {
		r.prom.ObserveCache(kind, "miss")
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		r.prom.ObserveCache(kind, "error")
		r.log.WarnContext(ctx, "cache entry undecodable", "key", key, "err", err)
		return false
	}

	r.prom.ObserveCache(kind, "hit")
	return true
}

func (r *UsersRepo) fill(ctx context.Context, key string, val any) {
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		r.log.WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
}

func (r *UsersRepo) invalidate(ctx context.Context) {
	if err := r.store.DeletePrefix(ctx, usersKeyPrefix); err != nil {
		r.log.ErrorContext(ctx, "cache invalidation failed", "err", err)
	}
}
