package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/techhive/internal/domain/user"
)

// UsersRepo keeps users in process memory. Emails are unique by user.EmailKey,
// like the email_key index of the SQL schemas.
type UsersRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		nextID: 1,
		items:  make(map[int64]user.User),
	}
}

func (r *UsersRepo) FindAll(ctx context.Context) ([]user.User, error) {
	r.mu.RLock()
	out := make([]user.User, 0, len(r.items))
	for _, u := range r.items {
		out = append(out, u)
	}
	r.mu.RUnlock()

	// ids are monotonic, so id order is insertion order
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *UsersRepo) FindByID(ctx context.Context, id int64) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := user.EmailKey(email)
	for _, u := range r.items {
		if user.EmailKey(u.Email) == key {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) EmailExists(ctx context.Context, email string, excludeID *int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.emailTakenLocked(email, excludeID), nil
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(u.Email, nil) {
		return user.User{}, user.ErrEmailTaken
	}

	u.ID = r.nextID
	r.nextID++
	r.items[u.ID] = u

	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[u.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}

	if r.emailTakenLocked(u.Email, &u.ID) {
		return user.User{}, user.ErrEmailTaken
	}

	r.items[u.ID] = u

	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}

	delete(r.items, id)

	return true, nil
}

// Reset drops every user, restarts the id sequence at 1 and inserts users in
// order. On error the store is left as it was.
func (r *UsersRepo) Reset(ctx context.Context, users []user.User) error {
	items := make(map[int64]user.User, len(users))
	seen := make(map[string]struct{}, len(users))
	nextID := int64(1)

	for _, u := range users {
		key := user.EmailKey(u.Email)
		if _, dup := seen[key]; dup {
			return user.ErrEmailTaken
		}
		seen[key] = struct{}{}

		u.ID = nextID
		nextID++
		items[u.ID] = u
	}

	r.mu.Lock()
	r.items = items
	r.nextID = nextID
	r.mu.Unlock()

	return nil
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return nil
}

func (r *UsersRepo) emailTakenLocked(email string, excludeID *int64) bool {
	key := user.EmailKey(email)
	for id, u := range r.items {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if user.EmailKey(u.Email) == key {
			return true
		}
	}
	return false
}
