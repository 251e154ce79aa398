// Package service holds the user management rules: email uniqueness,
// DTO mapping and the outcome each operation reports to the HTTP layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geocoder89/techhive/internal/domain/user"
)

type UsersRepository interface {
	FindAll(ctx context.Context) ([]user.User, error)
	FindByID(ctx context.Context, id int64) (user.User, error)
	EmailExists(ctx context.Context, email string, excludeID *int64) (bool, error)
	Insert(ctx context.Context, u user.User) (user.User, error)
	Update(ctx context.Context, u user.User) (user.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusConflict
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusConflict:
		return "conflict"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is what a lookup or write produced. A non-nil error returned next to
// it always means an internal failure, never one of these statuses.
type Outcome struct {
	Status Status
	User   user.Read
	// Reason is the caller facing message for StatusConflict.
	Reason string
}

func found(u user.User) Outcome {
	return Outcome{Status: StatusOK, User: u.ToRead()}
}

func notFound() Outcome {
	return Outcome{Status: StatusNotFound}
}

func conflict(email string) Outcome {
	return Outcome{
		Status: StatusConflict,
		Reason: fmt.Sprintf("A user with email '%s' already exists.", email),
	}
}

type UsersService struct {
	repo UsersRepository
	log  *slog.Logger
}

func NewUsersService(repo UsersRepository, log *slog.Logger) *UsersService {
	if log == nil {
		log = slog.Default()
	}
	return &UsersService{repo: repo, log: log}
}

func (s *UsersService) ListUsers(ctx context.Context) ([]user.Read, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list users", err)
	}

	out := make([]user.Read, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToRead())
	}

	return out, nil
}

func (s *UsersService) GetUser(ctx context.Context, id int64) (Outcome, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return notFound(), nil
		}
		return Outcome{}, s.fail(ctx, "get user", err, "user_id", id)
	}

	return found(u), nil
}

func (s *UsersService) CreateUser(ctx context.Context, req user.CreateUserRequest) (Outcome, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email, nil)
	if err != nil {
		return Outcome{}, s.fail(ctx, "create user", err)
	}
	if exists {
		return conflict(req.Email), nil
	}

	created, err := s.repo.Insert(ctx, user.NewFromCreateRequest(req))
	if err != nil {
		// a concurrent create won between the check and the insert
		if errors.Is(err, user.ErrEmailTaken) {
			return conflict(req.Email), nil
		}
		return Outcome{}, s.fail(ctx, "create user", err)
	}

	s.log.InfoContext(ctx, "user created", "user_id", created.ID)

	return found(created), nil
}

func (s *UsersService) UpdateUser(ctx context.Context, id int64, req user.UpdateUserRequest) (Outcome, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return notFound(), nil
		}
		return Outcome{}, s.fail(ctx, "update user", err, "user_id", id)
	}

	exists, err := s.repo.EmailExists(ctx, req.Email, &id)
	if err != nil {
		return Outcome{}, s.fail(ctx, "update user", err, "user_id", id)
	}
	if exists {
		return conflict(req.Email), nil
	}

	updated, err := s.repo.Update(ctx, existing.Apply(req))
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			// deleted between the lookup and the write
			return notFound(), nil
		case errors.Is(err, user.ErrEmailTaken):
			return conflict(req.Email), nil
		}
		return Outcome{}, s.fail(ctx, "update user", err, "user_id", id)
	}

	s.log.InfoContext(ctx, "user updated", "user_id", id)

	return found(updated), nil
}

func (s *UsersService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, s.fail(ctx, "delete user", err, "user_id", id)
	}

	if deleted {
		s.log.InfoContext(ctx, "user deleted", "user_id", id)
	}

	return deleted, nil
}

func (s *UsersService) fail(ctx context.Context, op string, err error, attrs ...any) error {
	s.log.ErrorContext(ctx, op+" failed", append([]any{"err", err}, attrs...)...)
	return fmt.Errorf("%s: %w", op, err)
}
