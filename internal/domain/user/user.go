package user

import (
	"errors"
	"strings"
)

// User is the persisted record. ID is assigned by the store on insert and never changes.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Role      string
}

var (
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by a store when its own unique email index rejects a write.
	ErrEmailTaken = errors.New("email already taken")
)

// EmailKey is the form every store compares and indexes emails by. Lowering
// happens here, in Go, so the result does not depend on a database collation.
func EmailKey(email string) string {
	return strings.ToLower(email)
}

type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// a full replacement payload, same shape and rules as create.
type UpdateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Read is the only shape handed back to callers.
type Read struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func NewFromCreateRequest(req CreateUserRequest) User {
	return User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      req.Role,
	}
}

// Apply overwrites every mutable field, keeping the id.
func (u User) Apply(req UpdateUserRequest) User {
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Email = req.Email
	u.Role = req.Role
	return u
}

func (u User) ToRead() Read {
	return Read{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}
