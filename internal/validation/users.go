package validation

import (
	"strings"

	"github.com/geocoder89/techhive/internal/domain/user"
)

const (
	nameMaxLen  = 25
	emailMaxLen = 50
	roleMaxLen  = 25
)

var (
	CreateUser = userRules(
		func(r user.CreateUserRequest) string { return r.FirstName },
		func(r user.CreateUserRequest) string { return r.LastName },
		func(r user.CreateUserRequest) string { return r.Email },
		func(r user.CreateUserRequest) string { return r.Role },
	)

	// update shares the create rule set field for field.
	UpdateUser = userRules(
		func(r user.UpdateUserRequest) string { return r.FirstName },
		func(r user.UpdateUserRequest) string { return r.LastName },
		func(r user.UpdateUserRequest) string { return r.Email },
		func(r user.UpdateUserRequest) string { return r.Role },
	)
)

// RoleMessage lists the allowed roles.
var RoleMessage = "Role must be one of the following: " + strings.Join(user.Roles, ", ")

func userRules[T any](firstName, lastName, email, role func(T) string) Rules[T] {
	return Rules[T]{
		{
			Name:  "firstName",
			Value: firstName,
			Checks: []Check{
				Required("First name is required."),
				MaxLen(nameMaxLen, "First name cannot exceed 25 characters."),
			},
		},
		{
			Name:  "lastName",
			Value: lastName,
			Checks: []Check{
				Required("Last name is required."),
				MaxLen(nameMaxLen, "Last name cannot exceed 25 characters."),
			},
		},
		{
			Name:  "email",
			Value: email,
			Checks: []Check{
				Required("Email is required."),
				Email("Invalid email format."),
				MaxLen(emailMaxLen, "Email cannot exceed 50 characters."),
			},
		},
		{
			Name:  "role",
			Value: role,
			Checks: []Check{
				Required("Role is required."),
				MaxLen(roleMaxLen, "Role cannot exceed 25 characters."),
				OneOfFold(user.Roles, RoleMessage),
			},
		},
	}
}
