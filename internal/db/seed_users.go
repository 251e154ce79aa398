package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/techhive/internal/domain/user"
)

type UsersResetter interface {
	Reset(ctx context.Context, users []user.User) error
}

// SampleUsers is the fixed demo data set. A fresh slice is returned on every call.
func SampleUsers() []user.User {
	return []user.User{
		{FirstName: "John", LastName: "Doe", Email: "john.doe@techhive.com", Role: "Developer"},
		{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@techhive.com", Role: "Manager"},
		{FirstName: "Mike", LastName: "Johnson", Email: "mike.johnson@techhive.com", Role: "Designer"},
		{FirstName: "Emily", LastName: "Williams", Email: "emily.williams@techhive.com", Role: "QA Engineer"},
		{FirstName: "David", LastName: "Brown", Email: "david.brown@techhive.com", Role: "DevOps Engineer"},
		{FirstName: "Sarah", LastName: "Davis", Email: "sarah.davis@techhive.com", Role: "Product Manager"},
		{FirstName: "Tom", LastName: "Miller", Email: "tom.miller@techhive.com", Role: "Architect"},
		{FirstName: "Lisa", LastName: "Wilson", Email: "lisa.wilson@techhive.com", Role: "Team Lead"},
		{FirstName: "James", LastName: "Moore", Email: "james.moore@techhive.com", Role: "Developer"},
		{FirstName: "Mary", LastName: "Taylor", Email: "mary.taylor@techhive.com", Role: "Designer"},
		{FirstName: "Robert", LastName: "Anderson", Email: "robert.anderson@techhive.com", Role: "Developer"},
		{FirstName: "Patricia", LastName: "Thomas", Email: "patricia.thomas@techhive.com", Role: "Manager"},
		{FirstName: "Michael", LastName: "Jackson", Email: "michael.jackson@techhive.com", Role: "QA Engineer"},
		{FirstName: "Linda", LastName: "White", Email: "linda.white@techhive.com", Role: "DevOps Engineer"},
		{FirstName: "William", LastName: "Harris", Email: "william.harris@techhive.com", Role: "Developer"},
		{FirstName: "Barbara", LastName: "Martin", Email: "barbara.martin@techhive.com", Role: "Product Manager"},
		{FirstName: "Richard", LastName: "Thompson", Email: "richard.thompson@techhive.com", Role: "Architect"},
		{FirstName: "Susan", LastName: "Garcia", Email: "susan.garcia@techhive.com", Role: "Team Lead"},
		{FirstName: "Joseph", LastName: "Martinez", Email: "joseph.martinez@techhive.com", Role: "Developer"},
		{FirstName: "Jessica", LastName: "Robinson", Email: "jessica.robinson@techhive.com", Role: "Designer"},
		{FirstName: "Charles", LastName: "Clark", Email: "charles.clark@techhive.com", Role: "Developer"},
		{FirstName: "Karen", LastName: "Rodriguez", Email: "karen.rodriguez@techhive.com", Role: "QA Engineer"},
		{FirstName: "Daniel", LastName: "Lewis", Email: "daniel.lewis@techhive.com", Role: "DevOps Engineer"},
		{FirstName: "Nancy", LastName: "Lee", Email: "nancy.lee@techhive.com", Role: "Manager"},
		{FirstName: "Paul", LastName: "Walker", Email: "paul.walker@techhive.com", Role: "Developer"},
	}
}

// SeedUsers replaces every stored user with SampleUsers and reports how many were written.
func SeedUsers(ctx context.Context, repo UsersResetter, log *slog.Logger) (int, error) {
	users := SampleUsers()

	if err := repo.Reset(ctx, users); err != nil {
		log.ErrorContext(ctx, "seeding users failed", "err", err)
		return 0, fmt.Errorf("seed users: %w", err)
	}

	log.InfoContext(ctx, "database seeded", "count", len(users))

	return len(users), nil
}
