package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// email_key holds user.EmailKey(email), computed by the repositories. Its
// unique index makes the store itself reject emails that differ only by case,
// for any script, whatever the database collation.

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		first_name VARCHAR(25) NOT NULL,
		last_name  VARCHAR(25) NOT NULL,
		email      VARCHAR(50) NOT NULL,
		email_key  TEXT NOT NULL,
		role       VARCHAR(25) NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email_key)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		email      TEXT NOT NULL,
		email_key  TEXT NOT NULL,
		role       TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email_key)`,
}

func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create postgres schema: %w", err)
		}
	}
	return nil
}

func EnsureSQLiteSchema(ctx context.Context, sqlDB *sql.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create sqlite schema: %w", err)
		}
	}
	return nil
}
