// Package sqlite stores users in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/geocoder89/techhive/internal/domain/user"
	"github.com/geocoder89/techhive/internal/observability"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

type UsersRepo struct {
	db   *sql.DB
	prom *observability.Prom
}

func NewUsersRepo(db *sql.DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{db: db, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	return r.prom.ObserveDB(op, fn)
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return user.ErrNotFound
	case IsUniqueViolation(err):
		return user.ErrEmailTaken
	default:
		return err
	}
}

const userColumns = `id, first_name, last_name, email, role`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role)
	return u, err
}

func (r *UsersRepo) FindAll(ctx context.Context) ([]user.User, error) {
	var out []user.User

	err := r.observe("users.find_all", func() error {
		rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]user.User, 0)
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			out = append(out, u)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *UsersRepo) FindByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.find_by_id", func() error {
		var err error
		u, err = scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
		return translate(err)
	})

	return u, err
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.find_by_email", func() error {
		var err error
		u, err = scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email_key = ?`, user.EmailKey(email)))
		return translate(err)
	})

	return u, err
}

func (r *UsersRepo) EmailExists(ctx context.Context, email string, excludeID *int64) (bool, error) {
	var exclude any
	if excludeID != nil {
		exclude = *excludeID
	}

	var exists bool

	err := r.observe("users.email_exists", func() error {
		return r.db.QueryRowContext(ctx,
			`SELECT EXISTS (
				SELECT 1 FROM users
				WHERE email_key = ?1
				  AND (?2 IS NULL OR id <> ?2)
			)`,
			user.EmailKey(email), exclude,
		).Scan(&exists)
	})

	return exists, err
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	var created user.User

	err := r.observe("users.insert", func() error {
		var err error
		created, err = scanUser(r.db.QueryRowContext(ctx,
			`INSERT INTO users (first_name, last_name, email, email_key, role)
			 VALUES (?, ?, ?, ?, ?)
			 RETURNING `+userColumns,
			u.FirstName, u.LastName, u.Email, user.EmailKey(u.Email), u.Role,
		))
		return translate(err)
	})

	return created, err
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	var updated user.User

	err := r.observe("users.update", func() error {
		var err error
		updated, err = scanUser(r.db.QueryRowContext(ctx,
			`UPDATE users
				SET first_name = ?,
				    last_name = ?,
				    email = ?,
				    email_key = ?,
				    role = ?
			 WHERE id = ?
			 RETURNING `+userColumns,
			u.FirstName, u.LastName, u.Email, user.EmailKey(u.Email), u.Role, u.ID,
		))
		return translate(err)
	})

	return updated, err
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool

	err := r.observe("users.delete", func() error {
		res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})

	return deleted, err
}

// Reset empties users, restarts the AUTOINCREMENT sequence and inserts users in one transaction.
func (r *UsersRepo) Reset(ctx context.Context, users []user.User) error {
	return r.observe("users.reset", func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'users'`); err != nil {
			return err
		}

		for _, u := range users {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO users (first_name, last_name, email, email_key, role) VALUES (?, ?, ?, ?, ?)`,
				u.FirstName, u.LastName, u.Email, user.EmailKey(u.Email), u.Role,
			)
			if err != nil {
				return translate(err)
			}
		}

		return tx.Commit()
	})
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
