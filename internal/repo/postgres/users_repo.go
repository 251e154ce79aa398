package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/techhive/internal/domain/user"
	"github.com/geocoder89/techhive/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	return r.prom.ObserveDB(op, fn)
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}

// translate maps driver errors onto the domain sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return user.ErrNotFound
	case IsUniqueViolation(err):
		return user.ErrEmailTaken
	default:
		return err
	}
}

const userColumns = `id, first_name, last_name, email, role`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role)
	return u, err
}

func (r *UsersRepo) FindAll(ctx context.Context) ([]user.User, error) {
	var out []user.User

	err := r.observe("users.find_all", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
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
		u, err = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
		return translate(err)
	})

	return u, err
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.find_by_email", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email_key = $1`, user.EmailKey(email)))
		return translate(err)
	})

	return u, err
}

func (r *UsersRepo) EmailExists(ctx context.Context, email string, excludeID *int64) (bool, error) {
	var exists bool

	err := r.observe("users.email_exists", func() error {
		// a NULL exclusion matches no row, so $2 is optional
		return r.pool.QueryRow(ctx,
			`SELECT EXISTS (
				SELECT 1 FROM users
				WHERE email_key = $1
				  AND ($2::BIGINT IS NULL OR id <> $2::BIGINT)
			)`,
			user.EmailKey(email), excludeID,
		).Scan(&exists)
	})

	return exists, err
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	var created user.User

	err := r.observe("users.insert", func() error {
		var err error
		created, err = scanUser(r.pool.QueryRow(ctx,
			`INSERT INTO users (first_name, last_name, email, email_key, role)
			 VALUES ($1, $2, $3, $4, $5)
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
		updated, err = scanUser(r.pool.QueryRow(ctx,
			`UPDATE users
				SET first_name = $2,
				    last_name = $3,
				    email = $4,
				    email_key = $5,
				    role = $6
			 WHERE id = $1
			 RETURNING `+userColumns,
			u.ID, u.FirstName, u.LastName, u.Email, user.EmailKey(u.Email), u.Role,
		))
		return translate(err)
	})

	return updated, err
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool

	err := r.observe("users.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})

	return deleted, err
}

// Reset truncates users, restarts the identity and inserts users in one transaction.
func (r *UsersRepo) Reset(ctx context.Context, users []user.User) error {
	return r.observe("users.reset", func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if _, err := tx.Exec(ctx, `TRUNCATE users RESTART IDENTITY`); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, u := range users {
			batch.Queue(
				`INSERT INTO users (first_name, last_name, email, email_key, role) VALUES ($1, $2, $3, $4, $5)`,
				u.FirstName, u.LastName, u.Email, user.EmailKey(u.Email), u.Role,
			)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return translate(err)
		}

		return tx.Commit(ctx)
	})
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
