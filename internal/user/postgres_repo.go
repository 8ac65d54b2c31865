package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const userColumns = `id, email, username, password_hash, role, bio, is_public, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.Password, &u.Role,
		&u.Bio, &u.IsPublic, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (id, email, username, password_hash, role, is_public)
	VALUES (gen_random_uuid(), $1, $2, $3, COALESCE(NULLIF($4, ''), 'USER'), $5)
	RETURNING id, role, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, u.Email, u.Username, u.Password, u.Role, u.IsPublic).
		Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		// Losing a concurrent-registration race hits the unique constraints
		// even after the service's existence checks passed.
		return ErrAlreadyExists
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 LIMIT 1`, userColumns)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanUser(r.db.QueryRow(timeoutCtx, query, email))
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE lower(username) = lower($1) LIMIT 1`, userColumns)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanUser(r.db.QueryRow(timeoutCtx, query, username))
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanUser(r.db.QueryRow(timeoutCtx, query, id))
}

func (r *PostgresRepo) SearchPublicByUsername(ctx context.Context, prefix string, limit, offset int) ([]User, int, error) {
	const countSQL = `
	SELECT COUNT(*) FROM users
	WHERE is_public = true AND lower(username) LIKE lower($1) || '%'
	`
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, prefix).Scan(&total); err != nil {
		return nil, 0, err
	}

	const dataSQL = `
	SELECT id, username, bio, is_public, created_at
	FROM users
	WHERE is_public = true AND lower(username) LIKE lower($1) || '%'
	ORDER BY username ASC
	LIMIT $2 OFFSET $3
	`
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, prefix, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Bio, &u.IsPublic, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *PostgresRepo) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error {
	allowed := map[string]bool{"username": true, "bio": true, "is_public": true}

	fields := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		if !allowed[col] {
			return fmt.Errorf("cannot update field: %s", col)
		}
		fields = append(fields, col+" = $"+strconv.Itoa(i))
		args = append(args, val)
		i++
	}
	args = append(args, userID)

	query := fmt.Sprintf(
		`UPDATE users SET %s, updated_at = NOW() WHERE id = $%d`,
		strings.Join(fields, ", "), i,
	)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) TouchLastLogin(ctx context.Context, userID string) error {
	const query = `UPDATE users SET last_login_at = NOW() WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, userID)
	return err
}
