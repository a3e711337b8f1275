package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user model.User) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if user.ID == "" || user.Email == "" || user.PasswordHash == "" {
		return fmt.Errorf("invalid user payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO users (id, email, password_hash, role, created_at)
VALUES ($1, $2, $3, $4, NOW())
`, user.ID, strings.ToLower(user.Email), user.PasswordHash, user.Role); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	return r.getOne(ctx, `
SELECT id, email, password_hash, role, created_at
FROM users
WHERE email = $1
`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	return r.getOne(ctx, `
SELECT id, email, password_hash, role, created_at
FROM users
WHERE id = $1
`, userID)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var user model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}
