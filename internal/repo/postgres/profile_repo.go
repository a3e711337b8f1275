package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return model.Profile{}, fmt.Errorf("user id is required")
	}

	var profile model.Profile
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	COALESCE(full_name, ''),
	COALESCE(avatar_url, ''),
	COALESCE(bio, ''),
	created_at,
	updated_at
FROM profiles
WHERE user_id = $1
`, userID).Scan(
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

// EnsureExists creates the profile row at first sign-up; subsequent calls are
// no-ops.
func (r *ProfileRepo) EnsureExists(ctx context.Context, userID, fullName string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profiles (user_id, full_name, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
ON CONFLICT (user_id) DO NOTHING
`, userID, fullName); err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}

	return nil
}

// Update is the self-service profile edit. Only the owner reaches this path;
// the service layer enforces that.
func (r *ProfileRepo) Update(ctx context.Context, userID, fullName, avatarURL, bio string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE profiles
SET full_name = $2, avatar_url = $3, bio = $4, updated_at = NOW()
WHERE user_id = $1
`, userID, fullName, avatarURL, bio)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}
