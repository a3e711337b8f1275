package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

// Insert creates the (user, photo) like row. The primary key on the pair plus
// ON CONFLICT DO NOTHING keeps the relation at most-one-row even under
// concurrent toggles. Returns false when the row already existed.
func (r *LikeRepo) Insert(ctx context.Context, userID, photoID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(photoID) == "" {
		return false, fmt.Errorf("invalid like payload")
	}

	result, err := r.pool.Exec(ctx, `
INSERT INTO likes (user_id, photo_id, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id, photo_id) DO NOTHING
`, userID, photoID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Delete removes exactly the acting user's row for the photo. Returns false
// when no row matched.
func (r *LikeRepo) Delete(ctx context.Context, userID, photoID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(photoID) == "" {
		return false, fmt.Errorf("invalid like payload")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM likes
WHERE user_id = $1 AND photo_id = $2
`, userID, photoID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListPhotoIDs returns every photo id the user has liked. Feeds the derived
// user_has_liked flag on fetched pages.
func (r *LikeRepo) ListPhotoIDs(ctx context.Context, userID string) ([]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := r.pool.Query(ctx, `
SELECT photo_id
FROM likes
WHERE user_id = $1
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked photo ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, 64)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan liked photo id: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate liked photo ids: %w", rows.Err())
	}

	return ids, nil
}

// DeleteOrphaned prunes like rows whose photo no longer exists. Photo deletes
// already cascade in a transaction; this is the safety net run by the cleanup
// job.
func (r *LikeRepo) DeleteOrphaned(ctx context.Context) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM likes l
WHERE NOT EXISTS (
	SELECT 1 FROM photos ph WHERE ph.id = l.photo_id
)
`)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned likes: %w", err)
	}

	return result.RowsAffected(), nil
}
