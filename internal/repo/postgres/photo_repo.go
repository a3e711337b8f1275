package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acedreamer/onam-photo-hub/internal/domain/enums"
	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

// PhotoQuery selects one page of the gallery. Category empty means all
// categories; UserID non-empty narrows to one uploader's photos.
type PhotoQuery struct {
	Category  enums.Category
	UserID    string
	Sort      enums.SortKey
	PageIndex int
	PageSize  int
}

const photoSelect = `
SELECT
	ph.id,
	ph.user_id,
	ph.src,
	COALESCE(ph.caption, ''),
	ph.category,
	COALESCE(ph.media_id, ''),
	ph.allow_download,
	COALESCE(p.full_name, ''),
	COALESCE(p.avatar_url, ''),
	ph.created_at,
	COUNT(l.photo_id)::int AS likes
FROM photos ph
JOIN profiles p ON p.user_id = ph.user_id
LEFT JOIN likes l ON l.photo_id = ph.id
`

// List returns one page ordered by the requested sort key descending. Ties on
// like count fall back to created_at DESC, id DESC so an item cannot be
// skipped or duplicated across page boundaries.
func (r *PhotoRepo) List(ctx context.Context, q PhotoQuery) ([]model.Photo, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if q.PageSize <= 0 || q.PageIndex < 0 {
		return nil, fmt.Errorf("invalid photo page query")
	}

	var (
		where []string
		args  []any
	)
	if q.Category != "" {
		args = append(args, string(q.Category))
		where = append(where, fmt.Sprintf("ph.category = $%d", len(args)))
	}
	if strings.TrimSpace(q.UserID) != "" {
		args = append(args, q.UserID)
		where = append(where, fmt.Sprintf("ph.user_id = $%d", len(args)))
	}

	query := photoSelect
	if len(where) > 0 {
		query += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	query += "GROUP BY ph.id, p.full_name, p.avatar_url\n"

	switch q.Sort {
	case enums.SortLikeCount:
		query += "ORDER BY likes DESC, ph.created_at DESC, ph.id DESC\n"
	default:
		query += "ORDER BY ph.created_at DESC, ph.id DESC\n"
	}

	args = append(args, q.PageSize)
	query += fmt.Sprintf("LIMIT $%d", len(args))
	args = append(args, q.PageIndex*q.PageSize)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	items := make([]model.Photo, 0, q.PageSize)
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		items = append(items, photo)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate photos: %w", rows.Err())
	}

	return items, nil
}

func (r *PhotoRepo) Get(ctx context.Context, photoID string) (model.Photo, error) {
	if r.pool == nil {
		return model.Photo{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(photoID) == "" {
		return model.Photo{}, fmt.Errorf("photo id is required")
	}

	row := r.pool.QueryRow(ctx, photoSelect+`
WHERE ph.id = $1
GROUP BY ph.id, p.full_name, p.avatar_url
`, photoID)

	photo, err := scanPhoto(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Photo{}, ErrPhotoNotFound
		}
		return model.Photo{}, fmt.Errorf("get photo: %w", err)
	}

	return photo, nil
}

func (r *PhotoRepo) Exists(ctx context.Context, photoID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(photoID) == "" {
		return false, fmt.Errorf("photo id is required")
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM photos WHERE id = $1)
`, photoID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check photo exists: %w", err)
	}

	return exists, nil
}

func (r *PhotoRepo) Insert(ctx context.Context, photo model.Photo) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if photo.ID == "" || photo.UserID == "" || photo.SRC == "" {
		return fmt.Errorf("invalid photo payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO photos (
	id,
	user_id,
	src,
	caption,
	category,
	media_id,
	allow_download,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
`, photo.ID, photo.UserID, photo.SRC, photo.Caption, string(photo.Category), photo.MediaID, photo.AllowDownload); err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}

	return nil
}

// Delete removes the photo record together with its like rows. Returns false
// when no record matched.
func (r *PhotoRepo) Delete(ctx context.Context, photoID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(photoID) == "" {
		return false, fmt.Errorf("photo id is required")
	}

	var deleted bool
	err := WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(txCtx, `DELETE FROM likes WHERE photo_id = $1`, photoID); err != nil {
			return fmt.Errorf("delete photo likes: %w", err)
		}
		result, err := tx.Exec(txCtx, `DELETE FROM photos WHERE id = $1`, photoID)
		if err != nil {
			return fmt.Errorf("delete photo record: %w", err)
		}
		deleted = result.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

func scanPhoto(row pgx.Row) (model.Photo, error) {
	var (
		photo    model.Photo
		category string
		created  time.Time
	)
	if err := row.Scan(
		&photo.ID,
		&photo.UserID,
		&photo.SRC,
		&photo.Caption,
		&category,
		&photo.MediaID,
		&photo.AllowDownload,
		&photo.UploaderName,
		&photo.UploaderAvatar,
		&created,
		&photo.Likes,
	); err != nil {
		return model.Photo{}, err
	}

	photo.Category = enums.Category(category)
	photo.CreatedAt = created.UTC()
	return photo, nil
}
