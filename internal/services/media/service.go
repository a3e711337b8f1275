package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrMissingMedia = errors.New("media reference is missing")
)

// Upload is the round-tripped media reference: the public URL rendered by the
// gallery and the provider id required to delete the asset later.
type Upload struct {
	URL     string
	MediaID string
}

// Storage is the media CDN behind uploads. Implementations: Cloudinary (the
// hosted CDN) and S3/minio for self-hosted deployments.
type Storage interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader, size int64) (Upload, error)
	Delete(ctx context.Context, mediaID string) error
}

// BuildObjectName namespaces an upload under its owner with a timestamp and
// random suffix, so concurrent uploads never collide.
func BuildObjectName(userID, fileName string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrValidation
	}

	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}

	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".jpg"
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("users/%s/%s_%s%s", userID, stamp, hex.EncodeToString(rnd), ext), nil
}
