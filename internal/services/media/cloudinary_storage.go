package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const galleryTransformation = "c_limit,w_1600,h_1600,q_auto"

type CloudinaryStorage struct {
	client *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStorage(client *cloudinary.Cloudinary, folder string) *CloudinaryStorage {
	return &CloudinaryStorage{
		client: client,
		folder: strings.TrimSpace(folder),
	}
}

func (s *CloudinaryStorage) Upload(ctx context.Context, name, contentType string, body io.Reader, size int64) (Upload, error) {
	if s.client == nil {
		return Upload{}, fmt.Errorf("cloudinary client is nil")
	}
	if body == nil || size <= 0 {
		return Upload{}, ErrValidation
	}

	result, err := s.client.Upload.Upload(ctx, body, uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       strings.TrimSuffix(name, pathExt(name)),
		Transformation: galleryTransformation,
	})
	if err != nil {
		return Upload{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.SecureURL == "" || result.PublicID == "" {
		return Upload{}, fmt.Errorf("cloudinary upload returned empty result")
	}

	return Upload{
		URL:     result.SecureURL,
		MediaID: result.PublicID,
	}, nil
}

// Delete destroys the asset by its public id. "not found" counts as success:
// the blob is already gone and the record delete may proceed.
func (s *CloudinaryStorage) Delete(ctx context.Context, mediaID string) error {
	if s.client == nil {
		return fmt.Errorf("cloudinary client is nil")
	}
	if strings.TrimSpace(mediaID) == "" {
		return ErrMissingMedia
	}

	result, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: mediaID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary destroy failed: %s", result.Result)
	}

	return nil
}

func pathExt(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return name[idx:]
}
