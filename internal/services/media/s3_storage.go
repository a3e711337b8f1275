package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
)

type S3Storage struct {
	client *minio.Client
	bucket string

	ensureOnce sync.Once
	ensureErr  error
}

func NewS3Storage(client *minio.Client, bucket string) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: strings.TrimSpace(bucket),
	}
}

func (s *S3Storage) ensureBucket(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = err
			return
		}
		if exists {
			return
		}
		s.ensureErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	})

	if s.ensureErr != nil {
		return fmt.Errorf("ensure s3 bucket %q: %w", s.bucket, s.ensureErr)
	}

	return nil
}

func (s *S3Storage) Upload(ctx context.Context, name, contentType string, body io.Reader, size int64) (Upload, error) {
	if body == nil || size <= 0 || strings.TrimSpace(name) == "" {
		return Upload{}, ErrValidation
	}
	if err := s.ensureBucket(ctx); err != nil {
		return Upload{}, err
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.client.PutObject(ctx, s.bucket, name, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return Upload{}, fmt.Errorf("put object to s3: %w", err)
	}

	// Bucket policy is public-read for gallery media; the object key doubles
	// as the media reference id.
	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, name)
	return Upload{
		URL:     url,
		MediaID: name,
	}, nil
}

func (s *S3Storage) Delete(ctx context.Context, mediaID string) error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if strings.TrimSpace(mediaID) == "" {
		return ErrMissingMedia
	}

	if err := s.client.RemoveObject(ctx, s.bucket, mediaID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete s3 object: %w", err)
	}
	return nil
}
