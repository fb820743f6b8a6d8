package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"lms-platform/internal/config"
	"lms-platform/internal/domain"
	"lms-platform/internal/domain/ports/adapter"
)

const signedURLTTL = 15 * time.Minute

var _ adapter.MediaStorage = (*MinioStorage)(nil)

// MinioStorage keeps lecture videos and thumbnails in an S3-compatible bucket.
type MinioStorage struct {
	client *minio.Client
	bucket string

	ensureOnce sync.Once
	ensureErr  error
}

func NewMinioStorage(cfg *config.MediaConfig) (*MinioStorage, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioStorage{
		client: cli,
		bucket: strings.TrimSpace(cfg.Bucket),
	}, nil
}

// EnsureBucket creates the bucket on first use if it does not exist yet.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	if s.bucket == "" {
		return fmt.Errorf("media bucket is empty")
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
		return fmt.Errorf("ensure media bucket %q: %w", s.bucket, s.ensureErr)
	}
	return nil
}

func (s *MinioStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if key == "" || body == nil || size == 0 {
		return "", domain.ErrValidation
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put media object: %w", err)
	}
	return s.client.EndpointURL().String() + "/" + s.bucket + "/" + key, nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete media object: %w", err)
	}
	return nil
}

func (s *MinioStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", domain.ErrValidation
	}
	if ttl <= 0 {
		ttl = signedURLTTL
	}
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign media object: %w", err)
	}
	return presigned.String(), nil
}
