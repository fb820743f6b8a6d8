package adapter

import (
	"context"
	"io"
	"time"
)

// MediaStorage is the hex port for the external media service holding lecture
// videos and thumbnails. Objects are addressed by an opaque storage key.
type MediaStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
