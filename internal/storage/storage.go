package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotConfigured is returned when object storage was not set up for this process.
var ErrNotConfigured = errors.New("storage service not configured")

// Service stores catalog media (game cover art) in remote object storage.
type Service interface {
	PutObject(ctx context.Context, bucket, key, contentType string, body io.Reader) error
	DeletePrefix(ctx context.Context, bucket, prefix string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
