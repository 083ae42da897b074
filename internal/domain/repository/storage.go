package repository

import (
	"context"
	"io"
	"time"
)

// MediaStorage defines the interface for media object storage.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type MediaStorage interface {
	// Upload stores an object and returns its publicly reachable URL.
	// size may be -1 when unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)

	// GeneratePresignedDownloadURL creates a time-limited URL for downloading
	// an object directly from storage.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Delete removes an object from the storage.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists in the storage.
	Exists(ctx context.Context, key string) (bool, error)
}
