/*
Package storage holds the artifact store for generated documents, backed by
S3-compatible object storage.
*/
package storage

import (
	"context"
	"io"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// ArtifactStore defines the public interface for the document artifact store.
type ArtifactStore interface {
	// Upload stores a rendered document body under the given key.
	Upload(ctx context.Context, key string, mimeType string, body io.Reader) error

	// PresignDownload generates a pre-signed URL for downloading an artifact.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the artifact stored under the given key.
	Delete(ctx context.Context, key string) error
}

// NewArtifactStore is the factory function for ArtifactStore.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewArtifactStore(cfg ServiceConfig) (ArtifactStore, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}
