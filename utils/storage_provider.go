package utils

import (
	"context"

	"github.com/gamedex/catalog_backend/config"
)

const (
	StorageProviderLocal = "local"
	StorageProviderGCS   = "gcs"
)

// ObjectStorage is the single media design: originals and thumbnails are
// stored as objects and entities keep URL references to them.
type ObjectStorage interface {
	// Save writes the object and returns its access URL.
	Save(ctx context.Context, objectKey string, contentType string, data []byte) (string, error)
	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, objectKey string) error
	// URL resolves the access URL without touching the backend.
	URL(objectKey string) string
}

// GetObjectStorage picks the provider from settings. Local disk is the
// default so the service runs without cloud credentials.
func GetObjectStorage(s *config.Settings) ObjectStorage {
	switch s.StorageProvider {
	case StorageProviderGCS:
		return &GCSStorage{Bucket: s.GCSBucket}
	default:
		return &LocalStorage{Dir: s.UploadDir, BaseURL: s.UploadBaseURL}
	}
}
