package utils

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage keeps uploads on disk under Dir and serves them from BaseURL
// via the router's static handler.
type LocalStorage struct {
	Dir     string
	BaseURL string
}

func (s *LocalStorage) Save(ctx context.Context, objectKey string, contentType string, data []byte) (string, error) {
	if strings.Contains(objectKey, "..") {
		return "", NewValidationError("objectKey", "is invalid")
	}
	fullPath := filepath.Join(s.Dir, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", err
	}
	return s.URL(objectKey), nil
}

func (s *LocalStorage) Delete(ctx context.Context, objectKey string) error {
	if strings.Contains(objectKey, "..") {
		return NewValidationError("objectKey", "is invalid")
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(objectKey)))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStorage) URL(objectKey string) string {
	return path.Join(s.BaseURL, objectKey)
}
