package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// getGoogleClient initializes a Google Cloud Storage client.
// Prefers ADC (Cloud Run service account / GOOGLE_APPLICATION_CREDENTIALS);
// set GCS_CREDENTIALS_JSON to provide explicit JSON locally.
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GCSStorage stores objects publicly readable in a single bucket.
type GCSStorage struct {
	Bucket string
}

func (s *GCSStorage) Save(ctx context.Context, objectKey string, contentType string, data []byte) (string, error) {
	if s.Bucket == "" {
		return "", errors.New("GCS_BUCKET is required")
	}
	client, err := getGoogleClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	wc := client.Bucket(s.Bucket).Object(objectKey).NewWriter(ctx)
	wc.ContentType = contentType
	wc.Metadata = map[string]string{
		"x-goog-acl": "public-read",
	}
	if _, err = wc.Write(data); err != nil {
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}

	return s.URL(objectKey), nil
}

func (s *GCSStorage) Delete(ctx context.Context, objectKey string) error {
	if s.Bucket == "" {
		return errors.New("GCS_BUCKET is required")
	}
	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.Bucket(s.Bucket).Object(objectKey).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}

func (s *GCSStorage) URL(objectKey string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.Bucket, objectKey)
}
