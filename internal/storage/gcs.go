// Package storage holds complaint photos in Google Cloud Storage and
// hands back publicly addressable URLs.
package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ObjectStore persists uploaded binary objects and returns a URL the
// browser can fetch directly.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Close() error
}

// GCSStore implements ObjectStore on a single GCS bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore dials GCS. When credentialsFile is empty the client falls
// back to application default credentials.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSStore{client: client, bucket: bucket}, nil
}

// Upload streams body into the bucket under key and returns the public
// object URL. The writer must be closed before the object becomes
// visible, so a write error surfaces on Close as well.
func (s *GCSStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	obj := s.client.Bucket(s.bucket).Object(key)
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, body); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", key, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key), nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
