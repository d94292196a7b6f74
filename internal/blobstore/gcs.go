package blobstore

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// GCSStore implements Store with a Google Cloud Storage bucket
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore creates a store for the given bucket. If accessToken is empty, Application Default Credentials are
// used. If httpClient is non-nil it must already carry credentials, and accessToken is ignored
func NewGCSStore(ctx context.Context, bucket string, accessToken string, httpClient *http.Client) (*GCSStore, error) {
	var opts []option.ClientOption
	switch {
	case httpClient != nil:
		opts = append(opts, option.WithHTTPClient(httpClient))
	case accessToken != "":
		tokenSource := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: accessToken},
		)
		opts = append(opts, option.WithTokenSource(tokenSource))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to upload object to gs://%s/%s: %w", s.bucket, name, err)
	}
	return nil
}

// Close releases the underlying storage client
func (s *GCSStore) Close() error {
	return s.client.Close()
}
