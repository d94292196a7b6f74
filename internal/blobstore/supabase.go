package blobstore

import (
	"bytes"
	"context"
	"fmt"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// SupabaseStore implements Store with a Supabase Storage bucket
type SupabaseStore struct {
	client *supabase.Client
	bucket string
}

func NewSupabaseStore(url string, apiKey string, bucket string) (*SupabaseStore, error) {
	if url == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	client, err := supabase.NewClient(url, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &SupabaseStore{client: client, bucket: bucket}, nil
}

// Put uploads with upsert enabled so a colliding name overwrites, matching the other stores. The storage client
// takes no context
func (s *SupabaseStore) Put(_ context.Context, name string, data []byte, contentType string) error {
	upsert := true
	_, err := s.client.Storage.UploadFile(s.bucket, name, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to supabase bucket '%s': %w", s.bucket, err)
	}
	return nil
}
