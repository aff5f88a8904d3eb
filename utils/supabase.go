package utils

import (
	"context"
	"errors"
	"io"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// ObjectStore keeps uploaded files and hands back a public URL for them.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error)
}

var ErrStorageNotConfigured = errors.New("file storage is not configured")

type SupabaseStore struct {
	client *storage.Client
	bucket string
}

// NewSupabaseStore returns nil when url or key is empty so callers can
// report the feature as unavailable.
func NewSupabaseStore(url, key, bucket string) *SupabaseStore {
	if url == "" || key == "" {
		return nil
	}
	return &SupabaseStore{
		client: storage.NewClient(strings.TrimRight(url, "/")+"/storage/v1", key, nil),
		bucket: bucket,
	}
}

func (s *SupabaseStore) Upload(_ context.Context, objectPath string, r io.Reader, contentType string) (string, error) {
	if s == nil {
		return "", ErrStorageNotConfigured
	}
	upsert := true
	opts := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}
	if _, err := s.client.UploadFile(s.bucket, objectPath, r, opts); err != nil {
		return "", err
	}
	return s.client.GetPublicUrl(s.bucket, objectPath).SignedURL, nil
}
