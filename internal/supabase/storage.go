package supabase

import (
	"bytes"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// StorageClient reads and writes objects in one bucket, addressed by key.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(c *Client) (*StorageClient, error) {
	if c == nil || c.Supabase == nil || c.Supabase.Storage == nil {
		return nil, fmt.Errorf("supabase storage is not configured")
	}
	return &StorageClient{
		client:  c.Supabase.Storage,
		bucket:  c.Config.SupabaseStorageBucket,
		baseURL: strings.TrimRight(c.Config.SupabaseURL, "/"),
	}, nil
}

// Upload writes data under key, replacing any existing object, and returns
// the object's public URL.
func (s *StorageClient) Upload(key, contentType string, data []byte) (string, error) {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.PublicURL(key), nil
}

func (s *StorageClient) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key)
}

func (s *StorageClient) Delete(key string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *StorageClient) Download(key string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}
