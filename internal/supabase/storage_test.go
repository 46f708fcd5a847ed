package supabase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brand-studio-backend/internal/config"
	"brand-studio-backend/internal/supabase"
)

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := supabase.NewClient(&config.Config{SupabaseURL: "https://x.supabase.co"})
	assert.Error(t, err)
}

func TestNewStorageClient_Unconfigured(t *testing.T) {
	_, err := supabase.NewStorageClient(nil)
	assert.Error(t, err)
}

func TestStorageClient_PublicURL(t *testing.T) {
	cfg := &config.Config{
		SupabaseURL:           "https://project.supabase.co/",
		SupabaseServiceKey:    "service-key",
		SupabaseStorageBucket: "brand-assets",
	}
	client, err := supabase.NewClient(cfg)
	require.NoError(t, err)

	storage, err := supabase.NewStorageClient(client)
	require.NoError(t, err)

	assert.Equal(t,
		"https://project.supabase.co/storage/v1/object/public/brand-assets/generations/abc/video.mp4",
		storage.PublicURL("generations/abc/video.mp4"))
}
