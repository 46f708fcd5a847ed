package services

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/kv"
	"brand-studio-backend/internal/models"
)

const (
	apiKeyPrefix  = "apikey:"
	apiKeyIndex   = "apikeys"
	keyHintPrefix = "••••"
)

var providerNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,31}$`)

// APIKeyRecord is the stored shape. APIKey holds the sealed secret.
type APIKeyRecord struct {
	Provider  string    `json:"provider"`
	APIKey    string    `json:"apiKey"`
	Enabled   bool      `json:"enabled"`
	Models    []string  `json:"models"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// APIKeyService manages provider API keys in the key-value store. Keys from
// configuration are used when no record exists for a provider.
type APIKeyService struct {
	store    kv.Store
	sealer   *kv.Sealer
	fallback map[string]string
	now      func() time.Time
}

func NewAPIKeyService(store kv.Store, sealer *kv.Sealer, fallback map[string]string) *APIKeyService {
	return &APIKeyService{store: store, sealer: sealer, fallback: fallback, now: time.Now}
}

func (s *APIKeyService) load(ctx context.Context, provider string) (*APIKeyRecord, error) {
	var rec APIKeyRecord
	if err := kv.GetJSON(ctx, s.store, apiKeyPrefix+provider, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Resolve returns the plaintext key for provider. A disabled record makes
// the provider unavailable even when configuration has a key.
func (s *APIKeyService) Resolve(ctx context.Context, provider string) (string, error) {
	rec, err := s.load(ctx, provider)
	switch {
	case err == nil:
		if !rec.Enabled {
			return "", apperr.Unavailable(provider + " API key (disabled)")
		}
		return s.sealer.Open(rec.APIKey)
	case errors.Is(err, kv.ErrNotFound):
		if key := s.fallback[provider]; key != "" {
			return key, nil
		}
		return "", apperr.Unavailable(provider + " API key")
	default:
		return "", err
	}
}

func (s *APIKeyService) Put(ctx context.Context, provider, apiKey string, enabled bool, modelIDs []string) (*models.APIKeySummary, error) {
	if !providerNamePattern.MatchString(provider) {
		return nil, apperr.Invalid("invalid provider name %q", provider)
	}
	if apiKey == "" {
		return nil, apperr.Invalid("apiKey is required")
	}
	sealed, err := s.sealer.Seal(apiKey)
	if err != nil {
		return nil, err
	}
	if modelIDs == nil {
		modelIDs = []string{}
	}
	rec := APIKeyRecord{Provider: provider, APIKey: sealed, Enabled: enabled, Models: modelIDs, UpdatedAt: s.now().UTC()}
	if err := kv.PutJSON(ctx, s.store, apiKeyPrefix+provider, rec, 0); err != nil {
		return nil, err
	}
	if err := s.store.SetAdd(ctx, apiKeyIndex, provider); err != nil {
		return nil, err
	}
	summary := s.summary(rec, apiKey)
	return &summary, nil
}

func (s *APIKeyService) Delete(ctx context.Context, provider string) error {
	if _, err := s.load(ctx, provider); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return apperr.NotFound("API key for " + provider)
		}
		return err
	}
	if err := s.store.Delete(ctx, apiKeyPrefix+provider); err != nil {
		return err
	}
	return s.store.SetRemove(ctx, apiKeyIndex, provider)
}

// List returns every stored record with the key masked.
func (s *APIKeyService) List(ctx context.Context) ([]models.APIKeySummary, error) {
	providers, err := s.store.SetMembers(ctx, apiKeyIndex)
	if err != nil {
		return nil, err
	}
	sort.Strings(providers)

	out := []models.APIKeySummary{}
	for _, p := range providers {
		rec, err := s.load(ctx, p)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		plain, err := s.sealer.Open(rec.APIKey)
		if err != nil {
			plain = ""
		}
		out = append(out, s.summary(*rec, plain))
	}
	return out, nil
}

func (s *APIKeyService) summary(rec APIKeyRecord, plain string) models.APIKeySummary {
	return models.APIKeySummary{
		Provider:  rec.Provider,
		KeyHint:   maskKey(plain),
		Enabled:   rec.Enabled,
		Models:    rec.Models,
		UpdatedAt: rec.UpdatedAt,
	}
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return keyHintPrefix
	}
	return keyHintPrefix + key[len(key)-4:]
}
