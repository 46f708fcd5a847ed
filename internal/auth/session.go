// Package auth issues and checks login sessions and runs the OAuth sign-in
// flow for GitHub and Discord.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/kv"
)

const sessionPrefix = "session:"

// SessionStore keeps opaque session tokens in the key-value store.
type SessionStore struct {
	store kv.Store
	ttl   time.Duration
}

func NewSessionStore(store kv.Store, ttl time.Duration) *SessionStore {
	return &SessionStore{store: store, ttl: ttl}
}

func (s *SessionStore) TTL() time.Duration { return s.ttl }

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *SessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := randomToken(32)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, sessionPrefix+token, userID.String(), s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Lookup resolves a session token to its user. Unknown or expired tokens
// are ErrUnauthorized.
func (s *SessionStore) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	raw, err := s.store.Get(ctx, sessionPrefix+token)
	if errors.Is(err, kv.ErrNotFound) {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return id, nil
}

func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.Delete(ctx, sessionPrefix+token)
}
