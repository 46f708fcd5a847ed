package models

import "time"

type HealthResponse struct {
	Status string `json:"status"`
}

type BrandListResponse struct {
	Brands []BrandProfile `json:"brands"`
}

type VersionListResponse struct {
	Versions []FieldVersion `json:"versions"`
}

type MessagesResponse struct {
	Messages []OnboardingMessage `json:"messages"`
}

type StepResponse struct {
	ProfileID string `json:"profileId"`
	Step      string `json:"step"`
	Progress  int    `json:"progress"`
	Status    string `json:"status"`
}

type GenerationListResponse struct {
	Generations []Generation `json:"generations"`
}

type ArchiveListResponse struct {
	Files []FileArchiveEntry `json:"files"`
}

type FoldersResponse struct {
	Folders []string `json:"folders"`
}

type UserListResponse struct {
	Users []User `json:"users"`
}

// APIKeySummary is an API-key record with the secret masked.
type APIKeySummary struct {
	Provider  string    `json:"provider"`
	KeyHint   string    `json:"keyHint"`
	Enabled   bool      `json:"enabled"`
	Models    []string  `json:"models"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type APIKeyListResponse struct {
	Keys []APIKeySummary `json:"keys"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UpdateBrandResponse struct {
	Brand    *BrandProfile  `json:"brand"`
	Versions []FieldVersion `json:"versions"`
}
