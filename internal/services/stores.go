package services

import (
	"context"

	"github.com/google/uuid"

	"brand-studio-backend/internal/brand"
	"brand-studio-backend/internal/database"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/openai"
)

// The store interfaces below are the slices of *database.Client each service
// needs.

type BrandStore interface {
	CreateProfile(ctx context.Context, userID uuid.UUID) (*models.BrandProfile, error)
	GetProfile(ctx context.Context, profileID uuid.UUID) (*models.BrandProfile, error)
	ListProfiles(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.BrandProfile, error)
	SetProfileStatus(ctx context.Context, profileID uuid.UUID, status string) error
	SetOnboardingStep(ctx context.Context, profileID uuid.UUID, step, status string) error
	WriteFieldVersion(ctx context.Context, profileID uuid.UUID, f brand.Field, value *string, source string, reason *string) (*models.FieldVersion, error)
	GetFieldVersion(ctx context.Context, versionID uuid.UUID) (*models.FieldVersion, error)
	ListFieldVersions(ctx context.Context, profileID uuid.UUID, fieldName string) ([]models.FieldVersion, error)
}

type MessageStore interface {
	InsertMessage(ctx context.Context, m *models.OnboardingMessage) error
	ListMessages(ctx context.Context, profileID uuid.UUID, limit int) ([]models.OnboardingMessage, error)
}

type GenerationStore interface {
	InsertGeneration(ctx context.Context, g *models.AIGeneration) error
	GetGeneration(ctx context.Context, id uuid.UUID) (*models.AIGeneration, error)
	ListGenerations(ctx context.Context, profileID uuid.UUID, genType string) ([]models.AIGeneration, error)
	UpdateGeneration(ctx context.Context, id uuid.UUID, u *database.GenerationUpdate) (bool, error)
}

type ArchiveStore interface {
	InsertArchiveEntry(ctx context.Context, e *models.FileArchiveEntry) error
	GetArchiveEntry(ctx context.Context, id uuid.UUID) (*models.FileArchiveEntry, error)
	ListArchive(ctx context.Context, userID uuid.UUID, f database.ArchiveFilter) ([]models.FileArchiveEntry, error)
	UpdateArchiveEntry(ctx context.Context, id uuid.UUID, p database.ArchivePatch) error
	DeleteArchiveEntry(ctx context.Context, id uuid.UUID) error
	ListFolders(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type UserStore interface {
	UpsertOAuthUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetUserRole(ctx context.Context, id uuid.UUID, role string) error
}

// ObjectStorage is the blob store for generated and uploaded media.
type ObjectStorage interface {
	Upload(key, contentType string, data []byte) (string, error)
	Download(key string) ([]byte, error)
	Delete(key string) error
}

// KeyResolver finds the API key to use for a provider.
type KeyResolver interface {
	Resolve(ctx context.Context, provider string) (string, error)
}

type ChatModel interface {
	StreamChat(ctx context.Context, system string, messages []openai.Message, onDelta func(string) error) (string, error)
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type MediaModel interface {
	GenerateImage(ctx context.Context, req openai.ImageRequest) (*openai.ImageResult, error)
	GenerateSpeech(ctx context.Context, req openai.SpeechRequest) ([]byte, error)
}

// OpenAIFactory builds a client for one resolved API key.
type OpenAIFactory interface {
	Chat(apiKey string) ChatModel
	Media(apiKey string) MediaModel
}

// OpenAIClients is the production OpenAIFactory.
type OpenAIClients struct {
	BaseURL   string
	ChatModel string
}

func (f OpenAIClients) Chat(apiKey string) ChatModel {
	return openai.NewClient(apiKey, f.BaseURL, f.ChatModel)
}

func (f OpenAIClients) Media(apiKey string) MediaModel {
	return openai.NewClient(apiKey, f.BaseURL, f.ChatModel)
}

// ownedProfile loads a profile and hides it from anyone but its owner.
func ownedProfile(ctx context.Context, store BrandStore, userID, profileID uuid.UUID) (*models.BrandProfile, error) {
	p, err := store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, errProfileNotFound
	}
	return p, nil
}
