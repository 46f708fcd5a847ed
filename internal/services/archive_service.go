package services

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/database"
	"brand-studio-backend/internal/logger"
	"brand-studio-backend/internal/models"
)

const (
	ContextOnboarding  = "onboarding"
	ContextBrandAssets = "brand_assets"
	ContextChat        = "chat"
	ContextGeneration  = "generation"
)

const maxUploadBytes = 50 << 20

var folderPlurals = map[string]string{
	models.FileTypeImage:    "images",
	models.FileTypeAudio:    "audios",
	models.FileTypeVideo:    "videos",
	models.FileTypeDocument: "documents",
	models.FileTypeOther:    "files",
}

type FolderInput struct {
	Context        string
	FileType       string
	Source         string
	OnboardingStep string
}

// DetermineFolder picks the virtual archive folder for a new file.
func DetermineFolder(in FolderInput) string {
	plural, ok := folderPlurals[in.FileType]
	if !ok {
		plural = folderPlurals[models.FileTypeOther]
	}
	switch {
	case in.Context == ContextOnboarding && in.OnboardingStep != "":
		return "/onboarding/" + in.OnboardingStep
	case in.Context == ContextBrandAssets:
		return "/brand-assets/" + plural
	case in.Source == models.SourceAIGenerated:
		return "/ai-generated/" + plural
	default:
		return "/uploads/" + plural
	}
}

func FileTypeFromMime(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.FileTypeImage
	case strings.HasPrefix(mime, "audio/"):
		return models.FileTypeAudio
	case strings.HasPrefix(mime, "video/"):
		return models.FileTypeVideo
	case mime == "application/pdf", strings.HasPrefix(mime, "text/"),
		strings.Contains(mime, "document"), strings.Contains(mime, "msword"),
		strings.Contains(mime, "presentation"), strings.Contains(mime, "spreadsheet"):
		return models.FileTypeDocument
	default:
		return models.FileTypeOther
	}
}

// ArchiveService stores media in object storage and records it in the
// file archive. Storage may be nil when no bucket is configured.
type ArchiveService struct {
	store   ArchiveStore
	storage ObjectStorage
	log     *logger.Logger
}

func NewArchiveService(store ArchiveStore, storage ObjectStorage, log *logger.Logger) *ArchiveService {
	return &ArchiveService{store: store, storage: storage, log: log.With("service", "ArchiveService")}
}

func (s *ArchiveService) StorageAvailable() bool {
	return s.storage != nil
}

type FileInput struct {
	UserID         uuid.UUID
	BrandProfileID *uuid.UUID
	GenerationID   *uuid.UUID
	FileName       string
	MimeType       string
	Data           []byte
	Source         string
	Context        string
	OnboardingStep string
	Tags           []string
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func objectKey(userID uuid.UUID, folder, fileName string) string {
	name := unsafeName.ReplaceAllString(path.Base(fileName), "_")
	if name == "" || name == "." || name == "_" {
		name = "file"
	}
	return fmt.Sprintf("users/%s%s/%s-%s", userID, folder, uuid.NewString()[:8], name)
}

// Save uploads the bytes and records an archive entry.
func (s *ArchiveService) Save(ctx context.Context, in FileInput) (*models.FileArchiveEntry, error) {
	if s.storage == nil {
		return nil, apperr.Unavailable("object storage")
	}
	if len(in.Data) == 0 {
		return nil, apperr.Invalid("file is empty")
	}
	if len(in.Data) > maxUploadBytes {
		return nil, apperr.Invalid("file exceeds %d MB", maxUploadBytes>>20)
	}
	if in.Source == "" {
		in.Source = models.SourceUserUpload
	}
	if in.MimeType == "" {
		in.MimeType = "application/octet-stream"
	}

	fileType := FileTypeFromMime(in.MimeType)
	folder := DetermineFolder(FolderInput{
		Context:        in.Context,
		FileType:       fileType,
		Source:         in.Source,
		OnboardingStep: in.OnboardingStep,
	})
	key := objectKey(in.UserID, folder, in.FileName)

	publicURL, err := s.storage.Upload(key, in.MimeType, in.Data)
	if err != nil {
		return nil, err
	}

	entry := &models.FileArchiveEntry{
		UserID:    in.UserID,
		FileName:  in.FileName,
		FileType:  fileType,
		MimeType:  in.MimeType,
		SizeBytes: int64(len(in.Data)),
		Source:    in.Source,
		Folder:    folder,
		Tags:      in.Tags,
		R2Key:     key,
		PublicURL: publicURL,
	}
	if in.BrandProfileID != nil {
		entry.BrandProfileID = uuid.NullUUID{UUID: *in.BrandProfileID, Valid: true}
	}
	if in.GenerationID != nil {
		entry.GenerationID = uuid.NullUUID{UUID: *in.GenerationID, Valid: true}
	}
	if in.Context != "" {
		entry.Context = &in.Context
	}

	if err := s.store.InsertArchiveEntry(ctx, entry); err != nil {
		if delErr := s.storage.Delete(key); delErr != nil {
			s.log.Warn("failed to remove orphaned object", "key", key, "error", delErr)
		}
		return nil, err
	}
	return entry, nil
}

// Upload archives a file sent by the user.
func (s *ArchiveService) Upload(ctx context.Context, in FileInput) (*models.FileArchiveEntry, error) {
	in.Source = models.SourceUserUpload
	return s.Save(ctx, in)
}

// SaveGenerated archives provider output for a generation.
func (s *ArchiveService) SaveGenerated(ctx context.Context, in FileInput) (*models.FileArchiveEntry, error) {
	in.Source = models.SourceAIGenerated
	if in.Context == "" {
		in.Context = ContextGeneration
	}
	return s.Save(ctx, in)
}

func (s *ArchiveService) List(ctx context.Context, userID uuid.UUID, f database.ArchiveFilter) ([]models.FileArchiveEntry, error) {
	entries, err := s.store.ListArchive(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.FileArchiveEntry{}
	}
	return entries, nil
}

func (s *ArchiveService) owned(ctx context.Context, userID, id uuid.UUID) (*models.FileArchiveEntry, error) {
	e, err := s.store.GetArchiveEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, apperr.NotFound("archive entry")
	}
	return e, nil
}

func (s *ArchiveService) Update(ctx context.Context, userID, id uuid.UUID, p database.ArchivePatch) (*models.FileArchiveEntry, error) {
	if p.Folder != nil {
		folder := "/" + strings.Trim(path.Clean("/"+strings.TrimSpace(*p.Folder)), "/")
		if folder == "/" {
			return nil, apperr.Invalid("folder must not be empty")
		}
		p.Folder = &folder
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.store.UpdateArchiveEntry(ctx, id, p); err != nil {
		return nil, err
	}
	return s.store.GetArchiveEntry(ctx, id)
}

// Delete removes the archive row. The stored object is removed best-effort.
func (s *ArchiveService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	e, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteArchiveEntry(ctx, id); err != nil {
		return err
	}
	if s.storage != nil {
		if err := s.storage.Delete(e.R2Key); err != nil {
			s.log.Warn("failed to delete stored object", "key", e.R2Key, "error", err)
		}
	}
	return nil
}

func (s *ArchiveService) Folders(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.store.ListFolders(ctx, userID)
}
