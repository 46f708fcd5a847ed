package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FileTypeImage    = "image"
	FileTypeAudio    = "audio"
	FileTypeVideo    = "video"
	FileTypeDocument = "document"
	FileTypeOther    = "other"
)

const (
	SourceUserUpload  = "user_upload"
	SourceAIGenerated = "ai_generated"
)

type FileArchiveEntry struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"userId"`
	BrandProfileID uuid.NullUUID `json:"brandProfileId"`
	FileName       string        `json:"fileName"`
	FileType       string        `json:"fileType"`
	MimeType       string        `json:"mimeType"`
	SizeBytes      int64         `json:"sizeBytes"`
	Source         string        `json:"source"`
	Context        *string       `json:"context,omitempty"`
	Folder         string        `json:"folder"`
	Tags           []string      `json:"tags"`
	IsStarred      bool          `json:"isStarred"`
	R2Key          string        `json:"r2Key"`
	PublicURL      string        `json:"publicUrl"`
	GenerationID   uuid.NullUUID `json:"generationId"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
