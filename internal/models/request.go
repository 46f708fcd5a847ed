package models

type CreateBrandRequest struct {
	// Optional initial values keyed by field name (e.g. "brandName").
	Fields map[string]any `json:"fields,omitempty"`
}

type UpdateBrandRequest struct {
	Fields map[string]any `json:"fields" binding:"required"`
	Reason string         `json:"reason,omitempty" example:"Tightened after review"`
}

type ChatRequest struct {
	ProfileID   string           `json:"profileId,omitempty"`
	Message     string           `json:"message" binding:"required" example:"I'm starting a coffee brand called Lumen"`
	Attachments []ChatAttachment `json:"attachments,omitempty"`
}

type ChatAttachment struct {
	ArchiveID string `json:"archiveId,omitempty"`
	URL       string `json:"url,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	Name      string `json:"name,omitempty"`
}

type StepRequest struct {
	Direction string `json:"direction" binding:"required,oneof=next previous" example:"next"`
}

type ImageGenerationRequest struct {
	BrandProfileID string `json:"brandProfileId" binding:"required"`
	Prompt         string `json:"prompt" binding:"required"`
	Model          string `json:"model,omitempty" example:"dall-e-3"`
	Size           string `json:"size,omitempty" example:"1024x1024"`
	Quality        string `json:"quality,omitempty" example:"standard"`
	Style          string `json:"style,omitempty" example:"vivid"`
}

type AudioGenerationRequest struct {
	BrandProfileID string  `json:"brandProfileId" binding:"required"`
	Text           string  `json:"text" binding:"required"`
	Model          string  `json:"model,omitempty" example:"tts-1"`
	Voice          string  `json:"voice,omitempty" example:"alloy"`
	Speed          float64 `json:"speed,omitempty" example:"1.0"`
}

type VideoGenerationRequest struct {
	BrandProfileID string `json:"brandProfileId" binding:"required"`
	Prompt         string `json:"prompt" binding:"required"`
	Provider       string `json:"provider,omitempty" example:"openai"`
	Model          string `json:"model,omitempty" example:"sora-2"`
	Duration       int    `json:"duration,omitempty" example:"4"`
	AspectRatio    string `json:"aspectRatio,omitempty" example:"16:9"`
	Resolution     string `json:"resolution,omitempty" example:"720p"`
}

type UpdateArchiveRequest struct {
	Folder    *string  `json:"folder,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	IsStarred *bool    `json:"isStarred,omitempty"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin" example:"admin"`
}

type PutAPIKeyRequest struct {
	APIKey  string   `json:"apiKey" binding:"required"`
	Enabled *bool    `json:"enabled,omitempty"`
	Models  []string `json:"models,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type OAuthCredentialsRequest struct {
	ClientID     string `json:"clientId" binding:"required"`
	ClientSecret string `json:"clientSecret" binding:"required"`
}
