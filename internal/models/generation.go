package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	GenerationTypeImage = "image"
	GenerationTypeAudio = "audio"
	GenerationTypeVideo = "video"
)

const (
	GenerationPending    = "pending"
	GenerationQueued     = "queued"
	GenerationProcessing = "processing"
	GenerationComplete   = "complete"
	GenerationFailed     = "failed"
)

// IsTerminalGeneration reports whether a generation status can no longer change.
func IsTerminalGeneration(status string) bool {
	return status == GenerationComplete || status == GenerationFailed
}

// generationLifecycle lists statuses in the order a generation moves
// through them. complete and failed share the last rank.
var generationLifecycle = []string{GenerationPending, GenerationQueued, GenerationProcessing, GenerationComplete, GenerationFailed}

// GenerationRank orders a status along the lifecycle. Unknown statuses rank
// with pending.
func GenerationRank(status string) int {
	switch status {
	case GenerationQueued:
		return 1
	case GenerationProcessing:
		return 2
	case GenerationComplete, GenerationFailed:
		return 3
	default:
		return 0
	}
}

// StatusesAfter lists, in lifecycle order, every status ranked above status.
func StatusesAfter(status string) []string {
	rank := GenerationRank(status)
	var out []string
	for _, s := range generationLifecycle {
		if GenerationRank(s) > rank {
			out = append(out, s)
		}
	}
	return out
}

// AIGeneration mirrors an ai_generations row.
type AIGeneration struct {
	ID             uuid.UUID
	BrandProfileID uuid.UUID
	GenerationType string
	Provider       string
	Model          string
	Prompt         string
	Status         string
	ProviderJobID  *string
	ResultURL      *string
	R2Key          *string
	Cost           *float64
	Progress       *int
	ErrorMessage   *string
	Parameters     json.RawMessage
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// Generation is the API view of an AIGeneration.
type Generation struct {
	ID             uuid.UUID       `json:"id"`
	BrandProfileID uuid.UUID       `json:"brandProfileId"`
	GenerationType string          `json:"generationType"`
	Provider       string          `json:"provider"`
	Model          string          `json:"model"`
	Prompt         string          `json:"prompt"`
	Status         string          `json:"status"`
	ProviderJobID  *string         `json:"providerJobId,omitempty"`
	ResultURL      *string         `json:"resultUrl,omitempty"`
	R2Key          *string         `json:"r2Key,omitempty"`
	Cost           *float64        `json:"cost,omitempty"`
	Progress       *int            `json:"progress,omitempty"`
	ErrorMessage   *string         `json:"errorMessage,omitempty"`
	Parameters     json.RawMessage `json:"parameters,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
}

// View converts the row for clients. A cost of exactly 0 is reported as
// absent; progress 0 is kept.
func (g *AIGeneration) View() Generation {
	v := Generation{
		ID:             g.ID,
		BrandProfileID: g.BrandProfileID,
		GenerationType: g.GenerationType,
		Provider:       g.Provider,
		Model:          g.Model,
		Prompt:         g.Prompt,
		Status:         g.Status,
		ProviderJobID:  g.ProviderJobID,
		ResultURL:      g.ResultURL,
		R2Key:          g.R2Key,
		Progress:       g.Progress,
		ErrorMessage:   g.ErrorMessage,
		Parameters:     g.Parameters,
		CreatedAt:      g.CreatedAt,
		CompletedAt:    g.CompletedAt,
	}
	if g.Cost != nil && *g.Cost != 0 {
		cost := *g.Cost
		v.Cost = &cost
	}
	return v
}
