package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ProfileStatusInProgress = "in_progress"
	ProfileStatusCompleted  = "completed"
	ProfileStatusArchived   = "archived"
)

const (
	ChangeSourceManual = "manual"
	ChangeSourceAI     = "ai"
)

// BrandProfile is the central brand record. Fields holds the decoded value of
// every registry field keyed by its camelCase name; absent keys are NULL.
type BrandProfile struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Status             string
	OnboardingStep     string
	BrandNameConfirmed bool
	Fields             map[string]any
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MarshalJSON flattens registry fields next to the record metadata so clients
// read profile.brandName rather than profile.fields.brandName.
func (p BrandProfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Fields)+7)
	for k, v := range p.Fields {
		out[k] = v
	}
	out["id"] = p.ID
	out["userId"] = p.UserID
	out["status"] = p.Status
	out["onboardingStep"] = p.OnboardingStep
	out["brandNameConfirmed"] = p.BrandNameConfirmed
	out["createdAt"] = p.CreatedAt
	out["updatedAt"] = p.UpdatedAt
	return json.Marshal(out)
}

// Get returns a field value, or nil when unset.
func (p *BrandProfile) Get(field string) any {
	if p == nil || p.Fields == nil {
		return nil
	}
	return p.Fields[field]
}

type FieldVersion struct {
	ID            uuid.UUID `json:"id"`
	ProfileID     uuid.UUID `json:"profileId"`
	FieldName     string    `json:"fieldName"`
	OldValue      *string   `json:"oldValue"`
	NewValue      *string   `json:"newValue"`
	ChangeSource  string    `json:"changeSource"`
	ChangeReason  *string   `json:"changeReason,omitempty"`
	VersionNumber int       `json:"versionNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

type OnboardingMessage struct {
	ID          uuid.UUID       `json:"id"`
	ProfileID   uuid.UUID       `json:"profileId"`
	Role        string          `json:"role"`
	Content     string          `json:"content"`
	Step        string          `json:"step"`
	Attachments json.RawMessage `json:"attachments,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
