package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"brand-studio-backend/internal/apperr"
)

const unknownError = apperr.UnknownMessage

// VendorErrorMessage pulls a human-readable message out of a non-2xx vendor
// response. Recognised shapes are {"error":{"message":m}}, {"error":m} and
// {"message":m}; anything else becomes "API error: <status>".
func VendorErrorMessage(status int, body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if raw, ok := payload["error"]; ok {
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(raw, &nested) == nil && strings.TrimSpace(nested.Message) != "" {
				return nested.Message
			}
			var flat string
			if json.Unmarshal(raw, &flat) == nil && strings.TrimSpace(flat) != "" {
				return flat
			}
		}
		if raw, ok := payload["message"]; ok {
			var msg string
			if json.Unmarshal(raw, &msg) == nil && strings.TrimSpace(msg) != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("API error: %d", status)
}

// vendorError is a non-2xx vendor response with its message already extracted.
type vendorError struct {
	Status  int
	Message string
}

func (e *vendorError) Error() string { return e.Message }

func errorMessage(err error) string {
	if err == nil {
		return unknownError
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return unknownError
}
