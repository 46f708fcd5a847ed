package onboarding

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"brand-studio-backend/internal/brand"
)

// extractionWindow is how many trailing messages the extraction pass reads.
const extractionWindow = 10

// Message is one chat turn as seen by the prompt builders. Content is usually
// a string but may carry structured parts from clients.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

var fencePattern = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)\r?\n?```$")

// BuildExtractionPrompt returns the instruction for the structured-data pass.
// An empty string means the step has nothing to extract.
func BuildExtractionPrompt(step string, messages []Message) string {
	if step == StepComplete {
		return ""
	}
	if len(messages) > extractionWindow {
		messages = messages[len(messages)-extractionWindow:]
	}

	var convo strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&convo, "%s: %s\n", m.Role, contentString(m.Content))
	}

	var schema strings.Builder
	for _, f := range brand.Fields() {
		fmt.Fprintf(&schema, "- %s (%s): %s\n", f.Name, kindHint(f.Kind), f.Label)
	}

	return fmt.Sprintf(`Extract brand information from the conversation below. The conversation is at the %q step.

Known fields:
%s
Rules:
- Respond with a single JSON object and nothing else.
- Only use the field names listed above.
- Only include fields the user stated or explicitly agreed to; omit everything else.
- Arrays must be JSON arrays of strings; objects must be JSON objects.

Conversation:
%s`, step, schema.String(), convo.String())
}

func kindHint(k brand.Kind) string {
	switch k {
	case brand.KindArray:
		return "array"
	case brand.KindObject:
		return "object"
	default:
		return "string"
	}
}

func contentString(content any) string {
	switch v := content.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Sprint(content)
	}
	return string(raw)
}

// ParseExtractionResponse reads the model's extraction output. It returns nil
// for missing or blank input, invalid JSON, non-object JSON, or an object
// with no usable known fields. Unknown keys, nulls and blank strings are
// dropped.
func ParseExtractionResponse(raw *string) map[string]any {
	if raw == nil {
		return nil
	}
	text := strings.TrimSpace(*raw)
	if text == "" {
		return nil
	}
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil
	}

	out := make(map[string]any)
	for key, value := range obj {
		if !brand.IsKnown(key) || value == nil {
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
