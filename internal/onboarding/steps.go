// Package onboarding drives the conversational brand-building wizard: the
// fixed step sequence, the per-step system prompts and the extraction pass
// that turns chat into brand fields.
package onboarding

import "math"

const (
	StepWelcome          = "welcome"
	StepBrandIdentity    = "brand_identity"
	StepBrandPersonality = "brand_personality"
	StepTargetAudience   = "target_audience"
	StepVisualIdentity   = "visual_identity"
	StepBrandVoice       = "brand_voice"
	StepMessaging        = "messaging"
	StepReview           = "review"
	StepComplete         = "complete"
)

// CompletionMarker is appended by the model when a step's goals are met.
const CompletionMarker = "[STEP_COMPLETE]"

type Step struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
}

var stepOrder = []string{
	StepWelcome,
	StepBrandIdentity,
	StepBrandPersonality,
	StepTargetAudience,
	StepVisualIdentity,
	StepBrandVoice,
	StepMessaging,
	StepReview,
	StepComplete,
}

var stepTitles = map[string]string{
	StepWelcome:          "Welcome",
	StepBrandIdentity:    "Brand identity",
	StepBrandPersonality: "Personality",
	StepTargetAudience:   "Target audience",
	StepVisualIdentity:   "Visual identity",
	StepBrandVoice:       "Voice & tone",
	StepMessaging:        "Messaging",
	StepReview:           "Review",
	StepComplete:         "Complete",
}

func FirstStep() string { return stepOrder[0] }

func LastStep() string { return stepOrder[len(stepOrder)-1] }

func IsValidStep(step string) bool {
	return indexOf(step) >= 0
}

// Steps returns the sequence with titles and progress, for clients.
func Steps() []Step {
	out := make([]Step, len(stepOrder))
	for i, id := range stepOrder {
		out[i] = Step{ID: id, Title: stepTitles[id], Progress: StepProgress(id)}
	}
	return out
}

func NextStep(step string) (string, bool) {
	i := indexOf(step)
	if i < 0 || i == len(stepOrder)-1 {
		return "", false
	}
	return stepOrder[i+1], true
}

func PreviousStep(step string) (string, bool) {
	i := indexOf(step)
	if i <= 0 {
		return "", false
	}
	return stepOrder[i-1], true
}

// StepProgress maps a step linearly onto 0..100. Unknown steps are 0.
func StepProgress(step string) int {
	i := indexOf(step)
	if i < 0 {
		return 0
	}
	return int(math.Round(float64(i) / float64(len(stepOrder)-1) * 100))
}

func indexOf(step string) int {
	for i, s := range stepOrder {
		if s == step {
			return i
		}
	}
	return -1
}
