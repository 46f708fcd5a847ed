package onboarding

import (
	"fmt"
	"strings"

	"brand-studio-backend/internal/brand"
)

const basePrompt = `You are a friendly senior brand strategist guiding a founder through building their brand, one topic at a time.
Ask at most two questions per message. Keep replies under 150 words. Build on what the user already told you and never ask for information you already have.`

var stepPrompts = map[string]string{
	StepWelcome: `Current step: Welcome.
Greet the user, explain that you will build their brand together in a few short steps, and ask what their business does and what it is (or might be) called.`,
	StepBrandIdentity: `Current step: Brand identity.
Pin down the brand name, the industry, the mission and the vision. If the user has no name yet, offer three short name ideas that fit what they described.`,
	StepBrandPersonality: `Current step: Brand personality.
Help the user choose three to five core values and personality traits, and suggest a brand archetype (e.g. Creator, Sage, Explorer) that matches.`,
	StepTargetAudience: `Current step: Target audience.
Identify who the brand serves: the primary audience, one or two personas, their pain points, and the main competitors the audience compares against.`,
	StepVisualIdentity: `Current step: Visual identity.
Explore the visual direction: a color palette with hex codes, typography pairing, logo concept and the overall imagery style.`,
	StepBrandVoice: `Current step: Brand voice.
Define the tone of voice with concrete do and don't guidelines, and draft a tagline that sounds like the brand.`,
	StepMessaging: `Current step: Messaging.
Write the unique value proposition, three key messages and a two-sentence elevator pitch. Ask the user to react and refine.`,
	StepReview: `Current step: Review.
Summarize the full brand profile back to the user in a short structured overview and ask whether anything should change.`,
	StepComplete: `Current step: Complete.
The brand profile is finished. Congratulate the user, answer follow-up questions and suggest generating brand assets (logo concepts, social images, a voice-over or a short video).`,
}

const progressionSuffix = `
When the goals of the current step are fully covered and the user has confirmed them, end your reply with the exact marker ` + CompletionMarker + ` on its own line. Never emit the marker before the user confirms.`

// SystemPromptForStep builds the system prompt for a step. An empty result
// means no prompt exists for the step and must not be sent to the model.
func SystemPromptForStep(step string, brandData map[string]any) string {
	stepPrompt, ok := stepPrompts[step]
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\n")
	b.WriteString(stepPrompt)

	if ctx := brandContext(brandData); ctx != "" {
		b.WriteString("\n\nWhat we know about the brand so far:\n")
		b.WriteString(ctx)
	}

	if step != StepComplete {
		b.WriteString("\n")
		b.WriteString(progressionSuffix)
	}
	return b.String()
}

func brandContext(brandData map[string]any) string {
	if len(brandData) == 0 {
		return ""
	}
	var lines []string
	for _, f := range brand.Fields() {
		v, ok := brandData[f.Name]
		if !ok || !brand.Truthy(v) {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", f.Label, brand.Format(v)))
	}
	return strings.Join(lines, "\n")
}

// DetectCompletion strips the completion marker from model output and
// reports whether it was present.
func DetectCompletion(text string) (string, bool) {
	if !strings.Contains(text, CompletionMarker) {
		return text, false
	}
	clean := strings.ReplaceAll(text, CompletionMarker, "")
	return strings.TrimSpace(clean), true
}
