package onboarding_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"brand-studio-backend/internal/onboarding"
)

func TestStepNavigation(t *testing.T) {
	next, ok := onboarding.NextStep(onboarding.StepComplete)
	assert.False(t, ok)
	assert.Empty(t, next)

	prev, ok := onboarding.PreviousStep(onboarding.FirstStep())
	assert.False(t, ok)
	assert.Empty(t, prev)

	_, ok = onboarding.NextStep("nope")
	assert.False(t, ok)
	_, ok = onboarding.PreviousStep("nope")
	assert.False(t, ok)

	next, ok = onboarding.NextStep(onboarding.StepWelcome)
	assert.True(t, ok)
	assert.Equal(t, onboarding.StepBrandIdentity, next)

	prev, ok = onboarding.PreviousStep(onboarding.StepComplete)
	assert.True(t, ok)
	assert.Equal(t, onboarding.StepReview, prev)
}

func TestStepProgress(t *testing.T) {
	assert.Equal(t, 0, onboarding.StepProgress("unknown"))
	assert.Equal(t, 0, onboarding.StepProgress(onboarding.FirstStep()))
	assert.Equal(t, 100, onboarding.StepProgress(onboarding.LastStep()))
	assert.Equal(t, 50, onboarding.StepProgress(onboarding.StepVisualIdentity))

	last := -1
	for _, s := range onboarding.Steps() {
		assert.Greater(t, s.Progress, last)
		last = s.Progress
	}
}

func TestSystemPromptForStep(t *testing.T) {
	assert.Equal(t, "", onboarding.SystemPromptForStep("bogus", nil))

	data := map[string]any{
		"brandName":   "Lumen",
		"tagline":     "   ",
		"coreValues":  []any{"warmth", "clarity"},
		"competitors": []any{},
		"notAField":   "ignored",
	}
	p := onboarding.SystemPromptForStep(onboarding.StepBrandVoice, data)
	assert.Contains(t, p, "- Brand name: Lumen")
	assert.Contains(t, p, "- Core values: warmth, clarity")
	assert.NotContains(t, p, "Tagline")
	assert.NotContains(t, p, "Competitors")
	assert.NotContains(t, p, "ignored")
	assert.Contains(t, p, onboarding.CompletionMarker)

	done := onboarding.SystemPromptForStep(onboarding.StepComplete, data)
	assert.NotEmpty(t, done)
	assert.NotContains(t, done, onboarding.CompletionMarker)

	bare := onboarding.SystemPromptForStep(onboarding.StepWelcome, nil)
	assert.NotContains(t, bare, "What we know")
}

func TestDetectCompletion(t *testing.T) {
	clean, done := onboarding.DetectCompletion("Great, we're set!\n[STEP_COMPLETE]")
	assert.True(t, done)
	assert.Equal(t, "Great, we're set!", clean)

	clean, done = onboarding.DetectCompletion("Tell me more.")
	assert.False(t, done)
	assert.Equal(t, "Tell me more.", clean)
}

func TestBuildExtractionPrompt(t *testing.T) {
	assert.Equal(t, "", onboarding.BuildExtractionPrompt(onboarding.StepComplete, []onboarding.Message{{Role: "user", Content: "hi"}}))

	msgs := []onboarding.Message{
		{Role: "user", Content: "We are called Lumen"},
		{Role: "assistant", Content: "Nice name!"},
		{Role: "user", Content: map[string]any{"type": "text", "text": "structured"}},
	}
	p := onboarding.BuildExtractionPrompt(onboarding.StepBrandIdentity, msgs)
	assert.Contains(t, p, "user: We are called Lumen")
	assert.Contains(t, p, "assistant: Nice name!")
	assert.Contains(t, p, `user: {"text":"structured","type":"text"}`)
	assert.Contains(t, p, "- brandName (string)")
	assert.Contains(t, p, "- colorPalette (array)")
}

func TestBuildExtractionPrompt_Window(t *testing.T) {
	var msgs []onboarding.Message
	for i := 0; i < 15; i++ {
		msgs = append(msgs, onboarding.Message{Role: "user", Content: strings.Repeat("x", i+1) + "|"})
	}
	p := onboarding.BuildExtractionPrompt(onboarding.StepMessaging, msgs)
	assert.NotContains(t, p, "user: xxxxx|")
	assert.Contains(t, p, "user: "+strings.Repeat("x", 15)+"|")
}

func TestParseExtractionResponse_Rejects(t *testing.T) {
	assert.Nil(t, onboarding.ParseExtractionResponse(nil))
	for _, in := range []string{"", "   ", "null", "not json", `["a"]`, `"str"`, `42`, `{"unknown":1}`, `{"brandName":null,"tagline":"  "}`} {
		assert.Nil(t, onboarding.ParseExtractionResponse(&in), in)
	}
}

func TestParseExtractionResponse_Filters(t *testing.T) {
	raw := `{"brandName":"X","unknown":1}`
	got := onboarding.ParseExtractionResponse(&raw)
	assert.Equal(t, map[string]any{"brandName": "X"}, got)
}

func TestParseExtractionResponse_CodeFences(t *testing.T) {
	withTag := "```json\n{\"tagline\":\"Light the way\",\"coreValues\":[\"a\",\"b\"]}\n```"
	got := onboarding.ParseExtractionResponse(&withTag)
	assert.Equal(t, "Light the way", got["tagline"])
	assert.Equal(t, []any{"a", "b"}, got["coreValues"])

	noTag := "```\n{\"typography\":{\"heading\":\"Inter\"}}\n```"
	got = onboarding.ParseExtractionResponse(&noTag)
	assert.Equal(t, map[string]any{"heading": "Inter"}, got["typography"])
}

func TestGuessBrandName(t *testing.T) {
	name, ok := onboarding.GuessBrandName("I'm starting a coffee roastery called Lumen Coffee for remote workers")
	assert.True(t, ok)
	assert.Equal(t, "Lumen Coffee", name)

	name, ok = onboarding.GuessBrandName(`Our company name is "Northwind".`)
	assert.True(t, ok)
	assert.Equal(t, "Northwind", name)

	_, ok = onboarding.GuessBrandName("we don't have a name yet")
	assert.False(t, ok)
}

func TestMarkerFilter(t *testing.T) {
	var f onboarding.MarkerFilter
	var out strings.Builder
	for _, d := range []string{"All set. ", "[STEP_", "COMP", "LETE]", " bye"} {
		out.WriteString(f.Push(d))
	}
	out.WriteString(f.Flush())
	assert.Equal(t, "All set.  bye", out.String())
	assert.True(t, f.Seen())

	var plain onboarding.MarkerFilter
	assert.Equal(t, "a ", plain.Push("a ["))
	assert.Equal(t, "[x]", plain.Push("x]"))
	assert.Equal(t, "", plain.Flush())
	assert.False(t, plain.Seen())
}
