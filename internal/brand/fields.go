// Package brand holds the closed registry of brand profile fields and the
// codec that moves their values in and out of TEXT columns.
package brand

type Kind string

const (
	KindText   Kind = "text"
	KindArray  Kind = "array"
	KindObject Kind = "object"
)

// NameField is the brand's display name. Writing it confirms the name.
const NameField = "brandName"

type Field struct {
	Name   string
	Column string
	Kind   Kind
	Label  string
}

var fields = []Field{
	{Name: "brandName", Column: "brand_name", Kind: KindText, Label: "Brand name"},
	{Name: "tagline", Column: "tagline", Kind: KindText, Label: "Tagline"},
	{Name: "mission", Column: "mission", Kind: KindText, Label: "Mission"},
	{Name: "vision", Column: "vision", Kind: KindText, Label: "Vision"},
	{Name: "brandStory", Column: "brand_story", Kind: KindText, Label: "Brand story"},
	{Name: "industry", Column: "industry", Kind: KindText, Label: "Industry"},
	{Name: "coreValues", Column: "core_values", Kind: KindArray, Label: "Core values"},
	{Name: "personalityTraits", Column: "personality_traits", Kind: KindArray, Label: "Personality traits"},
	{Name: "brandArchetype", Column: "brand_archetype", Kind: KindText, Label: "Brand archetype"},
	{Name: "targetAudience", Column: "target_audience", Kind: KindText, Label: "Target audience"},
	{Name: "audiencePersonas", Column: "audience_personas", Kind: KindArray, Label: "Audience personas"},
	{Name: "painPoints", Column: "pain_points", Kind: KindArray, Label: "Customer pain points"},
	{Name: "competitors", Column: "competitors", Kind: KindArray, Label: "Competitors"},
	{Name: "uniqueValueProposition", Column: "unique_value_proposition", Kind: KindText, Label: "Unique value proposition"},
	{Name: "toneOfVoice", Column: "tone_of_voice", Kind: KindText, Label: "Tone of voice"},
	{Name: "voiceGuidelines", Column: "voice_guidelines", Kind: KindObject, Label: "Voice guidelines"},
	{Name: "keyMessages", Column: "key_messages", Kind: KindArray, Label: "Key messages"},
	{Name: "elevatorPitch", Column: "elevator_pitch", Kind: KindText, Label: "Elevator pitch"},
	{Name: "colorPalette", Column: "color_palette", Kind: KindArray, Label: "Color palette"},
	{Name: "typography", Column: "typography", Kind: KindObject, Label: "Typography"},
	{Name: "logoDescription", Column: "logo_description", Kind: KindText, Label: "Logo description"},
	{Name: "visualStyle", Column: "visual_style", Kind: KindText, Label: "Visual style"},
	{Name: "imageryStyle", Column: "imagery_style", Kind: KindText, Label: "Imagery style"},
	{Name: "socialHandles", Column: "social_handles", Kind: KindObject, Label: "Social handles"},
	{Name: "website", Column: "website", Kind: KindText, Label: "Website"},
}

var byName = func() map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}()

// Fields returns the registry in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

func Lookup(name string) (Field, bool) {
	f, ok := byName[name]
	return f, ok
}

func IsKnown(name string) bool {
	_, ok := byName[name]
	return ok
}

// Columns lists every field column, in registry order.
func Columns() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Column
	}
	return out
}
