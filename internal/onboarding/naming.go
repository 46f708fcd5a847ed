package onboarding

import (
	"regexp"
	"strings"
)

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?i:called|named)\s+["“']?([A-Z0-9][\w&'.-]*(?:\s+[A-Z0-9][\w&'.-]*){0,3})`),
	regexp.MustCompile(`\b(?i:brand|company|business|startup)(?:'s)?\s+(?i:name\s+)?(?i:is)\s+["“']?([A-Z0-9][\w&'.-]*(?:\s+[A-Z0-9][\w&'.-]*){0,3})`),
}

// GuessBrandName pulls a likely brand name out of a free-text message. It is
// a provisional label only; callers skip it once the name is confirmed.
func GuessBrandName(message string) (string, bool) {
	for _, p := range namePatterns {
		m := p.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		name := strings.Trim(strings.TrimSpace(m[1]), `"”'.,!?`)
		if name == "" || len(name) > 60 {
			continue
		}
		return name, true
	}
	return "", false
}
