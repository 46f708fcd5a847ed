package onboarding

import "strings"

// MarkerFilter removes the completion marker from a stream of deltas. Text
// that could be the start of a split marker is held back until the next
// delta disambiguates it.
type MarkerFilter struct {
	pending string
	seen    bool
}

func (f *MarkerFilter) Push(delta string) string {
	buf := f.pending + delta
	f.pending = ""

	if strings.Contains(buf, CompletionMarker) {
		f.seen = true
		buf = strings.ReplaceAll(buf, CompletionMarker, "")
	}
	for n := min(len(CompletionMarker)-1, len(buf)); n > 0; n-- {
		if strings.HasSuffix(buf, CompletionMarker[:n]) {
			f.pending = buf[len(buf)-n:]
			return buf[:len(buf)-n]
		}
	}
	return buf
}

// Flush returns any held-back text once the stream has ended.
func (f *MarkerFilter) Flush() string {
	out := f.pending
	f.pending = ""
	return out
}

// Seen reports whether the marker appeared in the stream.
func (f *MarkerFilter) Seen() bool { return f.seen }
