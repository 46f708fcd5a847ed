package providers

const (
	DefaultResolution  = "720p"
	DefaultAspectRatio = "16:9"
)

// sizeTable maps resolution then aspect ratio to the vendor's size string
// for one model. fallback is used for any combination the table lacks.
type sizeTable struct {
	sizes    map[string]map[string]string
	fallback string
}

// resolve never fails: unknown or unsupported combinations get the model's
// fallback size so a cosmetic parameter cannot block a generation.
func (t sizeTable) resolve(resolution, aspectRatio string) string {
	if resolution == "" {
		resolution = DefaultResolution
	}
	if aspectRatio == "" {
		aspectRatio = DefaultAspectRatio
	}
	if byAspect, ok := t.sizes[resolution]; ok {
		if size, ok := byAspect[aspectRatio]; ok {
			return size
		}
	}
	return t.fallback
}

func (t sizeTable) resolutions() []string {
	out := make([]string, 0, len(t.sizes))
	for _, r := range []string{"480p", "720p", "1080p"} {
		if _, ok := t.sizes[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (t sizeTable) aspectRatios() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range t.resolutions() {
		for _, a := range []string{"16:9", "9:16", "1:1"} {
			if _, ok := t.sizes[r][a]; ok && !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// resolveSize looks the model up in tables, falling back to fallback when
// the model itself is unknown.
func resolveSize(tables map[string]sizeTable, model, resolution, aspectRatio, fallback string) string {
	t, ok := tables[model]
	if !ok {
		return fallback
	}
	return t.resolve(resolution, aspectRatio)
}
