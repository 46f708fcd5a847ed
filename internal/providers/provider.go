// Package providers adapts third-party video generation APIs to one status
// and model contract.
package providers

import (
	"context"
	"sort"
	"strings"
)

// Status is the provider-neutral job state. Jobs move queued, processing,
// then complete or error.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// Rank orders statuses along the lifecycle; unknown values rank lowest.
func (s Status) Rank() int {
	switch s {
	case StatusQueued:
		return 1
	case StatusProcessing:
		return 2
	case StatusComplete, StatusError:
		return 3
	default:
		return 0
	}
}

type VideoRequest struct {
	Prompt      string
	Model       string
	Duration    int
	AspectRatio string
	Resolution  string
}

// VideoPlan is what an adapter actually sends for a request. Seconds is
// the clip length the vendor renders and bills; Size is the resolved vendor
// size, after any fallback for unsupported aspect ratios or resolutions.
type VideoPlan struct {
	Model   string `json:"model"`
	Seconds int    `json:"seconds"`
	Size    string `json:"size"`
}

// VideoResult is what every adapter call returns. Failures are folded into
// Status error with a readable Error rather than returned as Go errors.
type VideoResult struct {
	Status        Status `json:"status"`
	ProviderJobID string `json:"providerJobId,omitempty"`
	VideoURL      string `json:"videoUrl,omitempty"`
	Progress      int    `json:"progress"`
	Error         string `json:"error,omitempty"`
}

func failed(msg string) VideoResult {
	if strings.TrimSpace(msg) == "" {
		msg = unknownError
	}
	return VideoResult{Status: StatusError, Error: msg}
}

type Pricing struct {
	PerSecond float64 `json:"perSecond"`
}

type Model struct {
	ID                    string   `json:"id"`
	DisplayName           string   `json:"displayName"`
	MaxDuration           int      `json:"maxDuration"`
	SupportedAspectRatios []string `json:"supportedAspectRatios"`
	SupportedResolutions  []string `json:"supportedResolutions"`
	Pricing               Pricing  `json:"pricing"`
}

type VideoProvider interface {
	Name() string
	DefaultModel() string
	Plan(req VideoRequest) VideoPlan
	GenerateVideo(ctx context.Context, apiKey string, req VideoRequest) VideoResult
	GetStatus(ctx context.Context, apiKey, jobID string) VideoResult
	DownloadVideo(ctx context.Context, apiKey, url string) ([]byte, error)
	AvailableModels() []Model
}

// FindModel looks up a model by id in a provider's catalogue.
func FindModel(p VideoProvider, id string) (Model, bool) {
	for _, m := range p.AvailableModels() {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// Registry holds the configured providers keyed by lowercase name.
type Registry struct {
	providers map[string]VideoProvider
}

func NewRegistry(providers ...VideoProvider) *Registry {
	r := &Registry{providers: make(map[string]VideoProvider, len(providers))}
	for _, p := range providers {
		r.providers[strings.ToLower(p.Name())] = p
	}
	return r
}

func (r *Registry) Get(name string) (VideoProvider, bool) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
