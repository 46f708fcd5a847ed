package providers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

const (
	soraModel    = "sora-2"
	soraProModel = "sora-2-pro"
)

type soraStatus string

const (
	soraQueued     soraStatus = "queued"
	soraInProgress soraStatus = "in_progress"
	soraCompleted  soraStatus = "completed"
	soraFailed     soraStatus = "failed"
	soraCancelled  soraStatus = "cancelled"
)

var soraStatuses = map[soraStatus]Status{
	soraQueued:     StatusQueued,
	soraInProgress: StatusProcessing,
	soraCompleted:  StatusComplete,
	soraFailed:     StatusError,
	soraCancelled:  StatusError,
}

// mapSoraStatus treats unrecognised states as still processing; the poll
// bound ends jobs that never leave them.
func mapSoraStatus(s string) Status {
	if st, ok := soraStatuses[soraStatus(strings.ToLower(s))]; ok {
		return st
	}
	return StatusProcessing
}

var soraSizes = map[string]sizeTable{
	soraModel: {
		sizes: map[string]map[string]string{
			"720p": {"16:9": "1280x720", "9:16": "720x1280"},
		},
		fallback: "1280x720",
	},
	soraProModel: {
		sizes: map[string]map[string]string{
			"720p":  {"16:9": "1280x720", "9:16": "720x1280"},
			"1080p": {"16:9": "1792x1024", "9:16": "1024x1792"},
		},
		fallback: "1280x720",
	},
}

var soraPricing = map[string]float64{
	soraModel:    0.10,
	soraProModel: 0.30,
}

// soraSeconds are the clip lengths the API accepts.
var soraSeconds = []int{4, 8, 12}

// OpenAIVideo talks to the OpenAI videos endpoint (Sora).
type OpenAIVideo struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIVideo(baseURL string) *OpenAIVideo {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIVideo{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: newHTTPClient()}
}

func (p *OpenAIVideo) Name() string { return "openai" }

func (p *OpenAIVideo) DefaultModel() string { return soraModel }

type soraVideo struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Error    *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *OpenAIVideo) result(v soraVideo) VideoResult {
	res := VideoResult{
		Status:        mapSoraStatus(v.Status),
		ProviderJobID: v.ID,
		Progress:      v.Progress,
	}
	switch res.Status {
	case StatusComplete:
		res.Progress = 100
		res.VideoURL = p.contentURL(v.ID)
	case StatusError:
		res.Error = unknownError
		if v.Error != nil && v.Error.Message != "" {
			res.Error = v.Error.Message
		}
	}
	return res
}

func (p *OpenAIVideo) contentURL(id string) string {
	return p.baseURL + "/videos/" + id + "/content"
}

// Plan rounds the duration to an allowed clip length and resolves the size.
func (p *OpenAIVideo) Plan(req VideoRequest) VideoPlan {
	model := req.Model
	if model == "" {
		model = soraModel
	}
	return VideoPlan{
		Model:   model,
		Seconds: nearestSeconds(req.Duration),
		Size:    resolveSize(soraSizes, model, req.Resolution, req.AspectRatio, "1280x720"),
	}
}

func (p *OpenAIVideo) GenerateVideo(ctx context.Context, apiKey string, req VideoRequest) VideoResult {
	plan := p.Plan(req)
	body := map[string]string{
		"model":   plan.Model,
		"prompt":  req.Prompt,
		"seconds": strconv.Itoa(plan.Seconds),
		"size":    plan.Size,
	}

	var v soraVideo
	if err := doJSON(ctx, p.httpClient, http.MethodPost, p.baseURL+"/videos", apiKey, body, &v); err != nil {
		return failed(errorMessage(err))
	}
	return p.result(v)
}

func (p *OpenAIVideo) GetStatus(ctx context.Context, apiKey, jobID string) VideoResult {
	var v soraVideo
	if err := doJSON(ctx, p.httpClient, http.MethodGet, p.baseURL+"/videos/"+jobID, apiKey, nil, &v); err != nil {
		return failed(errorMessage(err))
	}
	if v.ID == "" {
		v.ID = jobID
	}
	return p.result(v)
}

// DownloadVideo fetches the rendered clip. The content URL needs the key.
func (p *OpenAIVideo) DownloadVideo(ctx context.Context, apiKey, url string) ([]byte, error) {
	return download(ctx, p.httpClient, url, apiKey)
}

func (p *OpenAIVideo) AvailableModels() []Model {
	return []Model{
		soraCatalogue(soraModel, "Sora 2"),
		soraCatalogue(soraProModel, "Sora 2 Pro"),
	}
}

func soraCatalogue(id, name string) Model {
	t := soraSizes[id]
	return Model{
		ID:                    id,
		DisplayName:           name,
		MaxDuration:           soraSeconds[len(soraSeconds)-1],
		SupportedAspectRatios: t.aspectRatios(),
		SupportedResolutions:  t.resolutions(),
		Pricing:               Pricing{PerSecond: soraPricing[id]},
	}
}

// nearestSeconds rounds a requested duration to the closest allowed length,
// preferring the shorter one on ties.
func nearestSeconds(d int) int {
	best := soraSeconds[0]
	for _, s := range soraSeconds {
		if abs(s-d) < abs(best-d) {
			best = s
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
