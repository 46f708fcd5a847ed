package providers

import (
	"context"
	"net/http"
	"strings"
)

const (
	wanModel480 = "wavespeed-ai/wan-2.2/t2v-480p"
	wanModel720 = "wavespeed-ai/wan-2.2/t2v-720p"
)

type waveSpeedStatus string

const (
	waveSpeedCreated    waveSpeedStatus = "created"
	waveSpeedProcessing waveSpeedStatus = "processing"
	waveSpeedCompleted  waveSpeedStatus = "completed"
	waveSpeedFailed     waveSpeedStatus = "failed"
)

var waveSpeedStatuses = map[waveSpeedStatus]Status{
	waveSpeedCreated:    StatusQueued,
	waveSpeedProcessing: StatusProcessing,
	waveSpeedCompleted:  StatusComplete,
	waveSpeedFailed:     StatusError,
}

func mapWaveSpeedStatus(s string) Status {
	if st, ok := waveSpeedStatuses[waveSpeedStatus(strings.ToLower(s))]; ok {
		return st
	}
	return StatusProcessing
}

// WaveSpeed sizes use "W*H".
var waveSpeedSizes = map[string]sizeTable{
	wanModel480: {
		sizes: map[string]map[string]string{
			"480p": {"16:9": "832*480", "9:16": "480*832"},
		},
		fallback: "832*480",
	},
	wanModel720: {
		sizes: map[string]map[string]string{
			"720p": {"16:9": "1280*720", "9:16": "720*1280"},
		},
		fallback: "1280*720",
	},
}

var waveSpeedPricing = map[string]float64{
	wanModel480: 0.03,
	wanModel720: 0.06,
}

// waveSpeedProgress stands in for a progress figure the API does not report.
var waveSpeedProgress = map[Status]int{
	StatusQueued:     0,
	StatusProcessing: 50,
	StatusComplete:   100,
	StatusError:      0,
}

type WaveSpeed struct {
	baseURL    string
	httpClient *http.Client
}

func NewWaveSpeed(baseURL string) *WaveSpeed {
	if baseURL == "" {
		baseURL = "https://api.wavespeed.ai"
	}
	return &WaveSpeed{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: newHTTPClient()}
}

func (p *WaveSpeed) Name() string { return "wavespeed" }

func (p *WaveSpeed) DefaultModel() string { return wanModel720 }

type waveSpeedPrediction struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		ID      string   `json:"id"`
		Status  string   `json:"status"`
		Outputs []string `json:"outputs"`
		Error   string   `json:"error"`
	} `json:"data"`
}

func (p *WaveSpeed) result(pred waveSpeedPrediction) VideoResult {
	status := mapWaveSpeedStatus(pred.Data.Status)
	res := VideoResult{
		Status:        status,
		ProviderJobID: pred.Data.ID,
		Progress:      waveSpeedProgress[status],
	}
	switch status {
	case StatusComplete:
		if len(pred.Data.Outputs) == 0 {
			return failed("completed without an output video")
		}
		res.VideoURL = pred.Data.Outputs[0]
	case StatusError:
		res.Error = pred.Data.Error
		if res.Error == "" {
			res.Error = unknownError
		}
	}
	return res
}

// Plan picks the 5 or 8 second clip the model renders and resolves the size.
func (p *WaveSpeed) Plan(req VideoRequest) VideoPlan {
	model := req.Model
	if model == "" {
		model = p.DefaultModel()
	}
	seconds := 5
	if req.Duration > 5 {
		seconds = 8
	}
	return VideoPlan{
		Model:   model,
		Seconds: seconds,
		Size:    resolveSize(waveSpeedSizes, model, req.Resolution, req.AspectRatio, "1280*720"),
	}
}

func (p *WaveSpeed) GenerateVideo(ctx context.Context, apiKey string, req VideoRequest) VideoResult {
	plan := p.Plan(req)
	body := map[string]any{
		"prompt":   req.Prompt,
		"size":     plan.Size,
		"duration": plan.Seconds,
		"seed":     -1,
	}

	var pred waveSpeedPrediction
	if err := doJSON(ctx, p.httpClient, http.MethodPost, p.baseURL+"/api/v3/"+plan.Model, apiKey, body, &pred); err != nil {
		return failed(errorMessage(err))
	}
	if pred.Data.ID == "" {
		return failed(pred.Message)
	}
	return p.result(pred)
}

func (p *WaveSpeed) GetStatus(ctx context.Context, apiKey, jobID string) VideoResult {
	var pred waveSpeedPrediction
	url := p.baseURL + "/api/v3/predictions/" + jobID + "/result"
	if err := doJSON(ctx, p.httpClient, http.MethodGet, url, apiKey, nil, &pred); err != nil {
		return failed(errorMessage(err))
	}
	if pred.Data.ID == "" {
		pred.Data.ID = jobID
	}
	return p.result(pred)
}

// DownloadVideo fetches a CDN output URL. Output URLs are public, so the key
// is not sent.
func (p *WaveSpeed) DownloadVideo(ctx context.Context, _ string, url string) ([]byte, error) {
	return download(ctx, p.httpClient, url, "")
}

func (p *WaveSpeed) AvailableModels() []Model {
	models := make([]Model, 0, 2)
	for _, m := range []struct{ id, name string }{
		{wanModel480, "Wan 2.2 (480p)"},
		{wanModel720, "Wan 2.2 (720p)"},
	} {
		t := waveSpeedSizes[m.id]
		models = append(models, Model{
			ID:                    m.id,
			DisplayName:           m.name,
			MaxDuration:           8,
			SupportedAspectRatios: t.aspectRatios(),
			SupportedResolutions:  t.resolutions(),
			Pricing:               Pricing{PerSecond: waveSpeedPricing[m.id]},
		})
	}
	return models
}
