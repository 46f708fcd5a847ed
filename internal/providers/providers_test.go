package providers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brand-studio-backend/internal/providers"
)

func TestVendorErrorMessage(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"error":{"message":"Rate limited"}}`, "Rate limited"},
		{`{"error":"quota exceeded"}`, "quota exceeded"},
		{`{"message":"bad prompt"}`, "bad prompt"},
		{`{"error":{"code":"x"}}`, "API error: 500"},
		{`<html>oops</html>`, "API error: 500"},
		{``, "API error: 500"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, providers.VendorErrorMessage(500, []byte(tc.body)), tc.body)
	}
}

func TestOpenAIVideo_GenerateRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limited"}}`))
	}))
	defer server.Close()

	res := providers.NewOpenAIVideo(server.URL).GenerateVideo(context.Background(), "sk", providers.VideoRequest{Prompt: "waves"})
	assert.Equal(t, providers.StatusError, res.Status)
	assert.Equal(t, "Rate limited", res.Error)
}

func TestOpenAIVideo_GenerateAndPoll(t *testing.T) {
	var submitted map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/videos":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
			_, _ = w.Write([]byte(`{"id":"video_1","status":"queued","progress":0}`))
		case r.Method == http.MethodGet && r.URL.Path == "/videos/video_1":
			_, _ = w.Write([]byte(`{"id":"video_1","status":"completed","progress":100}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	p := providers.NewOpenAIVideo(server.URL)
	res := p.GenerateVideo(context.Background(), "sk", providers.VideoRequest{Prompt: "waves", Duration: 4, AspectRatio: "9:16"})
	assert.Equal(t, providers.StatusQueued, res.Status)
	assert.Equal(t, "video_1", res.ProviderJobID)
	assert.Equal(t, "sora-2", submitted["model"])
	assert.Equal(t, "4", submitted["seconds"])
	assert.Equal(t, "720x1280", submitted["size"])

	res = p.GetStatus(context.Background(), "sk", "video_1")
	assert.Equal(t, providers.StatusComplete, res.Status)
	assert.Equal(t, 100, res.Progress)
	assert.Equal(t, server.URL+"/videos/video_1/content", res.VideoURL)
}

func TestOpenAIVideo_PlanRoundsSecondsAndFallsBack(t *testing.T) {
	p := providers.NewOpenAIVideo("")
	cases := []struct {
		req  providers.VideoRequest
		want providers.VideoPlan
	}{
		{providers.VideoRequest{}, providers.VideoPlan{Model: "sora-2", Seconds: 4, Size: "1280x720"}},
		{providers.VideoRequest{Duration: 6}, providers.VideoPlan{Model: "sora-2", Seconds: 4, Size: "1280x720"}},
		{providers.VideoRequest{Duration: 7}, providers.VideoPlan{Model: "sora-2", Seconds: 8, Size: "1280x720"}},
		{providers.VideoRequest{Duration: 10, AspectRatio: "9:16"}, providers.VideoPlan{Model: "sora-2", Seconds: 8, Size: "720x1280"}},
		{providers.VideoRequest{Duration: 12, AspectRatio: "1:1"}, providers.VideoPlan{Model: "sora-2", Seconds: 12, Size: "1280x720"}},
		{providers.VideoRequest{Resolution: "1080p"}, providers.VideoPlan{Model: "sora-2", Seconds: 4, Size: "1280x720"}},
		{providers.VideoRequest{Model: "sora-2-pro", Resolution: "1080p", AspectRatio: "9:16"}, providers.VideoPlan{Model: "sora-2-pro", Seconds: 4, Size: "1024x1792"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.Plan(tc.req), "%+v", tc.req)
	}
}

func TestOpenAIVideo_GenerateSendsPlan(t *testing.T) {
	var submitted map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
		_, _ = w.Write([]byte(`{"id":"video_2","status":"in_progress","progress":5}`))
	}))
	defer server.Close()

	res := providers.NewOpenAIVideo(server.URL).GenerateVideo(context.Background(), "sk", providers.VideoRequest{
		Prompt:      "waves",
		Duration:    10,
		AspectRatio: "4:3",
		Resolution:  "4k",
	})
	assert.Equal(t, providers.StatusProcessing, res.Status)
	assert.Equal(t, "8", submitted["seconds"])
	assert.Equal(t, "1280x720", submitted["size"])
}

func TestOpenAIVideo_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	res := providers.NewOpenAIVideo(url).GetStatus(context.Background(), "sk", "video_1")
	assert.Equal(t, providers.StatusError, res.Status)
	assert.NotEmpty(t, res.Error)
}

func TestWaveSpeed_SubmitAndResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/wavespeed-ai/wan-2.2/t2v-720p":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "1280*720", body["size"])
			_, _ = w.Write([]byte(`{"code":200,"message":"success","data":{"id":"pred_1","status":"created","outputs":[]}}`))
		case "/api/v3/predictions/pred_1/result":
			_, _ = w.Write([]byte(`{"code":200,"message":"success","data":{"id":"pred_1","status":"completed","outputs":["https://cdn.example.com/out.mp4"]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	p := providers.NewWaveSpeed(server.URL)
	res := p.GenerateVideo(context.Background(), "ws", providers.VideoRequest{Prompt: "waves"})
	assert.Equal(t, providers.StatusQueued, res.Status)
	assert.Equal(t, "pred_1", res.ProviderJobID)

	res = p.GetStatus(context.Background(), "ws", "pred_1")
	assert.Equal(t, providers.StatusComplete, res.Status)
	assert.Equal(t, "https://cdn.example.com/out.mp4", res.VideoURL)
	assert.Equal(t, 100, res.Progress)
}

func TestWaveSpeed_Plan(t *testing.T) {
	p := providers.NewWaveSpeed("")
	cases := []struct {
		req  providers.VideoRequest
		want providers.VideoPlan
	}{
		{providers.VideoRequest{Duration: 3}, providers.VideoPlan{Model: "wavespeed-ai/wan-2.2/t2v-720p", Seconds: 5, Size: "1280*720"}},
		{providers.VideoRequest{Duration: 5, AspectRatio: "9:16"}, providers.VideoPlan{Model: "wavespeed-ai/wan-2.2/t2v-720p", Seconds: 5, Size: "720*1280"}},
		{providers.VideoRequest{Duration: 7, AspectRatio: "1:1"}, providers.VideoPlan{Model: "wavespeed-ai/wan-2.2/t2v-720p", Seconds: 8, Size: "1280*720"}},
		{providers.VideoRequest{Model: "wavespeed-ai/wan-2.2/t2v-480p", Resolution: "1080p"}, providers.VideoPlan{Model: "wavespeed-ai/wan-2.2/t2v-480p", Seconds: 5, Size: "832*480"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.Plan(tc.req), "%+v", tc.req)
	}
}

func TestStatusRank(t *testing.T) {
	assert.Less(t, providers.StatusQueued.Rank(), providers.StatusProcessing.Rank())
	assert.Less(t, providers.StatusProcessing.Rank(), providers.StatusComplete.Rank())
	assert.Equal(t, providers.StatusComplete.Rank(), providers.StatusError.Rank())
	assert.Equal(t, 0, providers.Status("").Rank())
}

func TestWaveSpeed_FailedPrediction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{"id":"pred_2","status":"failed","error":"NSFW content detected"}}`))
	}))
	defer server.Close()

	res := providers.NewWaveSpeed(server.URL).GetStatus(context.Background(), "ws", "pred_2")
	assert.Equal(t, providers.StatusError, res.Status)
	assert.Equal(t, "NSFW content detected", res.Error)
}

func TestRegistry(t *testing.T) {
	r := providers.NewRegistry(providers.NewOpenAIVideo(""), providers.NewWaveSpeed(""))
	p, ok := r.Get(" OpenAI ")
	require.True(t, ok)
	assert.Equal(t, "openai", p.Name())
	_, ok = r.Get("runway")
	assert.False(t, ok)
	assert.Equal(t, []string{"openai", "wavespeed"}, r.Names())

	m, ok := providers.FindModel(p, "sora-2-pro")
	require.True(t, ok)
	assert.Equal(t, []string{"720p", "1080p"}, m.SupportedResolutions)
	assert.Equal(t, []string{"16:9", "9:16"}, m.SupportedAspectRatios)
}
