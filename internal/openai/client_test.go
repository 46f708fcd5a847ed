package openai_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/openai"
)

func TestGenerateImage_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limited","type":"rate_limit"}}`))
	}))
	defer server.Close()

	client := openai.NewClient("sk-test", server.URL, "")
	_, err := client.GenerateImage(context.Background(), openai.ImageRequest{
		Prompt: "a lighthouse", Model: openai.DefaultImageModel, Size: "1024x1024", Quality: "standard",
	})
	require.Error(t, err)
	assert.Equal(t, "Rate limited", openai.ErrorMessage(err))
}

func TestGenerateImage_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[{"url":"https://img.example.com/1.png","revised_prompt":"a tall lighthouse"}]}`))
	}))
	defer server.Close()

	client := openai.NewClient("sk-test", server.URL, "")
	res, err := client.GenerateImage(context.Background(), openai.ImageRequest{Prompt: "a lighthouse", Model: "dall-e-3"})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/1.png", res.URL)
	assert.Equal(t, "a tall lighthouse", res.RevisedPrompt)
}

func TestStreamChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"Hel", "lo"} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := openai.NewClient("sk-test", server.URL, "gpt-4o-mini")
	var deltas []string
	full, err := client.StreamChat(context.Background(), "system", []openai.Message{{Role: "user", Content: "hi"}}, func(d string) error {
		deltas = append(deltas, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", full)
	assert.Equal(t, []string{"Hel", "lo"}, deltas)
}

func TestErrorMessage_Fallbacks(t *testing.T) {
	assert.Equal(t, "", openai.ErrorMessage(nil))
	assert.Equal(t, "dial tcp: refused", openai.ErrorMessage(errors.New("dial tcp: refused")))
	assert.Equal(t, apperr.UnknownMessage, openai.ErrorMessage(errors.New("")))
}
