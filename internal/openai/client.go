// Package openai wraps go-openai for chat, image and speech generation.
// A Client is bound to one API key; callers build one per resolved key.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"brand-studio-backend/internal/apperr"
)

const (
	DefaultImageModel  = openai.CreateImageModelDallE3
	DefaultSpeechModel = string(openai.TTSModel1)
	DefaultVoice       = string(openai.VoiceAlloy)
)

type Message struct {
	Role    string
	Content string
}

type Client struct {
	api       *openai.Client
	chatModel string
}

func NewClient(apiKey, baseURL, chatModel string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	return &Client{api: openai.NewClientWithConfig(cfg), chatModel: chatModel}
}

func chatMessages(system string, messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// StreamChat streams a chat completion, calling onDelta for each content
// chunk, and returns the full text. An error from onDelta stops the stream.
func (c *Client) StreamChat(ctx context.Context, system string, messages []Message, onDelta func(string) error) (string, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    chatMessages(system, messages),
		Temperature: 0.7,
		Stream:      true,
	})
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return full.String(), nil
		}
		if err != nil {
			return full.String(), err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if err := onDelta(delta); err != nil {
			return full.String(), err
		}
	}
}

// Complete runs a single non-streaming completion at low temperature.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    chatMessages(system, []Message{{Role: openai.ChatMessageRoleUser, Content: prompt}}),
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type ImageRequest struct {
	Prompt  string
	Model   string
	Size    string
	Quality string
	Style   string
}

type ImageResult struct {
	URL           string
	B64JSON       string
	RevisedPrompt string
}

func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	imgReq := openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          req.Model,
		N:              1,
		Size:           req.Size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	}
	// dall-e-2 rejects quality and style.
	if req.Model == openai.CreateImageModelDallE3 {
		imgReq.Quality = req.Quality
		imgReq.Style = req.Style
	}

	resp, err := c.api.CreateImage(ctx, imgReq)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai returned no images")
	}
	return &ImageResult{
		URL:           resp.Data[0].URL,
		B64JSON:       resp.Data[0].B64JSON,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

type SpeechRequest struct {
	Text  string
	Model string
	Voice string
	Speed float64
}

// GenerateSpeech returns mp3 audio.
func (c *Client) GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(req.Model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(req.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          req.Speed,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech: %w", err)
	}
	return data, nil
}

// ErrorMessage extracts the message a user should see from a go-openai
// error: the vendor's own message when present, else "API error: <status>".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("API error: %d", apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return fmt.Sprintf("API error: %d", reqErr.HTTPStatusCode)
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return apperr.UnknownMessage
}
