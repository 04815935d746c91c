// Package ai wraps the two external model dependencies behind small
// interfaces: a text-completion client and a speech-transcription client.
//
// Both are opaque from the application's point of view — prompt in, text
// out; audio in, transcript out. Handlers and services depend on the
// interfaces, so tests stub them with canned replies and call counters
// instead of touching the network.
package ai

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// ErrUnavailable is returned when a model integration is not configured.
var ErrUnavailable = errors.New("ai: model integration is not configured")

// Completer produces a free-text completion for a prompt.
// Non-deterministic and network-dependent; callers decide how to interpret
// the text that comes back.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Transcriber produces a best-effort transcript for spoken audio.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Client talks to an OpenAI-compatible API.
//
// The same type backs both interfaces: chat completions for text, the
// /audio/transcriptions endpoint for speech. The base URL is configurable,
// so transcription can point at a local faster-whisper server (which speaks
// the same API) while completions go to a hosted model.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a Client for the given API endpoint and model.
// Returns a disabled client if apiKey is empty; calls then fail with
// ErrUnavailable rather than panicking at startup.
func NewClient(apiKey, endpoint, model string) *Client {
	if apiKey == "" {
		return &Client{}
	}

	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *Client) disabled() bool {
	return c.client == nil || c.model == ""
}

var (
	_ Completer   = (*Client)(nil)
	_ Transcriber = (*Client)(nil)
)

// Complete sends the prompt as a single user message and returns the raw
// completion text. No retries, no timeout beyond the request context — a
// hang upstream hangs the request.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.disabled() {
		return "", ErrUnavailable
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: requesting completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ai: model returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Transcribe uploads the audio and returns the transcript text.
// filename matters: the server uses its extension to pick a decoder.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if c.disabled() {
		return "", ErrUnavailable
	}

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("ai: requesting transcription: %w", err)
	}

	return resp.Text, nil
}
