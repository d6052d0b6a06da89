// Package ai generates and reworks mindmaps through an OpenAI-compatible
// chat-completions endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel    = "google/gemini-2.0-flash-exp:free"

	maxTokens   = 1000
	temperature = 0.7
)

var (
	ErrNotConfigured = errors.New("ai service not configured")
	ErrEmptyPrompt   = errors.New("prompt is required")
	ErrNoContent     = errors.New("no content received from AI")
)

// Completer sends one prompt and returns the model's reply
type Completer interface {
	Complete(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// ClientOptions configures an OpenRouterClient
type ClientOptions struct {
	APIKey   string
	Model    string
	Endpoint string
	Referer  string
	Title    string
	Timeout  time.Duration
}

// OpenRouterClient talks to OpenRouter or any OpenAI-compatible endpoint
type OpenRouterClient struct {
	client   *http.Client
	apiKey   string
	model    string
	endpoint string
	referer  string
	title    string
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenRouterClient creates a client, filling unset options with defaults
func NewOpenRouterClient(opts ClientOptions) *OpenRouterClient {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Referer == "" {
		opts.Referer = "http://localhost:3000"
	}
	if opts.Title == "" {
		opts.Title = "marky - AI Mindmap Assistant"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 90 * time.Second
	}

	return &OpenRouterClient{
		client:   &http.Client{Timeout: opts.Timeout},
		apiKey:   strings.TrimSpace(opts.APIKey),
		model:    opts.Model,
		endpoint: opts.Endpoint,
		referer:  opts.Referer,
		title:    opts.Title,
	}
}

// Model returns the configured model name
func (c *OpenRouterClient) Model() string {
	return c.model
}

// Complete posts a system and user message and returns the first choice
func (c *OpenRouterClient) Complete(ctx context.Context, prompt, systemPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if systemPrompt == "" {
		systemPrompt = fallbackSystemPrompt
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.title)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ai request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode ai response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", ErrNoContent
	}
	return parsed.Choices[0].Message.Content, nil
}
