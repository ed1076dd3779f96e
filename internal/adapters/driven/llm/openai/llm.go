// Package openai answers questions through the OpenAI chat completions API
// or any gateway that speaks it.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sommelier/internal/adapters/driven/httpclient"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/logger"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// Finish reasons that need handling; "stop" is the normal case.
const (
	finishLength        = "length"
	finishContentFilter = "content_filter"
)

// ErrContentFiltered is returned when the provider withheld the answer.
var ErrContentFiltered = errors.New("answer withheld by content filter")

// LLMConfig configures the service. APIKey is required.
type LLMConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// LLMService sends each prompt as a single user message.
type LLMService struct {
	client  *httpclient.Client
	baseURL string
	headers map[string]string
	model   string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// NewLLMService creates the service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: httpclient.New(httpclient.Options{
			Component: "openai-llm",
			Timeout:   cfg.Timeout,
			RetryMax:  cfg.MaxRetries,
		}),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: map[string]string{"Authorization": "Bearer " + cfg.APIKey},
		model:   cfg.Model,
	}, nil
}

// Generate returns the first choice. A truncated answer is returned with a
// warning; a filtered one is an error.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Stop:        opts.StopWords,
	}

	var resp chatResponse
	if err := s.client.PostJSON(ctx, s.baseURL+"/chat/completions", s.headers, req, &resp); err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	choice := resp.Choices[0]
	switch choice.FinishReason {
	case finishContentFilter:
		return "", fmt.Errorf("openai: %w", ErrContentFiltered)
	case finishLength:
		logger.Warn("Answer from %s was truncated at %d tokens", s.model, opts.MaxTokens)
	}
	return choice.Message.Content, nil
}

// ModelName returns the model name.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping fetches the model, which checks the key and that the model exists.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.baseURL+"/models/"+s.model, s.headers); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
