// Package ollama answers questions with a model served by a local Ollama.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sommelier/internal/adapters/driven/httpclient"
	"github.com/custodia-labs/sommelier/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/logger"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = domain.DefaultOllamaURL
	DefaultLLMModel   = domain.DefaultModel
	DefaultLLMTimeout = 120 * time.Second

	// doneLength is the done_reason reported when num_predict cut the answer.
	doneLength = "length"
)

// LLMConfig configures the service. Zero values use the defaults above.
type LLMConfig struct {
	BaseURL string
	Model   string

	// Timeout bounds one attempt; local models can be slow on first load.
	Timeout    time.Duration
	MaxRetries int
}

// LLMService calls /api/generate without streaming.
type LLMService struct {
	client  *httpclient.Client
	baseURL string
	model   string
}

type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`
}

// NewLLMService creates the service. No request is made until Generate or Ping.
func NewLLMService(cfg LLMConfig) *LLMService {
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
			Component: "ollama-llm",
			Timeout:   cfg.Timeout,
			RetryMax:  cfg.MaxRetries,
		}),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
}

// Generate returns the model's answer verbatim. An answer cut short by
// MaxTokens is still returned.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := generateRequest{Model: s.model, Prompt: prompt}
	if opts.MaxTokens > 0 || opts.Temperature > 0 || len(opts.StopWords) > 0 {
		req.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		}
	}

	var resp generateResponse
	if err := s.client.PostJSON(ctx, s.baseURL+"/api/generate", nil, req, &resp); err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if resp.DoneReason == doneLength {
		logger.Warn("Answer from %s was truncated at %d tokens", s.model, opts.MaxTokens)
	}
	return resp.Response, nil
}

// ModelName returns the model name.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks that Ollama is up and has the model pulled.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := ollamaapi.RequireModel(ctx, s.client, s.baseURL, s.model); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
