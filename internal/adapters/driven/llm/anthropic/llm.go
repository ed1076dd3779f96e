// Package anthropic answers questions through the Anthropic Messages API.
// Anthropic has no embedding endpoint, so it only serves the generation role.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sommelier/internal/adapters/driven/httpclient"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/logger"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-latest"
	DefaultTimeout = 120 * time.Second

	// defaultMaxTokens is sent when the caller sets no limit; the API requires one.
	defaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"
	stopMaxTokens    = "max_tokens"
	blockText        = "text"
)

// Config configures the service. APIKey is required.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// LLMService sends each prompt as a single user turn.
type LLMService struct {
	client  *httpclient.Client
	baseURL string
	headers map[string]string
	model   string
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature,omitempty"`
	StopSeqs    []string          `json:"stop_sequences,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// text joins the text blocks; tool and other blocks are skipped.
func (r messagesResponse) text() string {
	var b strings.Builder
	for _, block := range r.Content {
		if block.Type == blockText {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// NewLLMService creates the service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client: httpclient.New(httpclient.Options{
			Component: "anthropic-llm",
			Timeout:   cfg.Timeout,
			RetryMax:  cfg.MaxRetries,
		}),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: map[string]string{
			"x-api-key":         cfg.APIKey,
			"anthropic-version": anthropicVersion,
		},
		model: cfg.Model,
	}, nil
}

// Generate returns the text of the reply. An answer cut short by the token
// limit is still returned.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := messagesRequest{
		Model:       s.model,
		Messages:    []messagesMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		StopSeqs:    opts.StopWords,
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}

	var resp messagesResponse
	if err := s.client.PostJSON(ctx, s.baseURL+"/v1/messages", s.headers, req, &resp); err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic: no response content returned")
	}
	if resp.StopReason == stopMaxTokens {
		logger.Warn("Answer from %s was truncated at %d tokens", s.model, req.MaxTokens)
	}
	return resp.text(), nil
}

// ModelName returns the model name.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without spending tokens.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.baseURL+"/v1/models", s.headers); err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
