// Package ollama embeds chunks and questions with a local Ollama model.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sommelier/internal/adapters/driven/httpclient"
	"github.com/custodia-labs/sommelier/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL = domain.DefaultOllamaURL
	DefaultModel   = domain.DefaultModel
	DefaultTimeout = 60 * time.Second
)

// Config configures the service. Zero values use the defaults above.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions is the embedding vector size. Zero means learn it from
	// the first response.
	Dimensions int

	// MaxRetries is the number of retries on transient failures.
	// Zero uses the client default, a negative value disables retries.
	MaxRetries int
}

// EmbeddingService generates embeddings using Ollama's /api/embed endpoint,
// which accepts a batch of inputs per request.
type EmbeddingService struct {
	client     *httpclient.Client
	baseURL    string
	model      string
	dimensions atomic.Int64
}

// embedRequest is the Ollama /api/embed request format.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embedResponse is the Ollama /api/embed response format.
type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &EmbeddingService{
		client: httpclient.New(httpclient.Options{
			Component: "ollama-embedding",
			Timeout:   cfg.Timeout,
			RetryMax:  cfg.MaxRetries,
		}),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
	s.dimensions.Store(int64(cfg.Dimensions))
	return s
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	err := s.client.PostJSON(ctx, s.baseURL+"/api/embed", nil, embedRequest{
		Model: s.model,
		Input: texts,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float32, len(resp.Embeddings))
	for i, values := range resp.Embeddings {
		if len(values) == 0 {
			return nil, fmt.Errorf("ollama embed: empty embedding for input %d", i)
		}
		embeddings[i] = toFloat32(values)
	}

	s.dimensions.CompareAndSwap(0, int64(len(embeddings[0])))
	return embeddings, nil
}

// Dimensions returns the embedding vector size, or 0 before the first
// response when it was not configured.
func (s *EmbeddingService) Dimensions() int {
	return int(s.dimensions.Load())
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks that Ollama is up and has the model pulled.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := ollamaapi.RequireModel(ctx, s.client, s.baseURL, s.model); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
