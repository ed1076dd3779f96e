// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/sommelier/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/sommelier/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/sommelier/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/sommelier/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/sommelier/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the provider adapters built from settings.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService
}

// Close releases all resources held by the services.
func (s *Services) Close() error {
	var errs []error
	if s.Embedding != nil {
		errs = append(errs, s.Embedding.Close())
	}
	if s.LLM != nil {
		errs = append(errs, s.LLM.Close())
	}
	return errors.Join(errs...)
}

// NewServices creates both provider adapters. Connectivity is not checked;
// the knowledge base degrades on its own when a provider is down.
func NewServices(settings *domain.AppSettings) (*Services, error) {
	embedding, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}

	llm, err := CreateLLMService(&settings.LLM)
	if err != nil {
		embedding.Close()
		return nil, err
	}

	logger.Debug("AI services: embedding=%s/%s llm=%s/%s",
		settings.Embedding.Provider, embedding.ModelName(),
		settings.LLM.Provider, llm.ModelName())

	return &Services{Embedding: embedding, LLM: llm}, nil
}

// CreateEmbeddingService creates the embedding service for the configured
// provider, throttled when RequestsPerSecond is set.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider is not configured", domain.ErrInvalidInput)
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})

	case domain.AIProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})
		if err != nil {
			return nil, err
		}

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use ollama or openai",
			domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedType, settings.Provider)
	}

	if settings.RequestsPerSecond > 0 {
		return NewThrottle(svc, settings.RequestsPerSecond), nil
	}
	return svc, nil
}

// CreateLLMService creates the LLM service for the configured provider.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: LLM provider is not configured", domain.ErrInvalidInput)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// Unset settings are not validated.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || settings.Provider == "" {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	return ping(svc.Ping)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// Unset settings are not validated.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || settings.Provider == "" {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	return ping(svc.Ping)
}

func ping(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	return nil
}
