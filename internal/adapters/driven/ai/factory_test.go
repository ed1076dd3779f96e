package ai

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.EmbeddingSettings
		wantErr   error
		wantModel string
		wantDims  int
		throttled bool
	}{
		{
			name:     "nil settings",
			settings: nil,
			wantErr:  domain.ErrInvalidInput,
		},
		{
			name:     "openai without key",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, Model: "text-embedding-3-small"},
			wantErr:  domain.ErrInvalidInput,
		},
		{
			name:     "anthropic has no embeddings",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k", Model: "m"},
			wantErr:  domain.ErrUnsupportedType,
		},
		{
			name: "ollama with known model",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  domain.DefaultOllamaURL,
				Model:    "nomic-embed-text",
			},
			wantModel: "nomic-embed-text",
			wantDims:  768,
		},
		{
			name:      "ollama with unknown model probes later",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "custom-embed"},
			wantModel: "custom-embed",
			wantDims:  0,
		},
		{
			name: "openai",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "k",
				Model:    "text-embedding-3-large",
			},
			wantModel: "text-embedding-3-large",
			wantDims:  3072,
		},
		{
			name: "throttled",
			settings: &domain.EmbeddingSettings{
				Provider:          domain.AIProviderOllama,
				Model:             "all-minilm",
				RequestsPerSecond: 5,
			},
			wantModel: "all-minilm",
			wantDims:  384,
			throttled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.Equal(t, tt.wantDims, svc.Dimensions())
			_, isThrottle := svc.(*Throttle)
			assert.Equal(t, tt.throttled, isThrottle)
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantErr   bool
		wantModel string
	}{
		{name: "nil settings", settings: nil, wantErr: true},
		{name: "unknown provider", settings: &domain.LLMSettings{Provider: "cohere", Model: "m"}, wantErr: true},
		{name: "anthropic without key", settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic}, wantErr: true},
		{
			name:      "ollama",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "mistral"},
			wantModel: "mistral",
		},
		{
			name:      "openai",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o"},
			wantModel: "gpt-4o",
		},
		{
			name:      "anthropic default model",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantModel: "claude-3-5-sonnet-latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestNewServices(t *testing.T) {
	settings := domain.DefaultAppSettings()

	svcs, err := NewServices(&settings)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultModel, svcs.Embedding.ModelName())
	assert.Equal(t, domain.DefaultModel, svcs.LLM.ModelName())
	assert.NoError(t, svcs.Close())
}

func TestNewServices_InvalidLLM(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOpenAI, Model: "gpt-4o-mini"}

	svcs, err := NewServices(&settings)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, svcs)
}

func TestServices_Close_Empty(t *testing.T) {
	assert.NoError(t, (&Services{}).Close())
}

func TestValidateConfig_Unset(t *testing.T) {
	assert.NoError(t, ValidateEmbeddingConfig(nil))
	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{}))
	assert.NoError(t, ValidateLLMConfig(nil))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{}))
}

func TestValidateConfig_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"all-minilm:latest"},{"name":"llama3.2:latest"}]}`))
	}))
	defer srv.Close()

	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama, BaseURL: srv.URL, Model: "all-minilm",
	}))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOllama, BaseURL: srv.URL, Model: "llama3.2:latest",
	}))
}

func TestValidateConfig_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOpenAI, BaseURL: srv.URL, APIKey: "bad", Model: "gpt-4o-mini",
	})

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestValidateConfig_InvalidSettings(t *testing.T) {
	err := ValidateEmbeddingConfig(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI})

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrProviderUnavailable))
}
