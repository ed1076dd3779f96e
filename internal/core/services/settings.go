package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider   = "embedding.provider"
	KeyEmbedModel      = "embedding.model"
	KeyEmbedBaseURL    = "embedding.base_url"
	KeyEmbedAPIKey     = "embedding.api_key"
	KeyEmbedRPS        = "embedding.requests_per_second"
	KeyLLMProvider     = "llm.provider"
	KeyLLMModel        = "llm.model"
	KeyLLMBaseURL      = "llm.base_url"
	KeyLLMAPIKey       = "llm.api_key"
	KeyLLMTemperature  = "llm.temperature"
	KeyLLMMaxTokens    = "llm.max_tokens"
	KeyStorePath       = "store.path"
	KeyStoreCollection = "store.collection"
	KeyChunkSize       = "chunker.chunk_size"
	KeyChunkOverlap    = "chunker.overlap"
	KeyIngestMode      = "ingest.mode"
	KeyIngestBatchSize = "ingest.batch_size"
	KeyIngestWorkers   = "ingest.concurrency"
	KeyPromptsDir      = "prompts.dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	validate    *validator.Validate
}

// NewSettingsService creates a new settings service.
// aiValidator is optional; without it connectivity checks are skipped.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Get retrieves current application settings, filling gaps with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(KeyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.getString(KeyEmbedBaseURL, ""),
			APIKey:            s.configStore.GetString(KeyEmbedAPIKey),
			RequestsPerSecond: s.configStore.GetFloat(KeyEmbedRPS),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(KeyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL:  s.getString(KeyLLMBaseURL, ""),
			APIKey:   s.configStore.GetString(KeyLLMAPIKey),

			Temperature: s.configStore.GetFloat(KeyLLMTemperature),
			MaxTokens:   s.configStore.GetInt(KeyLLMMaxTokens),
		},
		Store: domain.StoreSettings{
			Path:       s.configStore.GetString(KeyStorePath),
			Collection: s.getString(KeyStoreCollection, defaults.Store.Collection),
		},
		Chunker: domain.ChunkerSettings{
			ChunkSize: s.getInt(KeyChunkSize, defaults.Chunker.ChunkSize),
			Overlap:   s.getIntAllowZero(KeyChunkOverlap, defaults.Chunker.Overlap),
		},
		Ingest: domain.IngestSettings{
			Mode:        s.getIngestMode(defaults.Ingest.Mode),
			BatchSize:   s.getInt(KeyIngestBatchSize, defaults.Ingest.BatchSize),
			Concurrency: s.getInt(KeyIngestWorkers, defaults.Ingest.Concurrency),
		},
		PromptsDir: s.configStore.GetString(KeyPromptsDir),
	}

	// Local providers need a base URL; cloud providers use their own endpoint.
	if settings.Embedding.Provider.IsLocal() && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = domain.DefaultOllamaURL
	}
	if settings.LLM.Provider.IsLocal() && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = domain.DefaultOllamaURL
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		skip  bool
	}{
		{KeyEmbedProvider, string(settings.Embedding.Provider), false},
		{KeyEmbedModel, settings.Embedding.Model, false},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL, false},
		{KeyEmbedAPIKey, settings.Embedding.APIKey, settings.Embedding.APIKey == ""},
		{KeyEmbedRPS, settings.Embedding.RequestsPerSecond, settings.Embedding.RequestsPerSecond == 0},
		{KeyLLMProvider, string(settings.LLM.Provider), false},
		{KeyLLMModel, settings.LLM.Model, false},
		{KeyLLMBaseURL, settings.LLM.BaseURL, false},
		{KeyLLMAPIKey, settings.LLM.APIKey, settings.LLM.APIKey == ""},
		{KeyLLMTemperature, settings.LLM.Temperature, settings.LLM.Temperature == 0},
		{KeyLLMMaxTokens, settings.LLM.MaxTokens, settings.LLM.MaxTokens == 0},
		{KeyStorePath, settings.Store.Path, settings.Store.Path == ""},
		{KeyStoreCollection, settings.Store.Collection, false},
		{KeyChunkSize, settings.Chunker.ChunkSize, false},
		{KeyChunkOverlap, settings.Chunker.Overlap, false},
		{KeyIngestMode, settings.Ingest.Mode.String(), false},
		{KeyIngestBatchSize, settings.Ingest.BatchSize, false},
		{KeyIngestWorkers, settings.Ingest.Concurrency, false},
		{KeyPromptsDir, settings.PromptsDir, settings.PromptsDir == ""},
	}

	for _, v := range values {
		if v.skip {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return s.configStore.Save()
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetIngestMode updates how point IDs are assigned on ingest.
func (s *SettingsService) SetIngestMode(mode domain.IngestMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: invalid ingest mode: %s", domain.ErrInvalidInput, mode)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Ingest.Mode = mode
	return s.Save(settings)
}

// Validate checks that current settings are complete and consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.ValidateSettings(settings)
}

// ValidateSettings checks the given settings without reading the store.
func (s *SettingsService) ValidateSettings(settings *domain.AppSettings) error {
	if err := s.validate.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %s is not configured", domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %s is not configured", domain.ErrInvalidInput, settings.LLM.Provider)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the post-processor pipeline configuration.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	settings, err := s.Get()
	if err != nil {
		return domain.DefaultPipelineConfig()
	}
	return domain.PipelineConfigFor(settings.Chunker)
}

func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return domain.DefaultOllamaURL
	}
	return current
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getIngestMode(defaultVal domain.IngestMode) domain.IngestMode {
	mode := domain.IngestMode(s.configStore.GetString(KeyIngestMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
