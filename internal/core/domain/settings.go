package domain

const unknownDescription = "Unknown"

// AIProvider names the service behind the embedding or generation role.
// Anthropic serves generation only.
type AIProvider string

const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid reports whether p is a known provider.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey reports whether p is a hosted API.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal reports whether p runs on the user's machine and needs a BaseURL.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// Description is the label shown in settings output.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// DefaultOllamaURL is the base URL of a local Ollama instance.
const DefaultOllamaURL = "http://localhost:11434"

// DefaultModel is used for both embeddings and generation when nothing is configured.
const DefaultModel = "llama3.2:latest"

// DefaultCollection is the name of the knowledge base collection.
const DefaultCollection = "wine_knowledge"

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `validate:"required,oneof=ollama openai"`

	// Model is the embedding model name.
	Model string `validate:"required"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RequestsPerSecond throttles embedding calls. Zero disables throttling.
	RequestsPerSecond float64 `validate:"gte=0"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider `validate:"required,oneof=ollama openai anthropic"`

	// Model is the LLM model name.
	Model string `validate:"required"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Temperature is passed to every answer. Zero leaves the provider default.
	Temperature float64 `validate:"gte=0,lte=2"`

	// MaxTokens caps answer length. Zero leaves the provider default.
	MaxTokens int `validate:"gte=0"`
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// StoreSettings locates the vector store.
type StoreSettings struct {
	// Path is the SQLite database directory. Empty means the config directory
	// and ":memory:" keeps the collection in process.
	Path string

	// Collection is the collection name.
	Collection string `validate:"required"`
}

// ChunkerSettings holds chunking window configuration.
type ChunkerSettings struct {
	// ChunkSize is the target window length in characters.
	ChunkSize int `validate:"gt=0"`

	// Overlap is the number of characters shared by consecutive windows.
	Overlap int `validate:"gte=0,ltfield=ChunkSize"`
}

// IngestSettings holds ingestion behaviour.
type IngestSettings struct {
	// Mode controls point ID assignment.
	Mode IngestMode `validate:"required,oneof=batch append replace"`

	// BatchSize is the number of points written per upsert.
	BatchSize int `validate:"gt=0"`

	// Concurrency is the number of parallel embedding calls. One means sequential.
	Concurrency int `validate:"gte=1,lte=64"`
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Store holds vector store settings.
	Store StoreSettings

	// Chunker holds chunking settings.
	Chunker ChunkerSettings

	// Ingest holds ingestion settings.
	Ingest IngestSettings

	// PromptsDir overrides where prompt templates are read from.
	PromptsDir string
}

// DefaultAppSettings returns settings with sensible defaults.
// Both roles default to a local Ollama model, so the assistant works
// out-of-the-box once Ollama is running.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultModel,
			BaseURL:  DefaultOllamaURL,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultModel,
			BaseURL:  DefaultOllamaURL,
		},
		Store: StoreSettings{
			Collection: DefaultCollection,
		},
		Chunker: ChunkerSettings{
			ChunkSize: 1000,
			Overlap:   200,
		},
		Ingest: IngestSettings{
			Mode:        IngestModeBatch,
			BatchSize:   64,
			Concurrency: 1,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: DefaultModel,
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    DefaultModel,
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
// Unknown models are probed at start-up.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		"llama3.2:latest":   3072,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig lists the post-processors run over each document, in order,
// with a loosely typed config table per processor name.
type PipelineConfig struct {
	Processors       []string
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns the table for name, or nil.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor builds the chunking pipeline configuration from settings.
func PipelineConfigFor(c ChunkerSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": c.ChunkSize,
				"overlap":    c.Overlap,
			},
		},
	}
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfigFor(DefaultAppSettings().Chunker)
}
