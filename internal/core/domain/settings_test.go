package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderAnthropic.IsValid())
	assert.False(t, AIProvider("cohere").IsValid())
	assert.False(t, AIProvider("").IsValid())
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk"}, true},
		{"unset", EmbeddingSettings{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderOllama, s.Embedding.Provider)
	assert.Equal(t, "llama3.2:latest", s.Embedding.Model)
	assert.Equal(t, "llama3.2:latest", s.LLM.Model)
	assert.Equal(t, "wine_knowledge", s.Store.Collection)
	assert.Equal(t, 1000, s.Chunker.ChunkSize)
	assert.Equal(t, 200, s.Chunker.Overlap)
	assert.Equal(t, IngestModeBatch, s.Ingest.Mode)
	assert.Equal(t, 1, s.Ingest.Concurrency)
}

func TestIngestMode_IsValid(t *testing.T) {
	assert.True(t, IngestModeBatch.IsValid())
	assert.True(t, IngestModeAppend.IsValid())
	assert.True(t, IngestModeReplace.IsValid())
	assert.False(t, IngestMode("dedupe").IsValid())
}

func TestPipelineConfigFor(t *testing.T) {
	cfg := PipelineConfigFor(ChunkerSettings{ChunkSize: 500, Overlap: 50})

	assert.Equal(t, []string{"chunker"}, cfg.Processors)
	assert.Equal(t, 500, cfg.GetProcessorConfig("chunker")["chunk_size"])
	assert.Equal(t, 50, cfg.GetProcessorConfig("chunker")["overlap"])
	assert.Nil(t, cfg.GetProcessorConfig("stemmer"))
}

func TestPipelineConfig_NilConfigs(t *testing.T) {
	var cfg PipelineConfig
	assert.Nil(t, cfg.GetProcessorConfig("chunker"))
}

func TestIngestMode_Description(t *testing.T) {
	for _, m := range AllIngestModes() {
		assert.NotEqual(t, unknownDescription, m.Description(), m)
	}
	assert.Equal(t, unknownDescription, IngestMode("dedupe").Description())
}
