package main

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sommelier/internal/adapters/driven/ai"
	"github.com/custodia-labs/sommelier/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sommelier/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sommelier/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sommelier/internal/adapters/driving/cli"
	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/core/services"
	"github.com/custodia-labs/sommelier/internal/loaders"
	"github.com/custodia-labs/sommelier/internal/logger"
	"github.com/custodia-labs/sommelier/internal/postprocessors"
)

// memoryStorePath selects the in-process vector store. Nothing is persisted.
const memoryStorePath = ":memory:"

// settingsSource is the part of the settings service the wiring reads.
type settingsSource interface {
	Get() (*domain.AppSettings, error)
	ValidateSettings(settings *domain.AppSettings) error
}

// openKnowledgeBase wires providers, store, pipeline and prompts from the
// current settings and initialises the knowledge base.
func openKnowledgeBase(ctx context.Context, settingsService settingsSource) (*cli.KnowledgeBase, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := settingsService.ValidateSettings(settings); err != nil {
		return nil, err
	}

	pipeline, err := postprocessors.Build(postprocessors.NewDefaultRegistry(), domain.PipelineConfigFor(settings.Chunker))
	if err != nil {
		return nil, fmt.Errorf("build chunking pipeline: %w", err)
	}

	prompts, err := file.NewPromptStore(settings.PromptsDir)
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	providers, err := ai.NewServices(settings)
	if err != nil {
		return nil, err
	}

	store, err := openVectorStore(settings.Store.Path)
	if err != nil {
		providers.Close()
		return nil, err
	}

	rag := services.NewRAGService(providers.Embedding, providers.LLM, store, pipeline, services.RAGConfig{
		Collection: services.CollectionConfig{
			Name:      settings.Store.Collection,
			Mode:      settings.Ingest.Mode,
			BatchSize: settings.Ingest.BatchSize,
		},
		Concurrency: settings.Ingest.Concurrency,
		Generate: driven.GenerateOptions{
			MaxTokens:   settings.LLM.MaxTokens,
			Temperature: settings.LLM.Temperature,
		},
	})
	rag.SetPromptStore(prompts)

	if err := rag.Init(ctx); err != nil {
		rag.Close()
		return nil, err
	}

	if err := loaders.CheckAvailable(); err != nil {
		logger.Debug("%v\n%s", err, loaders.InstallInstructions())
	}

	return &cli.KnowledgeBase{
		RAG:     rag,
		Loader:  loaders.NewDefaultRegistry(),
		Prompts: prompts,
	}, nil
}

// openVectorStore opens the SQLite store in dir, or the in-memory store.
func openVectorStore(dir string) (driven.VectorStore, error) {
	if dir == memoryStorePath {
		logger.Debug("Using in-memory vector store")
		return memory.NewVectorStore(), nil
	}
	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	return store.VectorStore(), nil
}
