package mcp

import (
	"context"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/core/ports/driving"
)

// PathLoader loads every supported document under a file or directory.
type PathLoader interface {
	LoadPath(ctx context.Context, path string) ([]domain.Document, error)
}

// Ports aggregates everything the MCP server talks to.
type Ports struct {
	// RAG answers questions and stores documents.
	RAG driving.RAGService

	// Loader reads files for the ingest tool. The tool is not registered without it.
	Loader PathLoader

	// Prompts exposes prompt templates as resources. Optional.
	Prompts driven.PromptStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	return nil
}
