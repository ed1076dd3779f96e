package driving

import (
	"context"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// RAGService is the knowledge base surface used by the CLI and MCP server.
// Query, Search and Ingest are the only operations that touch documents.
type RAGService interface {
	// Init discovers the embedding dimension and opens the collection.
	// Returns an error wrapping ErrCollectionInit if the collection cannot be opened.
	Init(ctx context.Context) error

	// Query answers a question from up to limit retrieved documents.
	// A limit of zero or less uses DefaultQueryLimit.
	Query(ctx context.Context, question string, limit int) (*domain.QueryResult, error)

	// Search retrieves up to limit documents, products first.
	// A limit of zero or less uses DefaultSearchLimit.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)

	// Ingest chunks, embeds and stores documents.
	// On failure the returned error is an *IngestError carrying the stored count.
	Ingest(ctx context.Context, docs []domain.Document) (*domain.IngestReport, error)

	// Status describes the models and the collection.
	Status(ctx context.Context) (*domain.Status, error)

	// Clear drops and recreates the collection.
	Clear(ctx context.Context) error

	// Close releases the store and providers.
	Close() error
}
