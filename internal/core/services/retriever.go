package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/logger"
)

// Retriever embeds a query, over-fetches candidates from the collection and
// composes the final list with products ahead of everything else.
type Retriever struct {
	embedder   driven.EmbeddingService
	collection *Collection
}

// NewRetriever creates a new retriever.
func NewRetriever(embedder driven.EmbeddingService, collection *Collection) *Retriever {
	return &Retriever{
		embedder:   embedder,
		collection: collection,
	}
}

// Search returns up to limit results ordered by ComposeResults.
// Embedding and store failures are returned as-is; there is no partial result.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w: %w", domain.ErrProviderUnavailable, err)
	}

	candidates, err := r.collection.Query(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	results := ComposeResults(candidates, limit)
	logger.Debug("Composed %d results from %d candidates", len(results), len(candidates))
	return results, nil
}

// PartitionByType splits results into products and everything else,
// preserving relative order within each group.
func PartitionByType(results []domain.SearchResult) (products, others []domain.SearchResult) {
	for _, r := range results {
		if r.IsProduct() {
			products = append(products, r)
		} else {
			others = append(others, r)
		}
	}
	return products, others
}

// ComposeResults takes up to limit products first, then fills the remaining
// slots from the other results. Without products it is the top limit others.
// Raw score only orders results within each group.
func ComposeResults(candidates []domain.SearchResult, limit int) []domain.SearchResult {
	products, others := PartitionByType(candidates)

	if len(products) == 0 {
		return headOf(others, limit)
	}

	results := make([]domain.SearchResult, 0, limit)
	results = append(results, headOf(products, limit)...)
	results = append(results, headOf(others, max(0, limit-len(products)))...)
	return results
}

func headOf(results []domain.SearchResult, n int) []domain.SearchResult {
	if n >= len(results) {
		n = len(results)
	}
	out := make([]domain.SearchResult, n)
	copy(out, results[:n])
	return out
}
