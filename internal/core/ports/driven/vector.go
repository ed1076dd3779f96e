package driven

import (
	"context"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// VectorStore persists points (vector plus payload) in named collections and
// answers nearest-neighbour queries. Collections use a fixed metric and size.
type VectorStore interface {
	// CreateCollection creates a collection with the given size and metric.
	// Returns an error wrapping ErrDimensionMismatch if it exists with another size,
	// and nil if it already exists with the same size.
	CreateCollection(ctx context.Context, name string, dim int, metric domain.DistanceMetric) error

	// Collection describes an existing collection.
	// Returns ErrNotFound if it does not exist.
	Collection(ctx context.Context, name string) (domain.CollectionInfo, error)

	// DropCollection removes a collection and all of its points.
	DropCollection(ctx context.Context, name string) error

	// Upsert writes points, replacing any point with the same ID.
	Upsert(ctx context.Context, collection string, points []domain.StoredPoint) error

	// Query returns up to limit points ordered by descending similarity.
	Query(ctx context.Context, collection string, vector []float32, limit int) ([]domain.ScoredPoint, error)

	// DeleteByChunkID removes points whose payload carries one of the chunk IDs.
	// Returns the number of points removed.
	DeleteByChunkID(ctx context.Context, collection string, chunkIDs []string) (int, error)

	// MaxID returns the highest point ID in the collection, or 0 when empty.
	MaxID(ctx context.Context, collection string) (uint64, error)

	// Count returns the number of points in the collection.
	Count(ctx context.Context, collection string) (int, error)

	// Close releases resources.
	Close() error
}
