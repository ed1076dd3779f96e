package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/logger"
)

// DefaultUpsertBatchSize is the number of points written per store call.
const DefaultUpsertBatchSize = 64

// CollectionConfig configures a Collection.
type CollectionConfig struct {
	// Name is the collection name. Defaults to DefaultCollection.
	Name string

	// Mode controls point ID assignment. Defaults to IngestModeBatch.
	Mode domain.IngestMode

	// BatchSize is the number of points per upsert call.
	BatchSize int
}

// Collection wraps a VectorStore collection: it creates the collection lazily
// with the discovered dimension, assigns point IDs and always over-fetches
// candidates so results can be re-ranked by type.
type Collection struct {
	store     driven.VectorStore
	name      string
	mode      domain.IngestMode
	batchSize int
	dim       int
}

// NewCollection creates a collection wrapper. No I/O happens until EnsureCollection.
func NewCollection(store driven.VectorStore, cfg CollectionConfig) *Collection {
	if cfg.Name == "" {
		cfg.Name = domain.DefaultCollection
	}
	if !cfg.Mode.IsValid() {
		cfg.Mode = domain.IngestModeBatch
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultUpsertBatchSize
	}
	return &Collection{
		store:     store,
		name:      cfg.Name,
		mode:      cfg.Mode,
		batchSize: cfg.BatchSize,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Mode returns the ingest mode.
func (c *Collection) Mode() domain.IngestMode {
	return c.mode
}

// Dimensions returns the vector size the collection was opened with.
func (c *Collection) Dimensions() int {
	return c.dim
}

// EnsureCollection creates the collection with cosine distance if it is absent.
// An existing collection is left untouched; a size conflict is an init failure.
func (c *Collection) EnsureCollection(ctx context.Context, dim int) error {
	info, err := c.store.Collection(ctx, c.name)
	switch {
	case err == nil:
		if info.Dimensions != dim {
			return fmt.Errorf("%w: %s has %d dimensions, embeddings have %d: %w",
				domain.ErrCollectionInit, c.name, info.Dimensions, dim, domain.ErrDimensionMismatch)
		}
		logger.Debug("Using existing collection %s (%d dimensions)", c.name, dim)
	case errors.Is(err, domain.ErrNotFound):
		if err := c.store.CreateCollection(ctx, c.name, dim, domain.DistanceCosine); err != nil {
			return fmt.Errorf("%w: create %s: %w", domain.ErrCollectionInit, c.name, err)
		}
		logger.Info("Created collection %s (%d dimensions, cosine)", c.name, dim)
	default:
		return fmt.Errorf("%w: open %s: %w", domain.ErrCollectionInit, c.name, err)
	}

	c.dim = dim
	return nil
}

// BatchSize returns the number of points written per store call.
func (c *Collection) BatchSize() int {
	return c.batchSize
}

// Upsert stores one point per chunk. vectors[i] belongs to chunks[i].
// IDs are 1-based and follow chunk order; where numbering starts depends on
// the ingest mode. Returns the number of points written, which is less than
// len(chunks) when a store call fails part way through.
func (c *Collection) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) (int, error) {
	if len(chunks) != len(vectors) {
		return 0, fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	start, err := c.Reserve(ctx)
	if err != nil {
		return 0, err
	}

	stored := 0
	for lo := 0; lo < len(chunks); lo += c.batchSize {
		hi := min(lo+c.batchSize, len(chunks))
		if err := c.Write(ctx, start+uint64(lo), chunks[lo:hi], vectors[lo:hi]); err != nil {
			return stored, err
		}
		stored += hi - lo
	}
	return stored, nil
}

// Reserve returns the ID of the first point of an ingest run. Batch mode
// restarts at 1; append and replace continue after the highest stored ID.
// Nothing is removed here: replace mode drops older copies in Write, once the
// new vectors exist.
func (c *Collection) Reserve(ctx context.Context) (uint64, error) {
	switch c.mode {
	case domain.IngestModeAppend, domain.IngestModeReplace:
		return c.nextID(ctx)
	default:
		return 1, nil
	}
}

// Write stores chunks as consecutive points starting at firstID in one store call.
// In replace mode the points already stored under the same chunk IDs are removed first.
func (c *Collection) Write(ctx context.Context, firstID uint64, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}

	if c.mode == domain.IngestModeReplace {
		if err := c.removePrevious(ctx, chunks); err != nil {
			return err
		}
	}

	points := make([]domain.StoredPoint, len(chunks))
	for i := range chunks {
		points[i] = domain.StoredPoint{
			ID:      firstID + uint64(i),
			Vector:  vectors[i],
			Payload: chunks[i].Payload(),
		}
	}

	if err := c.store.Upsert(ctx, c.name, points); err != nil {
		return fmt.Errorf("upsert points %d-%d: %w", firstID, firstID+uint64(len(points))-1, err)
	}
	logger.Debug("Upserted points %d-%d into %s", firstID, firstID+uint64(len(points))-1, c.name)
	return nil
}

func (c *Collection) removePrevious(ctx context.Context, chunks []domain.Chunk) error {
	ids := make([]string, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ID
	}
	removed, err := c.store.DeleteByChunkID(ctx, c.name, ids)
	if err != nil {
		return fmt.Errorf("remove previous chunks: %w", err)
	}
	if removed > 0 {
		logger.Info("Replaced %d previously stored chunks", removed)
	}
	return nil
}

func (c *Collection) nextID(ctx context.Context) (uint64, error) {
	maxID, err := c.store.MaxID(ctx, c.name)
	if err != nil {
		return 0, fmt.Errorf("read highest point id: %w", err)
	}
	return maxID + 1, nil
}

// Query returns the CandidatePool nearest points as search results, most
// similar first. limit is what the caller will keep; the fetch is always
// CandidatePool so results can be re-ranked by type before trimming.
func (c *Collection) Query(ctx context.Context, vector []float32, limit int) ([]domain.SearchResult, error) {
	logger.Debug("Querying %s: %d candidates for %d results", c.name, domain.CandidatePool, limit)
	hits, err := c.store.Query(ctx, c.name, vector, domain.CandidatePool)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.name, err)
	}

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = domain.SearchResult{
			Content:  h.Payload.Content,
			Metadata: h.Payload.Metadata,
			Score:    h.Score,
		}
	}
	return results, nil
}

// Count returns the number of stored points.
func (c *Collection) Count(ctx context.Context) (int, error) {
	return c.store.Count(ctx, c.name)
}

// Reset drops the collection and creates it again, empty, with the same size.
func (c *Collection) Reset(ctx context.Context) error {
	if c.dim == 0 {
		return domain.ErrNotInitialised
	}
	if err := c.store.DropCollection(ctx, c.name); err != nil {
		return fmt.Errorf("drop %s: %w", c.name, err)
	}
	return c.EnsureCollection(ctx, c.dim)
}
