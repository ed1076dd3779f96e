package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/sommelier/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type collection struct {
	info   domain.CollectionInfo
	points map[uint64]domain.StoredPoint
}

// VectorStore is an in-memory implementation of driven.VectorStore.
// Queries are brute-force cosine over every point in the collection.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		collections: make(map[string]*collection),
	}
}

// CreateCollection creates a collection if it does not exist.
func (s *VectorStore) CreateCollection(_ context.Context, name string, dim int, metric domain.DistanceMetric) error {
	if dim <= 0 {
		return fmt.Errorf("%w: dimension %d", domain.ErrInvalidInput, dim)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[name]; ok {
		if c.info.Dimensions != dim {
			return fmt.Errorf("%w: collection %s has %d dimensions, want %d",
				domain.ErrDimensionMismatch, name, c.info.Dimensions, dim)
		}
		return nil
	}

	s.collections[name] = &collection{
		info:   domain.CollectionInfo{Name: name, Dimensions: dim, Metric: metric},
		points: make(map[uint64]domain.StoredPoint),
	}
	return nil
}

// Collection describes an existing collection.
func (s *VectorStore) Collection(_ context.Context, name string) (domain.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return domain.CollectionInfo{}, fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
	}
	return c.info, nil
}

// DropCollection removes a collection.
func (s *VectorStore) DropCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// Upsert writes points, replacing any point with the same ID.
// The whole batch is rejected if any vector has the wrong size.
func (s *VectorStore) Upsert(_ context.Context, name string, points []domain.StoredPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.lookup(name)
	if err != nil {
		return err
	}
	for _, p := range points {
		if len(p.Vector) != c.info.Dimensions {
			return fmt.Errorf("%w: point %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, p.ID, len(p.Vector), c.info.Dimensions)
		}
	}
	for _, p := range points {
		p.Vector = append([]float32(nil), p.Vector...)
		p.Payload.Metadata = p.Payload.Metadata.Clone()
		c.points[p.ID] = p
	}
	return nil
}

// Query returns the nearest points by cosine similarity.
func (s *VectorStore) Query(_ context.Context, name string, vector []float32, limit int) ([]domain.ScoredPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if len(vector) != c.info.Dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d",
			domain.ErrDimensionMismatch, len(vector), c.info.Dimensions)
	}

	points := make([]domain.StoredPoint, 0, len(c.points))
	for _, p := range c.points {
		points = append(points, p)
	}
	return vecmath.TopK(points, vector, limit), nil
}

// DeleteByChunkID removes points whose payload chunk ID is listed.
func (s *VectorStore) DeleteByChunkID(_ context.Context, name string, chunkIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.lookup(name)
	if err != nil {
		return 0, err
	}

	wanted := make(map[string]struct{}, len(chunkIDs))
	for _, id := range chunkIDs {
		wanted[id] = struct{}{}
	}

	removed := 0
	for id, p := range c.points {
		if _, ok := wanted[p.Payload.Metadata.ChunkID]; ok {
			delete(c.points, id)
			removed++
		}
	}
	return removed, nil
}

// MaxID returns the highest point ID.
func (s *VectorStore) MaxID(_ context.Context, name string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.lookup(name)
	if err != nil {
		return 0, err
	}
	var maxID uint64
	for id := range c.points {
		if id > maxID {
			maxID = id
		}
	}
	return maxID, nil
}

// Count returns the number of points in the collection.
func (s *VectorStore) Count(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.lookup(name)
	if err != nil {
		return 0, err
	}
	return len(c.points), nil
}

// Close releases resources (no-op for memory store).
func (s *VectorStore) Close() error {
	return nil
}

// lookup must be called with the lock held.
func (s *VectorStore) lookup(name string) (*collection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
	}
	return c, nil
}
