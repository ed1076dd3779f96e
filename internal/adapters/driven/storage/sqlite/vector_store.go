package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sommelier/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
)

// maxDeleteParams keeps IN lists under SQLite's bound-parameter limit.
const maxDeleteParams = 500

// vectorStore implements driven.VectorStore.
// Vectors are stored as little-endian float32 blobs and scored in Go.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// CreateCollection creates a collection if it does not exist.
func (s *vectorStore) CreateCollection(ctx context.Context, name string, dim int, metric domain.DistanceMetric) error {
	if dim <= 0 {
		return fmt.Errorf("%w: dimension %d", domain.ErrInvalidInput, dim)
	}

	info, err := s.Collection(ctx, name)
	switch {
	case err == nil:
		if info.Dimensions != dim {
			return fmt.Errorf("%w: collection %s has %d dimensions, want %d",
				domain.ErrDimensionMismatch, name, info.Dimensions, dim)
		}
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO collections (name, dimensions, metric) VALUES (?, ?, ?)
	`, name, dim, string(metric))
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

// Collection describes an existing collection.
func (s *vectorStore) Collection(ctx context.Context, name string) (domain.CollectionInfo, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT name, dimensions, metric FROM collections WHERE name = ?
	`, name)

	var info domain.CollectionInfo
	var metric string
	if err := row.Scan(&info.Name, &info.Dimensions, &metric); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CollectionInfo{}, fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
		}
		return domain.CollectionInfo{}, fmt.Errorf("scanning collection: %w", err)
	}
	info.Metric = domain.DistanceMetric(metric)
	return info, nil
}

// DropCollection removes a collection and its points.
func (s *vectorStore) DropCollection(ctx context.Context, name string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM points WHERE collection = ?", name); err != nil {
		return fmt.Errorf("deleting points: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return tx.Commit()
}

// Upsert writes points, replacing any point with the same ID.
// The whole batch is rejected if any vector has the wrong size.
func (s *vectorStore) Upsert(ctx context.Context, name string, points []domain.StoredPoint) error {
	info, err := s.Collection(ctx, name)
	if err != nil {
		return err
	}
	for _, p := range points {
		if len(p.Vector) != info.Dimensions {
			return fmt.Errorf("%w: point %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, p.ID, len(p.Vector), info.Dimensions)
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (collection, id, vector, content, metadata, chunk_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			vector = excluded.vector,
			content = excluded.content,
			metadata = excluded.metadata,
			chunk_id = excluded.chunk_id
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		metaJSON, err := json.Marshal(p.Payload.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		_, err = stmt.ExecContext(ctx, name, int64(p.ID), encodeVector(p.Vector),
			p.Payload.Content, string(metaJSON), nullString(p.Payload.Metadata.ChunkID))
		if err != nil {
			return fmt.Errorf("saving point %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// Query returns the nearest points by cosine similarity.
func (s *vectorStore) Query(ctx context.Context, name string, vector []float32, limit int) ([]domain.ScoredPoint, error) {
	info, err := s.Collection(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(vector) != info.Dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d",
			domain.ErrDimensionMismatch, len(vector), info.Dimensions)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, vector, content, metadata FROM points WHERE collection = ?
	`, name)
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}
	defer rows.Close()

	var points []domain.StoredPoint
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating points: %w", err)
	}

	return vecmath.TopK(points, vector, limit), nil
}

// DeleteByChunkID removes points whose payload chunk ID is listed.
func (s *vectorStore) DeleteByChunkID(ctx context.Context, name string, chunkIDs []string) (int, error) {
	if _, err := s.Collection(ctx, name); err != nil {
		return 0, err
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	removed := 0
	for lo := 0; lo < len(chunkIDs); lo += maxDeleteParams {
		batch := chunkIDs[lo:min(lo+maxDeleteParams, len(chunkIDs))]

		args := make([]any, 0, len(batch)+1)
		args = append(args, name)
		for _, id := range batch {
			args = append(args, id)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		res, err := tx.ExecContext(ctx,
			"DELETE FROM points WHERE collection = ? AND chunk_id IN ("+placeholders+")", args...)
		if err != nil {
			return 0, fmt.Errorf("deleting points: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting deleted points: %w", err)
		}
		removed += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing delete: %w", err)
	}
	return removed, nil
}

// MaxID returns the highest point ID, or 0 for an empty collection.
func (s *vectorStore) MaxID(ctx context.Context, name string) (uint64, error) {
	if _, err := s.Collection(ctx, name); err != nil {
		return 0, err
	}

	var maxID int64
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(id), 0) FROM points WHERE collection = ?", name)
	if err := row.Scan(&maxID); err != nil {
		return 0, fmt.Errorf("scanning max id: %w", err)
	}
	return uint64(maxID), nil
}

// Count returns the number of points in the collection.
func (s *vectorStore) Count(ctx context.Context, name string) (int, error) {
	if _, err := s.Collection(ctx, name); err != nil {
		return 0, err
	}

	var n int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM points WHERE collection = ?", name)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *vectorStore) Close() error {
	return s.store.Close()
}

func scanPoint(rows *sql.Rows) (*domain.StoredPoint, error) {
	var (
		id       int64
		blob     []byte
		content  string
		metaJSON string
	)
	if err := rows.Scan(&id, &blob, &content, &metaJSON); err != nil {
		return nil, fmt.Errorf("scanning point: %w", err)
	}

	var meta domain.Metadata
	if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata of point %d: %w", id, err)
	}
	vector, err := decodeVector(blob)
	if err != nil {
		return nil, fmt.Errorf("point %d: %w", id, err)
	}

	return &domain.StoredPoint{
		ID:     uint64(id),
		Vector: vector,
		Payload: domain.Payload{
			Content:  content,
			Metadata: meta,
		},
	}, nil
}

// nullString converts an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
