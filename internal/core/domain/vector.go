package domain

// DefaultEmbeddingDimensions is used when the embedding provider cannot be probed.
const DefaultEmbeddingDimensions = 384

// DistanceMetric names the similarity function of a collection.
type DistanceMetric string

// DistanceCosine is the only metric collections are created with.
const DistanceCosine DistanceMetric = "cosine"

// Payload is the stored side of a point.
type Payload struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// StoredPoint is one vector plus payload in a collection.
type StoredPoint struct {
	// ID is 1-based and assigned in ingestion order.
	ID uint64

	// Vector is the chunk embedding.
	Vector []float32

	// Payload is the chunk content and metadata.
	Payload Payload
}

// ScoredPoint is a stored point returned by a similarity query.
type ScoredPoint struct {
	ID      uint64
	Payload Payload
	Score   float64
}

// CollectionInfo describes an existing collection.
type CollectionInfo struct {
	Name       string
	Dimensions int
	Metric     DistanceMetric
}

// IngestMode controls how point IDs are assigned on upsert.
type IngestMode string

// Available ingest modes.
const (
	// IngestModeBatch restarts IDs at 1 for every ingest call. Re-ingesting
	// overwrites points that share an ID with an earlier run.
	IngestModeBatch IngestMode = "batch"

	// IngestModeAppend continues after the collection's highest ID.
	// Re-ingesting the same documents duplicates them.
	IngestModeAppend IngestMode = "append"

	// IngestModeReplace removes points with the same chunk_id, then appends.
	IngestModeReplace IngestMode = "replace"
)

// IsValid returns true if the mode is recognised.
func (m IngestMode) IsValid() bool {
	switch m {
	case IngestModeBatch, IngestModeAppend, IngestModeReplace:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m IngestMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m IngestMode) Description() string {
	switch m {
	case IngestModeBatch:
		return "Batch (IDs restart every run, re-ingest overwrites)"
	case IngestModeAppend:
		return "Append (IDs continue, re-ingest duplicates)"
	case IngestModeReplace:
		return "Replace (same chunk IDs are replaced)"
	default:
		return unknownDescription
	}
}

// AllIngestModes returns every ingest mode.
func AllIngestModes() []IngestMode {
	return []IngestMode{IngestModeBatch, IngestModeAppend, IngestModeReplace}
}
