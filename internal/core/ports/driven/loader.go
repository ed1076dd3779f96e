package driven

import (
	"context"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// DocumentLoader turns a source file into typed documents.
// Loaders live outside the core; the core is agnostic to document origin.
type DocumentLoader interface {
	// Name returns the loader name for logging.
	Name() string

	// Supports reports whether the loader can read the file at path.
	Supports(path string) bool

	// Load reads the file and returns documents in source order.
	Load(ctx context.Context, path string) ([]domain.Document, error)
}
