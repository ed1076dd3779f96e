package loaders

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/logger"
)

// Registry selects a loader for each file. The first loader whose
// Supports returns true wins.
type Registry struct {
	loaders []driven.DocumentLoader
}

// NewRegistry creates a registry from loaders, in priority order.
func NewRegistry(loaders ...driven.DocumentLoader) *Registry {
	return &Registry{loaders: loaders}
}

// NewDefaultRegistry registers every built-in loader. Conversations are
// tried before emails since both carry a subject.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		NewCatalogueLoader(),
		NewConversationLoader(),
		NewEmailJSONLoader(),
		NewEMLLoader(),
		NewPDFLoader(),
	)
}

// Register appends a loader.
func (r *Registry) Register(l driven.DocumentLoader) {
	r.loaders = append(r.loaders, l)
}

// LoaderFor returns the loader for path, or ErrUnsupportedType.
func (r *Registry) LoaderFor(path string) (driven.DocumentLoader, error) {
	for _, l := range r.loaders {
		if l.Supports(path) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Base(path))
}

// LoadFile loads a single file.
func (r *Registry) LoadFile(ctx context.Context, path string) ([]domain.Document, error) {
	l, err := r.LoaderFor(path)
	if err != nil {
		return nil, err
	}
	docs, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded %d documents from %s (%s)", len(docs), path, l.Name())
	return docs, nil
}

// LoadPath loads a file, or every supported file under a directory in
// lexical order. Inside a directory, unsupported files and hidden entries
// are skipped; a file that fails to load does not stop the walk. The
// returned error joins the per-file failures and comes with the documents
// that did load.
func (r *Registry) LoadPath(ctx context.Context, path string) ([]domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return r.LoadFile(ctx, path)
	}

	var (
		docs []domain.Document
		errs []error
	)
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		loaded, err := r.LoadFile(ctx, p)
		switch {
		case errors.Is(err, domain.ErrUnsupportedType):
			logger.Debug("Skipping %s: no loader", p)
		case err != nil:
			logger.Warn("Could not load %s: %v", p, err)
			errs = append(errs, err)
		default:
			docs = append(docs, loaded...)
		}
		return nil
	})
	if walkErr != nil {
		return docs, walkErr
	}
	return docs, errors.Join(errs...)
}
