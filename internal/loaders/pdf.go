package loaders

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
)

// pdfTool is the poppler text extractor.
const pdfTool = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not on PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found: install poppler to load PDF files")

// Ensure PDFLoader implements the interface.
var _ driven.DocumentLoader = (*PDFLoader)(nil)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDFLoader extracts PDF text with pdftotext and emits one pdf document
// per non-empty page.
type PDFLoader struct {
	runner CommandRunner
}

// NewPDFLoader creates a PDF loader that shells out to pdftotext.
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{runner: execRunner{}}
}

// NewPDFLoaderWithRunner creates a PDF loader with a custom command runner.
func NewPDFLoaderWithRunner(runner CommandRunner) *PDFLoader {
	return &PDFLoader{runner: runner}
}

// CheckAvailable returns ErrPDFToolNotFound when pdftotext is missing.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdfTool); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions describes how to install pdftotext.
func InstallInstructions() string {
	return `pdftotext is part of poppler:
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils`
}

// Name returns the loader name.
func (l *PDFLoader) Name() string { return "pdf" }

// Supports matches the .pdf extension.
func (l *PDFLoader) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Load extracts the pages of path. Page numbers start at zero.
func (l *PDFLoader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	out, err := l.runner.Run(ctx, pdfTool, "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrPDFToolNotFound
		}
		return nil, fmt.Errorf("%w: %s: pdftotext: %w", domain.ErrInvalidInput, filepath.Base(path), err)
	}

	name := stem(path)
	// pdftotext ends every page with a form feed.
	pages := strings.Split(string(out), "\f")

	var docs []domain.Document
	for n, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, domain.Document{
			ID:      fmt.Sprintf("pdf_%s_page_%d", name, n),
			Content: text,
			Metadata: domain.NewMetadata(domain.DocumentTypePDF, map[string]any{
				"source":   path,
				"page":     n,
				"filename": filepath.Base(path),
			}),
		})
	}
	return docs, nil
}
