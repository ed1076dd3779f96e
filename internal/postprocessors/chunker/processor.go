// Package chunker provides a recursive text chunking processor.
//
// Content is split on the coarsest separator present (paragraphs, then lines,
// then sentences, then words, then characters). Pieces shorter than the chunk
// size are merged back into windows; longer pieces are split again with the
// next separator. Consecutive windows share up to overlap characters.
// Lengths are measured in runes.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultSeparators are tried in order, coarsest first.
// The empty separator splits into single characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", " ", ""}

// Processor splits document content into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator hierarchy.
// A trailing empty separator is appended if missing so every piece can fit.
func WithSeparators(seps []string) Option {
	return func(p *Processor) {
		if len(seps) == 0 {
			return
		}
		out := append([]string(nil), seps...)
		if out[len(out)-1] != "" {
			out = append(out, "")
		}
		p.separators = out
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.IsBlank() {
		return nil, nil
	}

	texts := p.SplitText(doc.Content)
	chunks := make([]domain.Chunk, 0, len(texts))

	for i, text := range texts {
		id := domain.ChunkID(doc.ID, i)
		meta := doc.Metadata.Clone()
		meta.ChunkID = id
		meta.OriginalID = doc.ID

		chunks = append(chunks, domain.Chunk{
			ID:         id,
			OriginalID: doc.ID,
			Position:   i,
			Content:    text,
			Metadata:   meta,
		})
	}

	return chunks, nil
}

// SplitText splits text into trimmed, non-empty windows.
func (p *Processor) SplitText(text string) []string {
	return p.split(text, p.separators)
}

func (p *Processor) split(text string, separators []string) []string {
	// Pick the coarsest separator present in the text.
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var out, good []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if runeLen(piece) < p.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			out = append(out, p.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			if s := strings.TrimSpace(piece); s != "" {
				out = append(out, s)
			}
		} else {
			out = append(out, p.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		out = append(out, p.merge(good)...)
	}
	return out
}

// merge packs pieces into windows no longer than chunkSize, carrying up to
// overlap characters from the tail of one window into the next.
func (p *Processor) merge(pieces []string) []string {
	var (
		out     []string
		current []string
		total   int
	)

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > p.chunkSize && len(current) > 0 {
			if s := strings.TrimSpace(strings.Join(current, "")); s != "" {
				out = append(out, s)
			}
			for len(current) > 0 && (total > p.overlap || total+n > p.chunkSize) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	if s := strings.TrimSpace(strings.Join(current, "")); s != "" {
		out = append(out, s)
	}
	return out
}

// splitKeepSeparator splits text on sep, keeping each separator at the start
// of the piece that follows it. Empty pieces are dropped.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		return strings.Split(text, "")
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = sep + part
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
