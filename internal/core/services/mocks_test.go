package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/postprocessors"
)

// mockEmbedder returns fixed vectors for known texts and a unit vector otherwise.
type mockEmbedder struct {
	mu      sync.Mutex
	dim     int
	vectors map[string][]float32
	err     error
	failOn  string
	calls   int
	closed  bool
}

func newMockEmbedder(dim int) *mockEmbedder {
	return &mockEmbedder{dim: dim, vectors: make(map[string][]float32)}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return nil, errors.New("embedding backend timed out")
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	v := make([]float32, m.dim)
	if m.dim > 0 {
		v[0] = 1
	}
	return v, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int             { return m.dim }
func (m *mockEmbedder) ModelName() string           { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }

func (m *mockEmbedder) Close() error {
	m.closed = true
	return nil
}

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockLLM records the last prompt and returns a fixed response.
type mockLLM struct {
	response   string
	err        error
	lastPrompt string
	lastOpts   driven.GenerateOptions
	calls      int
	closeErr   error
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string           { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error                { return m.closeErr }

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// failingStore wraps a VectorStore and fails selected calls.
type failingStore struct {
	driven.VectorStore
	collectionErr error
	upsertErr     error
	failUpsertAt  int
	upserts       int
}

func (f *failingStore) Collection(ctx context.Context, name string) (domain.CollectionInfo, error) {
	if f.collectionErr != nil {
		return domain.CollectionInfo{}, f.collectionErr
	}
	return f.VectorStore.Collection(ctx, name)
}

func (f *failingStore) Upsert(ctx context.Context, name string, points []domain.StoredPoint) error {
	f.upserts++
	if f.upsertErr != nil && f.upserts >= f.failUpsertAt {
		return f.upsertErr
	}
	return f.VectorStore.Upsert(ctx, name, points)
}

func testPipeline(t *testing.T) driven.PostProcessorPipeline {
	t.Helper()
	p, err := postprocessors.Build(postprocessors.NewDefaultRegistry(), domain.DefaultPipelineConfig())
	require.NoError(t, err)
	return p
}

func productDoc(id, content string) domain.Document {
	return domain.Document{
		ID:       id,
		Content:  content,
		Metadata: domain.NewMetadata(domain.DocumentTypeWineProduct, nil),
	}
}

func emailDoc(id, content string) domain.Document {
	return domain.Document{
		ID:       id,
		Content:  content,
		Metadata: domain.NewMetadata(domain.DocumentTypeEmail, nil),
	}
}

func result(t domain.DocumentType, content string, score float64) domain.SearchResult {
	return domain.SearchResult{
		Content:  content,
		Metadata: domain.NewMetadata(t, nil),
		Score:    score,
	}
}
