package mcp

import (
	"context"
	"errors"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// mockRAGService is a mock implementation of driving.RAGService.
type mockRAGService struct {
	result   *domain.QueryResult
	results  []domain.SearchResult
	report   *domain.IngestReport
	status   *domain.Status
	err      error
	ingested []domain.Document
	limit    int
}

func (m *mockRAGService) Init(_ context.Context) error { return m.err }

func (m *mockRAGService) Query(_ context.Context, _ string, limit int) (*domain.QueryResult, error) {
	m.limit = limit
	return m.result, m.err
}

func (m *mockRAGService) Search(_ context.Context, _ string, limit int) ([]domain.SearchResult, error) {
	m.limit = limit
	return m.results, m.err
}

func (m *mockRAGService) Ingest(_ context.Context, docs []domain.Document) (*domain.IngestReport, error) {
	m.ingested = docs
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.IngestReport{Documents: len(docs), Chunks: len(docs), Stored: len(docs)}, nil
}

func (m *mockRAGService) Status(_ context.Context) (*domain.Status, error) {
	return m.status, m.err
}

func (m *mockRAGService) Clear(_ context.Context) error { return m.err }

func (m *mockRAGService) Close() error { return nil }

// mockLoader is a mock PathLoader.
type mockLoader struct {
	docs []domain.Document
	err  error
}

func (m *mockLoader) LoadPath(_ context.Context, _ string) ([]domain.Document, error) {
	return m.docs, m.err
}

// mockPromptStore is a mock implementation of driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func (m *mockPromptStore) Reload() {}
