package cli

import (
	"bytes"
	"context"
	"strings"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// mockRAGService is a mock implementation of driving.RAGService.
type mockRAGService struct {
	result  *domain.QueryResult
	results []domain.SearchResult
	report  *domain.IngestReport
	status  *domain.Status
	err     error

	question string
	limit    int
	ingested []domain.Document
	cleared  bool
	closed   bool
}

func (m *mockRAGService) Init(_ context.Context) error { return m.err }

func (m *mockRAGService) Query(_ context.Context, question string, limit int) (*domain.QueryResult, error) {
	m.question, m.limit = question, limit
	return m.result, m.err
}

func (m *mockRAGService) Search(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	m.question, m.limit = query, limit
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

func (m *mockRAGService) Clear(_ context.Context) error {
	m.cleared = true
	return m.err
}

func (m *mockRAGService) Close() error {
	m.closed = true
	return nil
}

// mockLoader returns documents per path.
type mockLoader struct {
	docs map[string][]domain.Document
	errs map[string]error
}

func (m *mockLoader) LoadPath(_ context.Context, path string) ([]domain.Document, error) {
	return m.docs[path], m.errs[path]
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error

	embeddingSet []string
	llmSet       []string
	mode         domain.IngestMode
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(p domain.AIProvider, model, apiKey string) error {
	m.embeddingSet = []string{string(p), model, apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, apiKey string) error {
	m.llmSet = []string{string(p), model, apiKey}
	return nil
}

func (m *mockSettingsService) SetIngestMode(mode domain.IngestMode) error {
	m.mode = mode
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.pingErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.pingErr }

// setupTestServices installs mocks and returns a cleanup that restores
// globals and flag values.
func setupTestServices(rag *mockRAGService, loader *mockLoader) func() {
	oldRAG, oldLoader, oldPrompts := ragService, documentLoader, promptWatcher
	oldOpener, oldOpened := openKnowledgeBase, opened
	oldTerminal := stdinIsTerminal

	ragService, documentLoader = nil, nil
	if rag != nil {
		ragService = rag
	}
	if loader != nil {
		documentLoader = loader
	}
	promptWatcher = nil
	stdinIsTerminal = func() bool { return true }

	return func() {
		ragService, documentLoader, promptWatcher = oldRAG, oldLoader, oldPrompts
		openKnowledgeBase, opened = oldOpener, oldOpened
		stdinIsTerminal = oldTerminal
		resetFlags()
	}
}

// resetFlags restores flag variables; cobra keeps them between executions.
func resetFlags() {
	ingestReset, ingestJSON = false, false
	queryLimit, queryJSON, querySources = domain.DefaultQueryLimit, false, false
	searchLimit, searchJSON = domain.DefaultSearchLimit, false
	statusJSON = false
	resetYes = false
	verbose = false
}

// execute runs the root command with args and returns its combined output.
func execute(args []string, stdin string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
