package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sommelier/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sommelier/internal/core/domain"
)

type stubSettings struct {
	settings    *domain.AppSettings
	getErr      error
	validateErr error
}

func (s *stubSettings) Get() (*domain.AppSettings, error) {
	return s.settings, s.getErr
}

func (s *stubSettings) ValidateSettings(*domain.AppSettings) error {
	return s.validateErr
}

func ollamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/embed":
			_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2,0.3]]}`))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSettings(t *testing.T, baseURL, storePath string) *domain.AppSettings {
	t.Helper()
	settings := domain.DefaultAppSettings()
	settings.Embedding.BaseURL = baseURL
	settings.LLM.BaseURL = baseURL
	settings.Store.Path = storePath
	settings.PromptsDir = t.TempDir()
	return &settings
}

func TestOpenKnowledgeBase_InMemory(t *testing.T) {
	srv := ollamaServer(t)
	source := &stubSettings{settings: testSettings(t, srv.URL, memoryStorePath)}

	kb, err := openKnowledgeBase(context.Background(), source)
	require.NoError(t, err)
	defer kb.RAG.Close()

	status, err := kb.RAG.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCollection, status.Collection)
	assert.Equal(t, 3, status.Dimensions)
	assert.False(t, status.DimensionFallback)
	assert.Equal(t, 0, status.Points)
	assert.NotNil(t, kb.Loader)
	assert.NotNil(t, kb.Prompts)
}

func TestOpenKnowledgeBase_SQLite(t *testing.T) {
	srv := ollamaServer(t)
	source := &stubSettings{settings: testSettings(t, srv.URL, t.TempDir())}

	kb, err := openKnowledgeBase(context.Background(), source)
	require.NoError(t, err)
	assert.NoError(t, kb.RAG.Close())
}

func TestOpenKnowledgeBase_SettingsErrors(t *testing.T) {
	settings := domain.DefaultAppSettings()

	tests := []struct {
		name   string
		source *stubSettings
	}{
		{name: "get fails", source: &stubSettings{getErr: errors.New("unreadable config")}},
		{name: "invalid settings", source: &stubSettings{settings: &settings, validateErr: domain.ErrInvalidInput}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb, err := openKnowledgeBase(context.Background(), tt.source)

			require.Error(t, err)
			assert.Nil(t, kb)
		})
	}
}

func TestOpenKnowledgeBase_UnconfiguredProvider(t *testing.T) {
	settings := testSettings(t, "", memoryStorePath)
	settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOpenAI, Model: "gpt-4o-mini"}

	kb, err := openKnowledgeBase(context.Background(), &stubSettings{settings: settings})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, kb)
}

func TestOpenVectorStore(t *testing.T) {
	store, err := openVectorStore(memoryStorePath)
	require.NoError(t, err)
	assert.IsType(t, &memory.VectorStore{}, store)
	assert.NoError(t, store.Close())

	store, err = openVectorStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
