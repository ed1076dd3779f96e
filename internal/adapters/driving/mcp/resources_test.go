package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractPromptName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid prompt URI", uri: "sommelier://prompts/answer", expected: "answer"},
		{name: "invalid prefix", uri: "file://prompts/answer", expected: ""},
		{name: "nested path", uri: "sommelier://prompts/a/b", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractPromptName(tt.uri))
		})
	}
}

func TestServer_handleSuggestionsResource(t *testing.T) {
	server, err := NewServer(&Ports{RAG: &mockRAGService{}})
	require.NoError(t, err)

	result, err := server.handleSuggestionsResource(context.Background(),
		makeReadResourceRequest("sommelier://suggestions"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, "How should I store wine?")
}

func TestServer_handleStatusResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns status", func(t *testing.T) {
		rag := &mockRAGService{status: &domain.Status{
			EmbeddingModel: "all-minilm",
			Collection:     "wine_knowledge",
			Dimensions:     384,
			Points:         42,
		}}
		server, err := NewServer(&Ports{RAG: rag})
		require.NoError(t, err)

		result, err := server.handleStatusResource(ctx, makeReadResourceRequest("sommelier://status"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"points": 42`)
		assert.Contains(t, result.Contents[0].Text, `"collection": "wine_knowledge"`)
	})

	t.Run("not initialised", func(t *testing.T) {
		server, err := NewServer(&Ports{RAG: &mockRAGService{err: domain.ErrNotInitialised}})
		require.NoError(t, err)

		_, err = server.handleStatusResource(ctx, makeReadResourceRequest("sommelier://status"))

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotInitialised)
	})
}

func TestServer_handlePromptResource(t *testing.T) {
	ctx := context.Background()
	prompts := &mockPromptStore{prompts: map[string]string{"answer": "Q: {{query}}"}}
	server, err := NewServer(&Ports{RAG: &mockRAGService{}, Prompts: prompts})
	require.NoError(t, err)

	t.Run("returns template", func(t *testing.T) {
		result, err := server.handlePromptResource(ctx, makeReadResourceRequest("sommelier://prompts/answer"))

		require.NoError(t, err)
		assert.Equal(t, "Q: {{query}}", result.Contents[0].Text)
	})

	t.Run("unknown prompt is not found", func(t *testing.T) {
		_, err := server.handlePromptResource(ctx, makeReadResourceRequest("sommelier://prompts/missing"))

		require.Error(t, err)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		_, err := server.handlePromptResource(ctx, makeReadResourceRequest("sommelier://other"))

		require.Error(t, err)
	})
}
