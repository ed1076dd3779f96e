package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

func barolo() domain.SearchResult {
	meta := domain.NewMetadata(domain.DocumentTypeWineProduct, nil)
	meta.ChunkID = "wine_7_chunk_0"
	meta.OriginalID = "wine_7"
	return domain.SearchResult{
		Content:  "Wine: Barolo 2018\nType: Red\nPrice: $58.00",
		Metadata: meta,
		Score:    0.87,
	}
}

func TestQueryCmd_AnswersFromArgs(t *testing.T) {
	rag := &mockRAGService{result: &domain.QueryResult{
		Response:          "  Yes, we have a 2018 Barolo for $58.  ",
		RelevantDocuments: []domain.SearchResult{barolo()},
	}}
	cleanup := setupTestServices(rag, nil)
	defer cleanup()

	out, err := execute([]string{"query", "do", "you", "have", "barolo?"}, "")

	require.NoError(t, err)
	assert.Equal(t, "do you have barolo?", rag.question)
	assert.Equal(t, domain.DefaultQueryLimit, rag.limit)
	assert.Equal(t, "Yes, we have a 2018 Barolo for $58.\n", out)
}

func TestQueryCmd_Sources(t *testing.T) {
	rag := &mockRAGService{result: &domain.QueryResult{
		Response:          "Yes.",
		RelevantDocuments: []domain.SearchResult{barolo()},
	}}
	cleanup := setupTestServices(rag, nil)
	defer cleanup()

	out, err := execute([]string{"query", "--sources", "-n", "5", "barolo?"}, "")

	require.NoError(t, err)
	assert.Equal(t, 5, rag.limit)
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] wine_product wine_7 (0.87)")
}

func TestQueryCmd_ReadsPipedStdin(t *testing.T) {
	rag := &mockRAGService{result: &domain.QueryResult{Response: "Chianti."}}
	cleanup := setupTestServices(rag, nil)
	defer cleanup()
	stdinIsTerminal = func() bool { return false }

	out, err := execute([]string{"query"}, "Which red goes with pizza?\n")

	require.NoError(t, err)
	assert.Equal(t, "Which red goes with pizza?", rag.question)
	assert.Contains(t, out, "Chianti.")
}

func TestQueryCmd_RequiresQuestion(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
		stdin    string
	}{
		{name: "terminal without args", terminal: true},
		{name: "empty pipe", terminal: false, stdin: "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rag := &mockRAGService{}
			cleanup := setupTestServices(rag, nil)
			defer cleanup()
			stdinIsTerminal = func() bool { return tt.terminal }

			_, err := execute([]string{"query"}, tt.stdin)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "a question is required")
			assert.Empty(t, rag.question)
		})
	}
}

func TestQueryCmd_JSON(t *testing.T) {
	rag := &mockRAGService{result: &domain.QueryResult{
		Response:          "Yes.",
		RelevantDocuments: []domain.SearchResult{barolo()},
		Query:             "barolo?",
	}}
	cleanup := setupTestServices(rag, nil)
	defer cleanup()

	out, err := execute([]string{"query", "--json", "barolo?"}, "")

	require.NoError(t, err)
	assert.Contains(t, out, `"response": "Yes."`)
	assert.Contains(t, out, `"original_id": "wine_7"`)
}

func TestQueryCmd_Failure(t *testing.T) {
	cleanup := setupTestServices(&mockRAGService{err: domain.ErrProviderUnavailable}, nil)
	defer cleanup()

	_, err := execute([]string{"query", "hello"}, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
