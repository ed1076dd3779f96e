package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	cleanup := setupTestServices(&mockRAGService{}, nil)
	defer cleanup()

	_, err := execute([]string{"search"}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestSearchCmd_Table(t *testing.T) {
	rag := &mockRAGService{results: []domain.SearchResult{barolo()}}
	cleanup := setupTestServices(rag, nil)
	defer cleanup()

	out, err := execute([]string{"search", "-n", "2", "italian", "red"}, "")

	require.NoError(t, err)
	assert.Equal(t, "italian red", rag.question)
	assert.Equal(t, 2, rag.limit)
	assert.Contains(t, out, "[1] wine_product wine_7 (0.87)")
	assert.Contains(t, out, "Wine: Barolo 2018 Type: Red Price: $58.00")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices(&mockRAGService{}, nil)
	defer cleanup()

	out, err := execute([]string{"search", "sake"}, "")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSON(t *testing.T) {
	cleanup := setupTestServices(&mockRAGService{results: []domain.SearchResult{barolo()}}, nil)
	defer cleanup()

	out, err := execute([]string{"search", "--json", "barolo"}, "")

	require.NoError(t, err)
	assert.Contains(t, out, `"type": "wine_product"`)
	assert.Contains(t, out, `"score": 0.87`)
}

func TestSearchCmd_Failure(t *testing.T) {
	cleanup := setupTestServices(&mockRAGService{err: domain.ErrNotInitialised}, nil)
	defer cleanup()

	_, err := execute([]string{"search", "barolo"}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n b\t\tc  "))

	long := strings.Repeat("x", snippetLength+10)
	got := snippet(long)
	assert.Equal(t, strings.Repeat("x", snippetLength)+"...", got)

	accents := strings.Repeat("é", snippetLength)
	assert.Equal(t, accents, snippet(accents))
}
