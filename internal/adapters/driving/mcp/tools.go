package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Question string `json:"question" jsonschema:"the customer's question"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of documents used as context (default 3)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Response string         `json:"response"`
	Sources  []ResultOutput `json:"sources"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"what to look for in the knowledge base"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []ResultOutput `json:"results"`
	Count   int            `json:"count"`
}

// ResultOutput represents a single retrieved document.
type ResultOutput struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"file or directory to load into the knowledge base"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Documents int      `json:"documents"`
	Chunks    int      `json:"chunks"`
	Stored    int      `json:"stored"`
	Warnings  []string `json:"warnings,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a customer question using the wine catalogue and store knowledge",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find wines, reviews, emails and policy pages related to a query",
	}, s.handleSearch)

	if s.ports.Loader != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Load a catalogue, conversation, email or PDF file into the knowledge base",
		}, s.handleIngest)
	}
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	if input.Question == "" {
		return nil, QueryOutput{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	result, err := s.ports.RAG.Query(ctx, input.Question, input.Limit)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	return nil, QueryOutput{
		Response: result.Response,
		Sources:  toOutputs(result.RelevantDocuments),
	}, nil
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.RAG.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Results: toOutputs(results),
		Count:   len(results),
	}, nil
}

// handleIngest stores whatever loaded, even when some files failed;
// the failures come back as warnings.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if input.Path == "" {
		return nil, IngestOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	docs, loadErr := s.ports.Loader.LoadPath(ctx, input.Path)
	if loadErr != nil && len(docs) == 0 {
		return nil, IngestOutput{}, fmt.Errorf("loading %s: %w", input.Path, loadErr)
	}

	report, err := s.ports.RAG.Ingest(ctx, docs)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	out := IngestOutput{
		Documents: report.Documents,
		Chunks:    report.Chunks,
		Stored:    report.Stored,
	}
	if loadErr != nil {
		out.Warnings = splitJoined(loadErr)
	}
	return nil, out, nil
}

func toOutputs(results []domain.SearchResult) []ResultOutput {
	out := make([]ResultOutput, len(results))
	for i, r := range results {
		id := r.Metadata.OriginalID
		if id == "" {
			id = r.Metadata.ChunkID
		}
		out[i] = ResultOutput{
			ID:      id,
			Type:    string(r.Metadata.Type),
			Score:   r.Score,
			Content: r.Content,
		}
	}
	return out
}

// splitJoined flattens an errors.Join result into messages.
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		msgs := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
