package domain

// DefaultSearchLimit is used when a search asks for zero or fewer results.
const DefaultSearchLimit = 5

// DefaultQueryLimit is the number of documents retrieved to answer a question.
const DefaultQueryLimit = 3

// CandidatePool is the number of nearest neighbours fetched from the vector store
// before type-based composition trims the list to the requested limit.
const CandidatePool = 50

// SearchResult is a read-only projection of a stored point plus its similarity.
type SearchResult struct {
	// Content is the chunk text.
	Content string `json:"content"`

	// Metadata is the chunk metadata.
	Metadata Metadata `json:"metadata"`

	// Score is the cosine similarity in [-1, 1].
	Score float64 `json:"score"`
}

// IsProduct returns true when the result came from a product record.
func (r SearchResult) IsProduct() bool {
	return r.Metadata.Type.IsProduct()
}

// QueryResult is the answer to a customer question.
type QueryResult struct {
	// Response is the generated answer (or an apology on generation failure).
	Response string `json:"response"`

	// RelevantDocuments are the retrieved context documents in composed order.
	RelevantDocuments []SearchResult `json:"relevant_documents"`

	// Query echoes the question.
	Query string `json:"query"`
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`

	// Documents is the number of documents received.
	Documents int `json:"documents"`

	// Skipped is the number of documents that produced no chunks.
	Skipped int `json:"skipped"`

	// Chunks is the number of chunks produced.
	Chunks int `json:"chunks"`

	// Stored is the number of chunks written to the vector store.
	Stored int `json:"stored"`
}

// Status describes the running knowledge base.
type Status struct {
	EmbeddingModel    string `json:"embedding_model"`
	LLMModel          string `json:"llm_model"`
	Collection        string `json:"collection"`
	Dimensions        int    `json:"dimensions"`
	DimensionFallback bool   `json:"dimension_fallback"`
	Points            int    `json:"points"`
}
