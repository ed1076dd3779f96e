package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/core/ports/driving"
	"github.com/custodia-labs/sommelier/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.RAGService = (*RAGService)(nil)

// dimensionProbe is embedded once at start-up to discover the vector size.
const dimensionProbe = "test"

// RAGConfig configures the knowledge base.
type RAGConfig struct {
	// Collection configures the vector collection.
	Collection CollectionConfig

	// Concurrency is the number of chunks embedded in parallel during ingest.
	// Zero or one embeds sequentially.
	Concurrency int

	// Generate is passed to the language model on every answer.
	Generate driven.GenerateOptions
}

// RAGService composes the chunking pipeline, the vector collection, the
// retriever and the response generator into the knowledge base.
type RAGService struct {
	embedder driven.EmbeddingService
	llm      driven.LLMService
	store    driven.VectorStore
	pipeline driven.PostProcessorPipeline

	collection *Collection
	retriever  *Retriever
	generator  *Generator

	concurrency int

	mu          sync.RWMutex
	initialised bool
	dimFallback bool
}

// NewRAGService creates the knowledge base. Call Init before use.
func NewRAGService(
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	store driven.VectorStore,
	pipeline driven.PostProcessorPipeline,
	cfg RAGConfig,
) *RAGService {
	collection := NewCollection(store, cfg.Collection)
	return &RAGService{
		embedder:    embedder,
		llm:         llm,
		store:       store,
		pipeline:    pipeline,
		collection:  collection,
		retriever:   NewRetriever(embedder, collection),
		generator:   NewGenerator(llm, cfg.Generate),
		concurrency: max(1, cfg.Concurrency),
	}
}

// SetPromptStore sets the prompt store used for the answer template.
func (s *RAGService) SetPromptStore(store driven.PromptStore) {
	s.generator.SetPromptStore(store)
}

// Init probes the embedding dimension and opens the collection.
// A failed probe falls back to DefaultEmbeddingDimensions with a warning;
// a collection that cannot be opened is fatal.
func (s *RAGService) Init(ctx context.Context) error {
	logger.Section("Knowledge Base Init")

	dim := s.probeDimensions(ctx)

	if err := s.collection.EnsureCollection(ctx, dim); err != nil {
		return err
	}

	s.mu.Lock()
	s.initialised = true
	s.mu.Unlock()

	logger.Info("Knowledge base ready: collection=%s dimensions=%d", s.collection.Name(), dim)
	return nil
}

func (s *RAGService) probeDimensions(ctx context.Context) int {
	vector, err := s.embedder.Embed(ctx, dimensionProbe)
	if err == nil && len(vector) > 0 {
		logger.Debug("Embedding model %s has %d dimensions", s.embedder.ModelName(), len(vector))
		return len(vector)
	}
	if err == nil {
		err = errors.New("empty embedding")
	}

	logger.Warn("Could not determine embedding dimension (%v), using default %d",
		err, domain.DefaultEmbeddingDimensions)

	s.mu.Lock()
	s.dimFallback = true
	s.mu.Unlock()
	return domain.DefaultEmbeddingDimensions
}

// Query answers a question: Search, then Generate.
func (s *RAGService) Query(ctx context.Context, question string, limit int) (*domain.QueryResult, error) {
	if limit <= 0 {
		limit = domain.DefaultQueryLimit
	}

	docs, err := s.Search(ctx, question, limit)
	if err != nil {
		return nil, err
	}

	return &domain.QueryResult{
		Response:          s.generator.Generate(ctx, question, docs),
		RelevantDocuments: docs,
		Query:             question,
	}, nil
}

// Search retrieves documents, products first.
func (s *RAGService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}
	return s.retriever.Search(ctx, query, limit)
}

// Ingest chunks, embeds and stores docs. Each window of BatchSize chunks is
// embedded and then written before the next window starts, so an
// *IngestError reports exactly what reached the store.
func (s *RAGService) Ingest(ctx context.Context, docs []domain.Document) (*domain.IngestReport, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}

	report := &domain.IngestReport{
		RunID:     uuid.NewString(),
		Documents: len(docs),
	}

	logger.Section("Ingest")
	logger.Info("Run %s: ingesting %d documents", report.RunID, len(docs))

	chunks, skipped, err := s.chunkDocuments(ctx, docs)
	if err != nil {
		return report, &domain.IngestError{Err: err}
	}
	report.Skipped = skipped
	report.Chunks = len(chunks)

	if skipped > 0 {
		logger.Warn("Run %s: skipped %d documents without content", report.RunID, skipped)
	}
	if len(chunks) == 0 {
		return report, nil
	}

	first, err := s.collection.Reserve(ctx)
	if err != nil {
		return report, &domain.IngestError{Err: err}
	}

	batch := s.collection.BatchSize()
	for lo := 0; lo < len(chunks); lo += batch {
		hi := min(lo+batch, len(chunks))
		window := chunks[lo:hi]

		vectors, err := s.embedChunks(ctx, window)
		if err != nil {
			return report, &domain.IngestError{Stored: report.Stored, Err: err}
		}
		if err := s.collection.Write(ctx, first+uint64(lo), window, vectors); err != nil {
			return report, &domain.IngestError{Stored: report.Stored, Err: err}
		}
		report.Stored += len(window)
		logger.Debug("Run %s: stored %d/%d chunks", report.RunID, report.Stored, len(chunks))
	}

	logger.Info("Run %s: stored %d chunks from %d documents", report.RunID, report.Stored, len(docs))
	return report, nil
}

// chunkDocuments runs every document through the pipeline, keeping document
// order. Documents that yield no chunks are counted, not failed.
func (s *RAGService) chunkDocuments(ctx context.Context, docs []domain.Document) ([]domain.Chunk, int, error) {
	var (
		chunks  []domain.Chunk
		skipped int
	)
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		out, err := s.pipeline.Process(ctx, &docs[i])
		if err != nil {
			return nil, 0, fmt.Errorf("chunk %s: %w", docs[i].ID, err)
		}
		if len(out) == 0 {
			logger.Debug("Skipping %s: %v", docs[i].ID, domain.ErrMalformedDocument)
			skipped++
			continue
		}
		chunks = append(chunks, out...)
	}
	return chunks, skipped, nil
}

// embedChunks embeds each chunk once. With concurrency above one the calls
// fan out; the first failure cancels the rest.
func (s *RAGService) embedChunks(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	embed := func(ctx context.Context, i int) error {
		v, err := s.embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			return fmt.Errorf("embed %s: %w: %w", chunks[i].ID, domain.ErrProviderUnavailable, err)
		}
		vectors[i] = v
		return nil
	}

	if s.concurrency <= 1 {
		for i := range chunks {
			if err := embed(ctx, i); err != nil {
				return nil, err
			}
		}
		return vectors, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range chunks {
		g.Go(func() error {
			return embed(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Status describes the models and the collection.
func (s *RAGService) Status(ctx context.Context) (*domain.Status, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}

	points, err := s.collection.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count points: %w", err)
	}

	s.mu.RLock()
	fallback := s.dimFallback
	s.mu.RUnlock()

	st := &domain.Status{
		EmbeddingModel:    s.embedder.ModelName(),
		Collection:        s.collection.Name(),
		Dimensions:        s.collection.Dimensions(),
		DimensionFallback: fallback,
		Points:            points,
	}
	if s.llm != nil {
		st.LLMModel = s.llm.ModelName()
	}
	return st, nil
}

// Clear drops and recreates the collection.
func (s *RAGService) Clear(ctx context.Context) error {
	if err := s.requireInit(); err != nil {
		return err
	}
	logger.Info("Clearing collection %s", s.collection.Name())
	return s.collection.Reset(ctx)
}

// Close releases the store and providers.
func (s *RAGService) Close() error {
	var errs []error
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close vector store: %w", err))
	}
	if err := s.embedder.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close embedding service: %w", err))
	}
	if s.llm != nil {
		if err := s.llm.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close llm service: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *RAGService) requireInit() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialised {
		return domain.ErrNotInitialised
	}
	return nil
}
