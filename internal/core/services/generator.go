package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/logger"
)

// apologyPrefix starts every degraded answer.
const apologyPrefix = "I apologize, but I encountered an error while generating a response: "

// maxAdditionalDocs bounds how many non-product documents reach the prompt.
const maxAdditionalDocs = 2

// productThreshold is the product count at which extra context is left out.
const productThreshold = 3

// Ensure Generator implements the interface.
var _ driven.PromptStoreAware = (*Generator)(nil)

// Generator turns retrieved documents into a grounded answer.
// It never fails: provider errors come back as an apology string.
type Generator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	opts    driven.GenerateOptions
}

// NewGenerator creates a response generator.
func NewGenerator(llm driven.LLMService, opts driven.GenerateOptions) *Generator {
	return &Generator{
		llm:  llm,
		opts: opts,
	}
}

// SetPromptStore sets the prompt store for loading the answer template.
func (g *Generator) SetPromptStore(store driven.PromptStore) {
	g.prompts = store
}

// Generate answers query from docs and returns the model text verbatim.
func (g *Generator) Generate(ctx context.Context, query string, docs []domain.SearchResult) string {
	logger.Section("Generation")
	logger.Info("Generating response for: %s", query)

	if g.llm == nil {
		logger.Error("Error generating response: %v", domain.ErrProviderUnavailable)
		return apologyPrefix + domain.ErrProviderUnavailable.Error()
	}

	prompt := g.BuildPrompt(query, docs)
	logger.Debug("Prompt is %d characters", utf8.RuneCountInString(prompt))

	response, err := g.llm.Generate(ctx, prompt, g.opts)
	if err != nil {
		logger.Error("Error generating response: %v", err)
		return apologyPrefix + err.Error()
	}

	logger.Info("Generated response successfully")
	return response
}

// BuildPrompt renders the answer template for query and docs.
// Categories are re-derived from each document's type, not from input order.
func (g *Generator) BuildPrompt(query string, docs []domain.SearchResult) string {
	return strings.NewReplacer(
		"{{context}}", BuildContext(docs),
		"{{query}}", query,
	).Replace(g.template())
}

// BuildContext lists every product, then up to two other documents when
// fewer than three products were found.
func BuildContext(docs []domain.SearchResult) string {
	products, others := PartitionByType(docs)

	var parts []string
	if len(products) > 0 {
		parts = append(parts, "WINE PRODUCTS:")
		for _, d := range products {
			parts = append(parts, "- "+d.Content)
		}
	}

	if len(others) > 0 && len(products) < productThreshold {
		parts = append(parts, "\nADDITIONAL INFORMATION:")
		for _, d := range headOf(others, maxAdditionalDocs) {
			parts = append(parts, "- "+d.Content)
		}
	}

	return strings.Join(parts, "\n")
}

func (g *Generator) template() string {
	if g.prompts == nil {
		return driven.DefaultAnswerPrompt
	}
	tmpl, err := g.prompts.Load(driven.PromptAnswer)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		logger.Warn("Using built-in answer prompt: %v", err)
		return driven.DefaultAnswerPrompt
	}
	return tmpl
}
