package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
)

func TestBuildContext(t *testing.T) {
	p := func(s string) domain.SearchResult { return result(domain.DocumentTypeWineProduct, s, 0.5) }
	o := func(s string) domain.SearchResult { return result(domain.DocumentTypeEmail, s, 0.5) }

	tests := []struct {
		name string
		docs []domain.SearchResult
		want string
	}{
		{
			name: "empty",
			docs: nil,
			want: "",
		},
		{
			name: "three products exclude other documents",
			docs: []domain.SearchResult{p("A"), p("B"), p("C"), o("D")},
			want: "WINE PRODUCTS:\n- A\n- B\n- C",
		},
		{
			name: "few products include up to two others",
			docs: []domain.SearchResult{p("A"), o("X"), o("Y"), o("Z")},
			want: "WINE PRODUCTS:\n- A\n\nADDITIONAL INFORMATION:\n- X\n- Y",
		},
		{
			name: "no products",
			docs: []domain.SearchResult{o("X")},
			want: "\nADDITIONAL INFORMATION:\n- X",
		},
		{
			name: "category follows type not position",
			docs: []domain.SearchResult{o("X"), p("A")},
			want: "WINE PRODUCTS:\n- A\n\nADDITIONAL INFORMATION:\n- X",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildContext(tt.docs))
		})
	}
}

func TestGenerator_BuildPrompt_DefaultTemplate(t *testing.T) {
	g := NewGenerator(&mockLLM{}, driven.GenerateOptions{})
	docs := []domain.SearchResult{result(domain.DocumentTypeWineProduct, "Malbec 2020, $24", 0.9)}

	prompt := g.BuildPrompt("Do you have Malbec?", docs)

	assert.True(t, strings.HasPrefix(prompt, "You are a wine store customer service assistant."))
	assert.Contains(t, prompt, "CONTEXT:\nWINE PRODUCTS:\n- Malbec 2020, $24\n")
	assert.Contains(t, prompt, "USER QUESTION: Do you have Malbec?")
	assert.True(t, strings.HasSuffix(prompt, "RESPONSE:"))
	assert.NotContains(t, prompt, "{{")
}

func TestGenerator_Generate_ReturnsModelText(t *testing.T) {
	llm := &mockLLM{response: "  Yes, we stock it.\n"}
	opts := driven.GenerateOptions{MaxTokens: 256, Temperature: 0.2}
	g := NewGenerator(llm, opts)

	got := g.Generate(context.Background(), "Do you have Malbec?", nil)

	assert.Equal(t, "  Yes, we stock it.\n", got, "model text is returned verbatim")
	assert.Equal(t, opts, llm.lastOpts)
	assert.Equal(t, 1, llm.calls)
}

func TestGenerator_Generate_ProviderError(t *testing.T) {
	llm := &mockLLM{err: errors.New("model not found")}
	g := NewGenerator(llm, driven.GenerateOptions{})

	got := g.Generate(context.Background(), "Hi", nil)

	assert.Equal(t, "I apologize, but I encountered an error while generating a response: model not found", got)
}

func TestGenerator_Generate_NoModel(t *testing.T) {
	g := NewGenerator(nil, driven.GenerateOptions{})

	got := g.Generate(context.Background(), "Hi", nil)

	assert.True(t, strings.HasPrefix(got, apologyPrefix))
	assert.Contains(t, got, domain.ErrProviderUnavailable.Error())
}

func TestGenerator_PromptStore(t *testing.T) {
	llm := &mockLLM{response: "ok"}
	g := NewGenerator(llm, driven.GenerateOptions{})
	g.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		driven.PromptAnswer: "Q={{query}} C={{context}}",
	}})

	g.Generate(context.Background(), "rosé?", []domain.SearchResult{
		result(domain.DocumentTypeWineProduct, "Provence Rosé", 0.7),
	})

	assert.Equal(t, "Q=rosé? C=WINE PRODUCTS:\n- Provence Rosé", llm.lastPrompt)
}

func TestGenerator_PromptStore_FallsBackToDefault(t *testing.T) {
	g := NewGenerator(&mockLLM{}, driven.GenerateOptions{})
	g.SetPromptStore(&mockPromptStore{prompts: map[string]string{}})

	prompt := g.BuildPrompt("q", nil)

	require.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "USER QUESTION: q")
}
