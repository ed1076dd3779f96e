package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnswer instructs the model to answer a customer question from context.
	// The template expects {{context}} and {{query}} placeholders.
	PromptAnswer = "answer"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}

// DefaultAnswerPrompt is the built-in answer template.
// {{context}} receives the composed product and information blocks, {{query}} the question.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultAnswerPrompt = `You are a wine store customer service assistant. Answer the user's question concisely and directly.

CONTEXT:
{{context}}

USER QUESTION: {{query}}

INSTRUCTIONS:
- If asking about specific wines, focus on the wine products listed above
- Keep responses concise and to the point
- If we have the wines they're asking about, say so directly
- Don't include irrelevant information about return policies or wine clubs unless specifically asked
- If you don't have specific information, say so clearly

RESPONSE:`
