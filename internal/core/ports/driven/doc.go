// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Converts chunk and query text to vectors
//   - LLMService: Generates answers from the composed prompt
//   - VectorStore: Point persistence and nearest-neighbour search
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application falls back to built-in behaviour:
//
//   - PromptStore: Editable prompt templates. Without it, the default answer prompt is used.
//   - AIConfigValidator: Connectivity checks for provider settings.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or loader package
package driven
