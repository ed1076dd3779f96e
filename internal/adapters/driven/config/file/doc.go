// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with SOMMELIER_* environment overrides
//   - PromptStore: User-editable prompt templates, hot-reloaded by Watch
//
// LoadEnvFiles reads .env files into the process environment before the
// config store is consulted.
package file
