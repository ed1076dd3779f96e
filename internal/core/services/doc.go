// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// RAGService is the knowledge base: it chunks documents through the
// post-processor pipeline, embeds and stores them through a Collection,
// retrieves with products ranked first and answers through the Generator.
// SettingsService reads and validates configuration.
//
// Services are pure Go with no CGO.
package services
