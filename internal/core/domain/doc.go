// Package domain defines the core business entities for Sommelier.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A business document (email, PDF page, product, conversation turn)
//   - Chunk: A retrievable window of one document
//   - StoredPoint: A chunk embedding plus payload in a collection
//   - SearchResult: A stored point projected for callers, with its score
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
