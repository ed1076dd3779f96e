// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// wine knowledge base. It lets AI assistants ask questions, search the
// catalogue and load new documents.
package mcp

import "errors"

// ErrMissingRAGService is returned when the knowledge base is not provided.
var ErrMissingRAGService = errors.New("mcp: knowledge base is required")
