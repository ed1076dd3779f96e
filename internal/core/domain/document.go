package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// DocumentType discriminates the kind of business document a record came from.
// It drives retrieval prioritisation, so it lives outside the free-form metadata.
type DocumentType string

// Known document types. Unknown values are carried through unchanged.
const (
	DocumentTypeEmail            DocumentType = "email"
	DocumentTypePDF              DocumentType = "pdf"
	DocumentTypeWineProduct      DocumentType = "wine_product"
	DocumentTypeCustomerReview   DocumentType = "customer_review"
	DocumentTypeCustomerQuestion DocumentType = "customer_question"
	DocumentTypeBusinessResponse DocumentType = "business_response"
)

// IsProduct returns true for product catalogue records.
func (t DocumentType) IsProduct() bool {
	return t == DocumentTypeWineProduct
}

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// Reserved metadata keys used in flattened payloads.
const (
	MetadataKeyType       = "type"
	MetadataKeyChunkID    = "chunk_id"
	MetadataKeyOriginalID = "original_id"
)

// Metadata describes where a document came from.
// Type is explicit; everything else is provenance carried in Extra.
type Metadata struct {
	// Type is the document discriminator.
	Type DocumentType

	// ChunkID is set on chunk metadata only ("{parent}_chunk_{n}").
	ChunkID string

	// OriginalID is set on chunk metadata only and names the parent document.
	OriginalID string

	// Extra holds passthrough provenance fields (subject, sender, price, page...).
	Extra map[string]any
}

// NewMetadata creates metadata of the given type with optional extra fields.
func NewMetadata(t DocumentType, extra map[string]any) Metadata {
	return Metadata{Type: t, Extra: extra}
}

// Clone returns a deep-enough copy that mutations of Extra do not leak.
func (m Metadata) Clone() Metadata {
	out := m
	if m.Extra != nil {
		out.Extra = maps.Clone(m.Extra)
	}
	return out
}

// Get returns a passthrough field.
func (m Metadata) Get(key string) (any, bool) {
	if m.Extra == nil {
		return nil, false
	}
	v, ok := m.Extra[key]
	return v, ok
}

// Map flattens the metadata into a single map, reserved keys included.
// Reserved keys always win over Extra entries of the same name.
func (m Metadata) Map() map[string]any {
	out := make(map[string]any, len(m.Extra)+3)
	for k, v := range m.Extra {
		out[k] = v
	}
	out[MetadataKeyType] = string(m.Type)
	if m.ChunkID != "" {
		out[MetadataKeyChunkID] = m.ChunkID
	}
	if m.OriginalID != "" {
		out[MetadataKeyOriginalID] = m.OriginalID
	}
	return out
}

// MetadataFromMap rebuilds metadata from a flattened map.
func MetadataFromMap(raw map[string]any) Metadata {
	var m Metadata
	extra := make(map[string]any, len(raw))
	for k, v := range raw {
		switch k {
		case MetadataKeyType:
			m.Type = DocumentType(fmt.Sprint(v))
		case MetadataKeyChunkID:
			m.ChunkID = fmt.Sprint(v)
		case MetadataKeyOriginalID:
			m.OriginalID = fmt.Sprint(v)
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		m.Extra = extra
	}
	return m
}

// MarshalJSON encodes metadata as a flat object.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Map())
}

// UnmarshalJSON decodes a flat object.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = MetadataFromMap(raw)
	return nil
}

// Document is a logical source item: an email, a PDF page, a product record,
// or one turn of a conversation. It is the input to ingestion.
type Document struct {
	// ID is unique per logical source item.
	ID string `json:"id"`

	// Content is the full text before chunking.
	Content string `json:"content"`

	// Metadata always carries a Type.
	Metadata Metadata `json:"metadata"`
}

// IsBlank returns true if the document has no indexable text.
func (d Document) IsBlank() bool {
	return strings.TrimSpace(d.Content) == ""
}

// Chunk is an immutable text window derived from exactly one Document.
type Chunk struct {
	// ID is "{parent_id}_chunk_{n}".
	ID string

	// OriginalID is the parent document ID.
	OriginalID string

	// Position is the zero-based emission order within the parent.
	Position int

	// Content is the window text. Never empty.
	Content string

	// Metadata is the parent metadata plus ChunkID and OriginalID.
	Metadata Metadata
}

// ChunkID builds the identifier of the n-th chunk of a document.
func ChunkID(parentID string, n int) string {
	return fmt.Sprintf("%s_chunk_%d", parentID, n)
}

// Payload returns the stored side of the chunk.
func (c Chunk) Payload() Payload {
	return Payload{Content: c.Content, Metadata: c.Metadata}
}
