package loaders

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
)

// Ensure ConversationLoader implements the interface.
var _ driven.DocumentLoader = (*ConversationLoader)(nil)

type message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type conversation struct {
	ID               recordID `json:"id"`
	CustomerEmail    message  `json:"customer_email"`
	BusinessResponse message  `json:"business_response"`
}

// ConversationLoader reads past support conversations. Each conversation
// yields the customer's question and the business response as two documents.
type ConversationLoader struct{}

// NewConversationLoader creates a conversation loader.
func NewConversationLoader() *ConversationLoader {
	return &ConversationLoader{}
}

// Name returns the loader name.
func (l *ConversationLoader) Name() string { return "conversations" }

// Supports matches JSON arrays of records with customer_email and business_response.
func (l *ConversationLoader) Supports(path string) bool {
	return jsonHasKeys(path, "customer_email", "business_response")
}

// Load reads the conversations file.
func (l *ConversationLoader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	var convs []conversation
	if err := readRecords(path, &convs); err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, 2*len(convs))
	for _, c := range convs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs = append(docs,
			conversationDocument(c.ID, "customer", "Customer Question",
				domain.DocumentTypeCustomerQuestion, c.CustomerEmail),
			conversationDocument(c.ID, "business", "Business Response",
				domain.DocumentTypeBusinessResponse, c.BusinessResponse),
		)
	}
	return docs, nil
}

func conversationDocument(id recordID, side, label string, t domain.DocumentType, m message) domain.Document {
	return domain.Document{
		ID:      fmt.Sprintf("%s_%s", id, side),
		Content: fmt.Sprintf("%s: %s\n\n%s", label, m.Subject, m.Body),
		Metadata: domain.NewMetadata(t, map[string]any{
			"conversation_id": string(id),
			"subject":         m.Subject,
		}),
	}
}
