package loaders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

func TestConversationLoader_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "conversations.json", conversationsJSON)
	l := NewConversationLoader()
	require.True(t, l.Supports(path))

	docs, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	q, a := docs[0], docs[1]
	assert.Equal(t, "conv_1_customer", q.ID)
	assert.Equal(t, domain.DocumentTypeCustomerQuestion, q.Metadata.Type)
	assert.Equal(t, "Customer Question: Shipping to Texas\n\nDo you ship to Austin?", q.Content)

	assert.Equal(t, "conv_1_business", a.ID)
	assert.Equal(t, domain.DocumentTypeBusinessResponse, a.Metadata.Type)
	assert.Equal(t, "Business Response: Re: Shipping to Texas\n\nYes, within 3-5 days.", a.Content)

	convID, _ := a.Metadata.Get("conversation_id")
	assert.Equal(t, "conv_1", convID)
}

func TestConversationLoader_CancelledContext(t *testing.T) {
	path := writeFile(t, t.TempDir(), "conversations.json", conversationsJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewConversationLoader().Load(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
}
