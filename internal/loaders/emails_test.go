package loaders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

func TestEmailJSONLoader_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "saved_emails.json", emailsJSON)
	l := NewEmailJSONLoader()
	require.True(t, l.Supports(path))

	docs, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	first := docs[0]
	assert.Equal(t, "email_m1", first.ID)
	assert.Equal(t, domain.DocumentTypeEmail, first.Metadata.Type)
	assert.Equal(t,
		"Subject: Order question\nFrom: ana@example.com\nDate: Mon, 1 Jan 2024\n\nWhere is my order?",
		first.Content)
	sender, _ := first.Metadata.Get("sender")
	assert.Equal(t, "ana@example.com", sender)
	source, _ := first.Metadata.Get("source")
	assert.Equal(t, "saved_emails.json", source)

	second := docs[1]
	assert.Equal(t, "email_2", second.ID)
	assert.Equal(t, "Subject: No Subject\nFrom: Unknown\nDate: Unknown\n\nJust a snippet", second.Content)
}

func TestEmailJSONLoader_IDFallback(t *testing.T) {
	path := writeFile(t, t.TempDir(), "inbox.json",
		`[{"subject": "Hello", "from": "a@b.c", "body": "plain body"}]`)

	docs, err := NewEmailJSONLoader().Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "email_inbox_0", docs[0].ID)
	assert.Contains(t, docs[0].Content, "plain body")
}

func TestEmailJSONLoader_DoesNotClaimConversations(t *testing.T) {
	path := writeFile(t, t.TempDir(), "conv.json", conversationsJSON)

	assert.False(t, NewEmailJSONLoader().Supports(path))
}

func TestEMLLoader_Plain(t *testing.T) {
	eml := "Message-ID: <abc123@example.com>\n" +
		"From: Bob <bob@example.com>\n" +
		"To: shop@example.com\n" +
		"Subject: =?UTF-8?Q?Ros=C3=A9_for_summer?=\n" +
		"Date: Tue, 2 Jan 2024 10:00:00 +0000\n" +
		"\n" +
		"Which rosé pairs with grilled fish?\n"
	path := writeFile(t, t.TempDir(), "question.eml", eml)
	l := NewEMLLoader()
	require.True(t, l.Supports(path))

	docs, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "email_abc123@example.com", doc.ID)
	assert.Equal(t,
		"Subject: Rosé for summer\nFrom: Bob <bob@example.com>\nDate: Tue, 2 Jan 2024 10:00:00 +0000\n\n"+
			"Which rosé pairs with grilled fish?",
		doc.Content)
	to, _ := doc.Metadata.Get("to")
	assert.Equal(t, "shop@example.com", to)
}

func TestEMLLoader_MultipartPrefersPlainText(t *testing.T) {
	eml := "From: carol@example.com\n" +
		"Subject: Barolo\n" +
		"MIME-Version: 1.0\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\n" +
		"\n" +
		"--b1\n" +
		"Content-Type: text/html; charset=utf-8\n" +
		"\n" +
		"<html><body><p>HTML version</p></body></html>\n" +
		"--b1\n" +
		"Content-Type: text/plain; charset=utf-8\n" +
		"Content-Transfer-Encoding: base64\n" +
		"\n" +
		"RG8geW91IGhhdmUgYSBCYXJvbG8gdW5kZXIgJDYwPw==\n" +
		"--b1\n" +
		"Content-Type: application/pdf\n" +
		"Content-Disposition: attachment; filename=\"invoice.pdf\"\n" +
		"\n" +
		"binary\n" +
		"--b1--\n"
	path := writeFile(t, t.TempDir(), "barolo.eml", eml)

	docs, err := NewEMLLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, "email_barolo", docs[0].ID)
	assert.Contains(t, docs[0].Content, "Do you have a Barolo under $60?")
	assert.NotContains(t, docs[0].Content, "HTML version")
	assert.NotContains(t, docs[0].Content, "binary")
}

func TestEMLLoader_HTMLOnly(t *testing.T) {
	eml := "From: dan@example.com\n" +
		"Subject: Newsletter\n" +
		"Content-Type: text/html; charset=utf-8\n" +
		"\n" +
		"<html><head><style>p{color:red}</style></head>" +
		"<body><p>New arrivals</p><script>track()</script><p>Chianti &amp; Rioja</p></body></html>\n"
	path := writeFile(t, t.TempDir(), "news.eml", eml)

	docs, err := NewEMLLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Contains(t, docs[0].Content, "New arrivals\nChianti & Rioja")
	assert.NotContains(t, docs[0].Content, "track()")
	assert.NotContains(t, docs[0].Content, "color:red")
}

func TestEMLLoader_Base64Body(t *testing.T) {
	eml := "From: erin@example.com\n" +
		"Subject: Pinot\n" +
		"Content-Type: text/plain\n" +
		"Content-Transfer-Encoding: base64\n" +
		"\n" +
		"UGlub3Qgbm9p\n" +
		"ciBxdWVzdGlvbg==\n"
	path := writeFile(t, t.TempDir(), "pinot.eml", eml)

	docs, err := NewEMLLoader().Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].Content, "\n\nPinot noir question")
}

func TestEMLLoader_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.eml", "not a header line\n")

	_, err := NewEMLLoader().Load(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStripHTML(t *testing.T) {
	in := "<div>Line one<br/>Line   two</div><!-- hidden --><p>&lt;three&gt;</p>"

	assert.Equal(t, "Line one\nLine two\n<three>", stripHTML(in))
}
