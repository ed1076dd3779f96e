package loaders

import (
	"context"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
)

// Placeholders for missing email headers.
const (
	noSubject     = "No Subject"
	unknownHeader = "Unknown"
)

// Ensure the email loaders implement the interface.
var (
	_ driven.DocumentLoader = (*EmailJSONLoader)(nil)
	_ driven.DocumentLoader = (*EMLLoader)(nil)
)

// savedEmail is one record of a saved mailbox export.
type savedEmail struct {
	ID       recordID `json:"id"`
	Subject  string   `json:"subject"`
	From     string   `json:"from"`
	Date     string   `json:"date"`
	FullBody string   `json:"full_body"`
	Body     string   `json:"body"`
	Snippet  string   `json:"snippet"`
}

// text prefers the full body, then the body, then the snippet.
func (e savedEmail) text() string {
	for _, s := range []string{e.FullBody, e.Body, e.Snippet} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// emailDocument renders the header block followed by the body.
func emailDocument(id, subject, from, date, body string, extra map[string]any) domain.Document {
	subject = orDefault(subject, noSubject)
	from = orDefault(from, unknownHeader)
	date = orDefault(date, unknownHeader)

	meta := map[string]any{
		"subject": subject,
		"sender":  from,
		"date":    date,
	}
	for k, v := range extra {
		meta[k] = v
	}

	return domain.Document{
		ID:       "email_" + id,
		Content:  fmt.Sprintf("Subject: %s\nFrom: %s\nDate: %s\n\n%s", subject, from, date, body),
		Metadata: domain.NewMetadata(domain.DocumentTypeEmail, meta),
	}
}

// EmailJSONLoader reads saved email exports: a JSON array of
// {id, subject, from, date, full_body|body|snippet} records.
type EmailJSONLoader struct{}

// NewEmailJSONLoader creates a saved email loader.
func NewEmailJSONLoader() *EmailJSONLoader {
	return &EmailJSONLoader{}
}

// Name returns the loader name.
func (l *EmailJSONLoader) Name() string { return "emails" }

// Supports matches JSON arrays of records with a subject and a sender.
func (l *EmailJSONLoader) Supports(path string) bool {
	return jsonHasKeys(path, "subject", "from")
}

// Load reads the export. Records without any body are kept; the chunker
// still indexes their header block.
func (l *EmailJSONLoader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	var emails []savedEmail
	if err := readRecords(path, &emails); err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(emails))
	for i, e := range emails {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := string(e.ID)
		if id == "" {
			id = fmt.Sprintf("%s_%d", stem(path), i)
		}
		docs = append(docs, emailDocument(id, e.Subject, e.From, e.Date, e.text(), map[string]any{
			"email_id": id,
			"source":   filepath.Base(path),
		}))
	}
	return docs, nil
}

// EMLLoader reads RFC 822 messages saved as .eml files.
type EMLLoader struct{}

// NewEMLLoader creates an .eml loader.
func NewEMLLoader() *EMLLoader {
	return &EMLLoader{}
}

// Name returns the loader name.
func (l *EMLLoader) Name() string { return "eml" }

// Supports matches the .eml extension.
func (l *EMLLoader) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".eml")
}

// Load parses one message. The document ID comes from Message-ID when
// present, otherwise from the file name.
func (l *EMLLoader) Load(_ context.Context, path string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	msg, err := mail.ReadMessage(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, filepath.Base(path), err)
	}

	body, err := extractBody(msg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	id := strings.Trim(strings.TrimSpace(msg.Header.Get("Message-ID")), "<>")
	if id == "" {
		id = stem(path)
	}

	extra := map[string]any{
		"email_id": id,
		"source":   filepath.Base(path),
	}
	if to := decodeHeader(msg.Header.Get("To")); to != "" {
		extra["to"] = to
	}

	return []domain.Document{emailDocument(
		id,
		decodeHeader(msg.Header.Get("Subject")),
		decodeHeader(msg.Header.Get("From")),
		msg.Header.Get("Date"),
		strings.TrimSpace(body),
		extra,
	)}, nil
}

// stem returns the file name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
