package loaders

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// extractBody extracts the text content from an email message.
func extractBody(msg *mail.Message) (string, error) {
	body, err := readPart(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	if err != nil {
		return "", err
	}
	return bodyText(msg.Header.Get("Content-Type"), body), nil
}

// bodyText renders one (possibly multipart) body as text.
func bodyText(contentType string, body []byte) string {
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body)
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		return multipartText(body, params["boundary"])
	case mediaType == "text/html":
		return stripHTML(string(body))
	case strings.HasPrefix(mediaType, "text/"):
		return string(body)
	default:
		return ""
	}
}

// multipartText prefers text/plain parts over text/html parts.
func multipartText(body []byte, boundary string) string {
	if boundary == "" {
		return ""
	}

	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	var textParts, htmlParts []string
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}
		if isAttachment(part) {
			part.Close()
			continue
		}

		content, readErr := readPart(part, part.Header.Get("Content-Transfer-Encoding"))
		partType := part.Header.Get("Content-Type")
		part.Close()
		if readErr != nil {
			continue
		}

		mediaType, _, _ := mime.ParseMediaType(partType)
		text := strings.TrimSpace(bodyText(partType, content))
		switch {
		case text == "":
		case mediaType == "text/html":
			htmlParts = append(htmlParts, text)
		default:
			textParts = append(textParts, text)
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n")
	}
	return strings.Join(htmlParts, "\n")
}

func isAttachment(part *multipart.Part) bool {
	disposition, _, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	return err == nil && disposition == "attachment"
}

// readPart reads r, undoing the transfer encoding. multipart.Reader already
// decodes quoted-printable parts and drops the header, so that case falls
// through to a plain read.
func readPart(r io.Reader, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidInput, err)
	}
	return data, nil
}
