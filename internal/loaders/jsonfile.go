package loaders

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

// readRecords decodes a JSON file holding an array of objects into out.
func readRecords(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, filepath.Base(path), err)
	}
	return nil
}

// jsonHasKeys reports whether path is a JSON array whose first object
// carries every one of keys. Empty arrays never match.
func jsonHasKeys(path string, keys ...string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return false
	}
	var records []map[string]json.RawMessage
	if err := readRecords(path, &records); err != nil || len(records) == 0 {
		return false
	}
	for _, k := range keys {
		if _, ok := records[0][k]; !ok {
			return false
		}
	}
	return true
}

// orDefault returns s, or def when s is blank.
func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// recordID accepts both numeric and string identifiers.
type recordID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *recordID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = recordID(n.String())
	return nil
}
