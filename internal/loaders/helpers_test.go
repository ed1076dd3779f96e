package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const catalogueJSON = `[
  {
    "id": 1,
    "name": "Château Margaux 2019",
    "type": "Red",
    "elaborate": "A legendary Bordeaux wine.",
    "grapes": "Cabernet Sauvignon, Merlot",
    "harmonize": "Red meat, game",
    "abv": 13.5,
    "body": "Full",
    "acidity": "Medium",
    "code": "CM2019",
    "price": 45000,
    "region": "Bordeaux, France",
    "featured": true,
    "reviews": [
      {"rating": 5, "comment": "Absolutely stunning wine!", "author": "WineLover123"},
      {"rating": 4, "comment": "Complex and elegant.", "author": "SommelierMike"}
    ]
  },
  {
    "id": "pn-7",
    "name": "Willamette Pinot Noir",
    "type": "Red",
    "abv": 13,
    "price": 3500,
    "region": "Willamette Valley, Oregon",
    "featured": false,
    "reviews": []
  }
]`

const conversationsJSON = `[
  {
    "id": "conv_1",
    "customer_email": {"subject": "Shipping to Texas", "body": "Do you ship to Austin?"},
    "business_response": {"subject": "Re: Shipping to Texas", "body": "Yes, within 3-5 days."}
  }
]`

const emailsJSON = `[
  {"id": "m1", "subject": "Order question", "from": "ana@example.com", "date": "Mon, 1 Jan 2024", "full_body": "Where is my order?"},
  {"id": 2, "subject": "", "from": "", "snippet": "Just a snippet"}
]`
