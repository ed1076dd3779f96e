package loaders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

func TestCatalogueLoader_Supports(t *testing.T) {
	dir := t.TempDir()
	l := NewCatalogueLoader()

	assert.True(t, l.Supports(writeFile(t, dir, "wines.json", catalogueJSON)))
	assert.False(t, l.Supports(writeFile(t, dir, "conv.json", conversationsJSON)))
	assert.False(t, l.Supports(writeFile(t, dir, "empty.json", `[]`)))
	assert.False(t, l.Supports(writeFile(t, dir, "wines.txt", catalogueJSON)))
	assert.False(t, l.Supports(writeFile(t, dir, "bad.json", `{not json`)))
}

func TestCatalogueLoader_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "wines.json", catalogueJSON)

	docs, err := NewCatalogueLoader().Load(context.Background(), path)
	require.NoError(t, err)

	// Two products plus two reviews of the first.
	require.Len(t, docs, 4)
	assert.Equal(t, "wine_1", docs[0].ID)
	assert.Equal(t, "wine_1_review_0", docs[1].ID)
	assert.Equal(t, "wine_1_review_1", docs[2].ID)
	assert.Equal(t, "wine_pn-7", docs[3].ID)

	product := docs[0]
	assert.Equal(t, domain.DocumentTypeWineProduct, product.Metadata.Type)
	want := "Wine: Château Margaux 2019\n" +
		"Type: Red\n" +
		"Grapes: Cabernet Sauvignon, Merlot\n" +
		"Description: A legendary Bordeaux wine.\n" +
		"Food Pairing: Red meat, game\n" +
		"Alcohol Content: 13.5%\n" +
		"Body: Full\n" +
		"Acidity: Medium\n" +
		"Price: $450.00\n" +
		"Region: Bordeaux, France\n" +
		"Country: France\n" +
		"Product Code: CM2019\n" +
		"Featured: Yes\n" +
		"\nCustomer Reviews (2 reviews):\n" +
		"Average Rating: 4.5/5 stars\n" +
		"- WineLover123: 5/5 - Absolutely stunning wine!\n" +
		"- SommelierMike: 4/5 - Complex and elegant.\n"
	assert.Equal(t, want, product.Content)

	price, _ := product.Metadata.Get("price")
	assert.Equal(t, 45000, price)
	avg, _ := product.Metadata.Get("average_rating")
	assert.InDelta(t, 4.5, avg, 1e-9)

	rev := docs[1]
	assert.Equal(t, domain.DocumentTypeCustomerReview, rev.Metadata.Type)
	assert.Contains(t, rev.Content, "Customer review of Château Margaux 2019")
	assert.Contains(t, rev.Content, "Rating: 5/5")

	second := docs[3]
	assert.Contains(t, second.Content, "Alcohol Content: 13.0%")
	assert.Contains(t, second.Content, "Country: USA")
	assert.Contains(t, second.Content, "Featured: No")
	assert.NotContains(t, second.Content, "Customer Reviews")
}

func TestCatalogueLoader_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "wines.json", `[{"name": "x", "price": "free"}]`)

	_, err := NewCatalogueLoader().Load(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCountryOf(t *testing.T) {
	tests := []struct{ region, want string }{
		{"Tuscany, Italy", "Italy"},
		{"Bordeaux, France", "France"},
		{"Willamette, Oregon", "USA"},
		{"Napa Valley, USA", "USA"},
		{"Mendoza, Argentina", "Argentina"},
		{"Barossa Valley", "Barossa Valley"},
		{"Stellenbosch, WC, South Africa", "South Africa"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countryOf(tt.region), tt.region)
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$65.00", formatPrice(6500))
	assert.Equal(t, "$0.99", formatPrice(99))
	assert.Equal(t, "14.0", formatABV(14))
	assert.Equal(t, "12.5", formatABV(12.5))
}
