package loaders

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/sommelier/internal/core/domain"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
)

// Ensure CatalogueLoader implements the interface.
var _ driven.DocumentLoader = (*CatalogueLoader)(nil)

// wine is one catalogue record. Price is in cents.
type wine struct {
	ID          recordID `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"elaborate"`
	Grapes      string   `json:"grapes"`
	Pairing     string   `json:"harmonize"`
	ABV         float64  `json:"abv"`
	Body        string   `json:"body"`
	Acidity     string   `json:"acidity"`
	Code        string   `json:"code"`
	Price       int      `json:"price"`
	Region      string   `json:"region"`
	Featured    bool     `json:"featured"`
	Reviews     []review `json:"reviews"`
}

type review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Author  string `json:"author"`
}

// CatalogueLoader reads the wine catalogue. Every wine becomes a
// wine_product document and every review a customer_review document.
type CatalogueLoader struct{}

// NewCatalogueLoader creates a catalogue loader.
func NewCatalogueLoader() *CatalogueLoader {
	return &CatalogueLoader{}
}

// Name returns the loader name.
func (l *CatalogueLoader) Name() string { return "catalogue" }

// Supports matches JSON arrays of records with a name and a price.
func (l *CatalogueLoader) Supports(path string) bool {
	return jsonHasKeys(path, "name", "price")
}

// Load reads the catalogue file.
func (l *CatalogueLoader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	var wines []wine
	if err := readRecords(path, &wines); err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(wines))
	for _, w := range wines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs = append(docs, productDocument(w))
		docs = append(docs, reviewDocuments(w)...)
	}
	return docs, nil
}

func productDocument(w wine) domain.Document {
	var b strings.Builder
	fmt.Fprintf(&b, "Wine: %s\n", w.Name)
	fmt.Fprintf(&b, "Type: %s\n", w.Type)
	fmt.Fprintf(&b, "Grapes: %s\n", w.Grapes)
	fmt.Fprintf(&b, "Description: %s\n", w.Description)
	fmt.Fprintf(&b, "Food Pairing: %s\n", w.Pairing)
	fmt.Fprintf(&b, "Alcohol Content: %s%%\n", formatABV(w.ABV))
	fmt.Fprintf(&b, "Body: %s\n", w.Body)
	fmt.Fprintf(&b, "Acidity: %s\n", w.Acidity)
	fmt.Fprintf(&b, "Price: %s\n", formatPrice(w.Price))
	fmt.Fprintf(&b, "Region: %s\n", w.Region)
	fmt.Fprintf(&b, "Country: %s\n", countryOf(w.Region))
	fmt.Fprintf(&b, "Product Code: %s\n", w.Code)
	fmt.Fprintf(&b, "Featured: %s\n", yesNo(w.Featured))

	avg := averageRating(w.Reviews)
	if len(w.Reviews) > 0 {
		fmt.Fprintf(&b, "\nCustomer Reviews (%d reviews):\n", len(w.Reviews))
		fmt.Fprintf(&b, "Average Rating: %.1f/5 stars\n", avg)
		for _, r := range w.Reviews {
			fmt.Fprintf(&b, "- %s: %d/5 - %s\n", r.Author, r.Rating, r.Comment)
		}
	}

	return domain.Document{
		ID:      "wine_" + string(w.ID),
		Content: b.String(),
		Metadata: domain.NewMetadata(domain.DocumentTypeWineProduct, map[string]any{
			"wine_id":        string(w.ID),
			"name":           w.Name,
			"wine_type":      w.Type,
			"price":          w.Price,
			"region":         w.Region,
			"featured":       w.Featured,
			"review_count":   len(w.Reviews),
			"average_rating": avg,
		}),
	}
}

func reviewDocuments(w wine) []domain.Document {
	docs := make([]domain.Document, 0, len(w.Reviews))
	for i, r := range w.Reviews {
		if strings.TrimSpace(r.Comment) == "" {
			continue
		}
		docs = append(docs, domain.Document{
			ID: fmt.Sprintf("wine_%s_review_%d", w.ID, i),
			Content: fmt.Sprintf("Customer review of %s\nRating: %d/5\nAuthor: %s\n\n%s",
				w.Name, r.Rating, orDefault(r.Author, "Anonymous"), r.Comment),
			Metadata: domain.NewMetadata(domain.DocumentTypeCustomerReview, map[string]any{
				"wine_id": string(w.ID),
				"name":    w.Name,
				"rating":  r.Rating,
				"author":  r.Author,
			}),
		})
	}
	return docs
}

func averageRating(reviews []review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// formatPrice renders cents as dollars.
func formatPrice(cents int) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// formatABV keeps one decimal for whole numbers, so 13 reads "13.0".
func formatABV(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// countryOf derives the country from a "Region, Country" string.
func countryOf(region string) string {
	switch {
	case strings.Contains(region, "Italy"):
		return "Italy"
	case strings.Contains(region, "France"):
		return "France"
	case strings.Contains(region, "Oregon"), strings.Contains(region, "USA"):
		return "USA"
	}
	parts := strings.Split(region, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
