// Package loaders turns business data files into documents for ingestion.
//
// Loaders sit outside the core and implement driven.DocumentLoader:
//
//   - CatalogueLoader: wine catalogue JSON (wine_product and customer_review)
//   - ConversationLoader: support conversation JSON (customer_question and business_response)
//   - EmailJSONLoader: saved email exports
//   - EMLLoader: RFC 822 .eml files
//   - PDFLoader: PDF files, one document per page, via pdftotext
//
// Registry picks a loader per file and walks directories.
package loaders
