package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

var (
	ingestReset bool
	ingestJSON  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Load documents into the knowledge base",
	Long: `Loads files or directories into the knowledge base.

Supported sources:
  wine catalogue JSON      one document per wine and per review
  conversations JSON       customer question and business response
  saved emails JSON, .eml  one document per email
  PDF                      one document per page (needs pdftotext)

Directories are walked in lexical order. Files that cannot be loaded are
reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "clear the knowledge base first")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the ingest report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rag, err := knowledgeBase(ctx)
	if err != nil {
		return err
	}
	if documentLoader == nil {
		return errors.New("document loader not configured")
	}

	var (
		docs     []domain.Document
		failures []error
	)
	for _, path := range args {
		loaded, err := documentLoader.LoadPath(ctx, path)
		docs = append(docs, loaded...)
		if err != nil {
			cmd.PrintErrf("Warning: %v\n", err)
			failures = append(failures, err)
		}
	}
	if len(docs) == 0 {
		if len(failures) > 0 {
			return fmt.Errorf("nothing loaded: %w", errors.Join(failures...))
		}
		cmd.Println("No documents found.")
		return nil
	}

	if ingestReset {
		if err := rag.Clear(ctx); err != nil {
			return fmt.Errorf("clear knowledge base: %w", err)
		}
		cmd.Println("Knowledge base cleared.")
	}

	report, err := rag.Ingest(ctx, docs)
	if err != nil {
		var ingestErr *domain.IngestError
		if errors.As(err, &ingestErr) {
			cmd.PrintErrf("Stored %d chunks before the failure.\n", ingestErr.Stored)
		}
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Loaded %d documents (%d skipped)\n", report.Documents, report.Skipped)
	cmd.Printf("Stored %d of %d chunks\n", report.Stored, report.Chunks)
	return nil
}
