package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the knowledge base status",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	rag, err := knowledgeBase(cmd.Context())
	if err != nil {
		return err
	}

	status, err := rag.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Knowledge Base")
	cmd.Println("==============")
	cmd.Printf("  Collection: %s\n", status.Collection)
	cmd.Printf("  Chunks: %d\n", status.Points)
	cmd.Printf("  Dimensions: %d\n", status.Dimensions)
	if status.DimensionFallback {
		cmd.Println("  Warning: embedding provider was unreachable at start-up, dimensions are a fallback")
	}
	cmd.Printf("  Embedding model: %s\n", status.EmbeddingModel)
	cmd.Printf("  LLM model: %s\n", status.LLMModel)
	return nil
}
