package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sommelier/internal/core/domain"
)

var (
	queryLimit   int
	queryJSON    bool
	querySources bool
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a customer question",
	Long: `Answers a question from the documents most relevant to it.
Wine products are always preferred over other documents.

The question can also be piped in:
  echo "Which reds go with lamb?" | sommelier query`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", domain.DefaultQueryLimit, "number of documents used as context")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the answer as JSON")
	queryCmd.Flags().BoolVarP(&querySources, "sources", "s", false, "list the documents the answer used")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question, err := readQuestion(cmd, args)
	if err != nil {
		return err
	}

	rag, err := knowledgeBase(cmd.Context())
	if err != nil {
		return err
	}

	result, err := rag.Query(cmd.Context(), question, queryLimit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(strings.TrimSpace(result.Response))
	if querySources && len(result.RelevantDocuments) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i := range result.RelevantDocuments {
			cmd.Printf("  [%d] %s\n", i+1, describeResult(result.RelevantDocuments[i]))
		}
	}
	return nil
}

// readQuestion takes the question from the arguments, or from stdin when
// it is piped.
func readQuestion(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if stdinIsTerminal() {
		return "", errors.New("a question is required")
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read question: %w", err)
	}
	question := strings.TrimSpace(string(data))
	if question == "" {
		return "", errors.New("a question is required")
	}
	return question, nil
}
