package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sommelier/internal/adapters/driving/mcp"
	"github.com/custodia-labs/sommelier/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can answer
customer questions from the knowledge base.

Tools: query, search, ingest.
Resources: sommelier://suggestions, sommelier://status, sommelier://prompts/{name}.

By default the server communicates over stdio using JSON-RPC.
Use --port to serve HTTP instead.

Prompt files are watched while the server runs; edits apply to the next answer.

Examples:
  # Stdio mode (default)
  sommelier mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  sommelier mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	rag, err := knowledgeBase(cmd.Context())
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		RAG:     rag,
		Loader:  documentLoader,
		Prompts: promptWatcher,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if promptWatcher != nil {
		go func() {
			if err := promptWatcher.Watch(ctx, nil); err != nil {
				logger.Warn("Prompt watcher stopped: %v", err)
			}
		}()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
