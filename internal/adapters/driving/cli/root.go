// Package cli provides the sommelier command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sommelier/internal/adapters/driving/mcp"
	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/core/ports/driving"
	"github.com/custodia-labs/sommelier/internal/logger"
)

// version is set at build time.
var version = "dev"

var verbose bool

// PromptWatcher is a prompt store that can follow edits on disk.
type PromptWatcher interface {
	driven.PromptStore
	Watch(ctx context.Context, onReload func(name string)) error
}

// KnowledgeBase bundles what the document commands drive.
type KnowledgeBase struct {
	RAG     driving.RAGService
	Loader  mcp.PathLoader
	Prompts PromptWatcher
}

// Opener builds and initialises the knowledge base from current settings.
type Opener func(ctx context.Context) (*KnowledgeBase, error)

var (
	settingsService driving.SettingsService
	ragService      driving.RAGService
	documentLoader  mcp.PathLoader
	promptWatcher   PromptWatcher

	openKnowledgeBase Opener
	// opened is true when ragService came from openKnowledgeBase and must be closed.
	opened bool
)

var rootCmd = &cobra.Command{
	Use:   "sommelier",
	Short: "Wine store knowledge base and customer assistant",
	Long: `Sommelier answers customer questions from the wine catalogue, past
conversations, saved emails and store policy documents.

Load documents with 'sommelier ingest', then ask with 'sommelier query'.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetOpener sets how the knowledge base is opened. It runs at most once,
// on the first command that needs documents.
func SetOpener(o Opener) {
	openKnowledgeBase = o
}

// Execute runs the root command and closes the knowledge base if a
// command opened it.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, closeKnowledgeBase())
}

// knowledgeBase returns the knowledge base, opening it on first use.
func knowledgeBase(ctx context.Context) (driving.RAGService, error) {
	if ragService != nil {
		return ragService, nil
	}
	if openKnowledgeBase == nil {
		return nil, errors.New("knowledge base not configured")
	}

	kb, err := openKnowledgeBase(ctx)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}
	ragService = kb.RAG
	documentLoader = kb.Loader
	promptWatcher = kb.Prompts
	opened = true
	return ragService, nil
}

func closeKnowledgeBase() error {
	if !opened || ragService == nil {
		return nil
	}
	err := ragService.Close()
	ragService, documentLoader, promptWatcher = nil, nil, nil
	opened = false
	return err
}
