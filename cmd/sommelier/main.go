// Command sommelier is the wine store knowledge base and customer assistant.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/sommelier/internal/adapters/driven/ai"
	"github.com/custodia-labs/sommelier/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sommelier/internal/adapters/driving/cli"
	"github.com/custodia-labs/sommelier/internal/core/services"
	"github.com/custodia-labs/sommelier/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	envFiles := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(home, ".sommelier", ".env"))
	}
	if err := file.LoadEnvFiles(envFiles...); err != nil {
		logger.Warn("Ignoring env files: %v", err)
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Error("Failed to open config: %v", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)
	cli.SetOpener(func(ctx context.Context) (*cli.KnowledgeBase, error) {
		return openKnowledgeBase(ctx, settingsService)
	})

	return cli.Execute(ctx)
}
