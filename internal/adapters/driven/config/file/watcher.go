package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sommelier/internal/logger"
)

// Watch reloads the prompt cache whenever a prompt file in Dir changes.
// It blocks until ctx is cancelled or the watcher fails. The directory is
// created first if needed. onReload, when non-nil, runs after each reload.
func (s *PromptStore) Watch(ctx context.Context, onReload func(name string)) error {
	if err := s.seed(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	logger.Debug("Watching prompts in %s", s.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != promptExt {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.Reload()
			name := filepath.Base(event.Name)
			logger.Info("Prompt %s changed, reloaded", name)
			if onReload != nil {
				onReload(name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Prompt watcher error: %v", err)
		}
	}
}
