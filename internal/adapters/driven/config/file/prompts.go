package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
	"github.com/custodia-labs/sommelier/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

const promptExt = ".txt"

// builtinPrompt is a template shipped with the binary together with the
// placeholders an edited copy must keep.
type builtinPrompt struct {
	text     string
	required []string
}

var builtinPrompts = map[string]builtinPrompt{
	driven.PromptAnswer: {
		text:     driven.DefaultAnswerPrompt,
		required: []string{"{{context}}", "{{query}}"},
	},
}

// PromptStore serves prompt templates from <dir>/<name>.txt so the wording of
// answers can be changed without a rebuild. A missing, blank or unusable file
// falls back to the built-in template.
//
// The directory is seeded with the built-in templates on first use, never in
// the constructor.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a store over dir, or ~/.sommelier/prompts when dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".sommelier", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the template called name.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	builtin, hasBuiltin := builtinPrompts[name]
	if err := s.seed(); err != nil {
		if hasBuiltin {
			return builtin.text, nil
		}
		return "", err
	}

	prompt, err := s.read(name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Reading prompt %s: %v", name, err)
	}
	if prompt != "" && hasBuiltin {
		if missing := missingPlaceholders(prompt, builtin.required); len(missing) > 0 {
			logger.Warn("Prompt %s does not contain %s, using the built-in template",
				name, strings.Join(missing, " or "))
			prompt = ""
		}
	}
	if prompt == "" {
		if !hasBuiltin {
			if err == nil {
				err = fs.ErrNotExist
			}
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
		prompt = builtin.text
	}

	s.mu.Lock()
	s.cache[name] = prompt
	s.mu.Unlock()
	return prompt, nil
}

// Reload drops cached templates so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+promptExt)
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// seed creates the directory, the built-in templates that are missing and a
// README. Existing files are left alone so edits survive upgrades.
func (s *PromptStore) seed() error {
	s.seedOnce.Do(func() {
		if err := os.MkdirAll(s.dir, 0700); err != nil {
			s.seedErr = fmt.Errorf("create prompt directory: %w", err)
			return
		}
		for name, builtin := range builtinPrompts {
			if err := writeIfMissing(s.path(name), builtin.text); err != nil {
				s.seedErr = fmt.Errorf("seed prompt %q: %w", name, err)
				return
			}
		}
		if err := writeIfMissing(filepath.Join(s.dir, "README.md"), promptsReadme); err != nil {
			s.seedErr = fmt.Errorf("seed prompt readme: %w", err)
		}
	})
	return s.seedErr
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func missingPlaceholders(prompt string, required []string) []string {
	var missing []string
	for _, p := range required {
		if !strings.Contains(prompt, p) {
			missing = append(missing, p)
		}
	}
	return missing
}

const promptsReadme = `# Sommelier Prompts

This directory holds the prompts used to answer customer questions.

- ` + "`answer.txt`" + ` wraps the retrieved context and the customer's question.

Edit a file to change how answers are written. A running ` + "`sommelier mcp`" + `
server picks up changes automatically; other commands read the file on start.
Delete a file to restore the built-in template.

Placeholders:

- ` + "`{{context}}`" + ` is replaced by the WINE PRODUCTS / ADDITIONAL INFORMATION block
- ` + "`{{query}}`" + ` is replaced by the customer's question

A template without both placeholders is ignored and the built-in one is used.
`
