// Package logger provides leveled logging for the Sommelier CLI.
// Warnings and errors are always printed to stderr. When verbose mode is
// enabled via the --verbose flag, debug and info messages are printed too,
// to help users follow the ingestion and retrieval pipeline.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.RWMutex
	verbose bool
	log     = newLogrus(os.Stderr)
)

func newLogrus(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&plainFormatter{})
	return l
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log.SetOutput(w)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	log.Debugf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(log.Out, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	log.Infof(format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	log.Warnf(format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	log.Errorf(format, args...)
}

// plainFormatter renders "[LEVEL] message key=value" lines.
type plainFormatter struct{}

func (f *plainFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("[")
	b.WriteString(strings.ToUpper(levelName(e.Level)))
	b.WriteString("] ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelName(l logrus.Level) string {
	if l == logrus.WarnLevel {
		return "warn"
	}
	return l.String()
}

// LeveledLogger is the structured logging interface expected by
// github.com/hashicorp/go-retryablehttp.
type LeveledLogger interface {
	Error(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
}

var _ LeveledLogger = (*Leveled)(nil)

// Leveled adapts the package logger to key/value logging.
// We use this for the retryable HTTP clients of the AI adapters.
type Leveled struct {
	component string
}

// NewLeveled returns a leveled logger tagged with a component name.
func NewLeveled(component string) *Leveled {
	return &Leveled{component: component}
}

func (l *Leveled) entry(keysAndValues ...any) *logrus.Entry {
	fields := make(logrus.Fields, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	if l.component != "" {
		fields["component"] = l.component
	}
	return log.WithFields(fields)
}

// Error logs at error level.
func (l *Leveled) Error(msg string, keysAndValues ...any) {
	l.entry(keysAndValues...).Error(msg)
}

// Info logs at info level.
func (l *Leveled) Info(msg string, keysAndValues ...any) {
	l.entry(keysAndValues...).Info(msg)
}

// Debug logs at debug level.
func (l *Leveled) Debug(msg string, keysAndValues ...any) {
	l.entry(keysAndValues...).Debug(msg)
}

// Warn logs at warn level.
func (l *Leveled) Warn(msg string, keysAndValues ...any) {
	l.entry(keysAndValues...).Warn(msg)
}
