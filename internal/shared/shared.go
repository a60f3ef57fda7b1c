// package shared defines the cross-cutting helpers (logging, config,
// errors, sqlite, browser launching) used throughout the conversion
// pipeline
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates the [log.Logger] used by CLI command actions, with
// timestamps and caller reporting enabled.
//
// Logs go to the given writer (default [os.Stderr]); user-facing command
// output is written separately so the two streams never mix.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] carrying the given key-value
// pairs on every entry.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID returns a v4 [uuid.UUID] string, used for run history IDs and
// OAuth state tokens.
func GenerateID() string {
	return uuid.New().String()
}
