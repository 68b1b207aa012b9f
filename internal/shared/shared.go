// package shared holds the ambient pieces every timetab layer leans on:
// configuration, logging, database access, migrations, and sentinel errors.
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates the [log.Logger] the CLI and seeder report through, with
// timestamps and caller reporting enabled. A nil writer defaults to [os.Stderr].
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] carrying the given key-value pairs
// on every record, used to scope logs to one entity kind or seed run.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a v4 [uuid.UUID] string, the surrogate primary key for
// every persisted record.
func GenerateID() string {
	return uuid.New().String()
}
