package errs

import (
	"os"
	"runtime/debug"
	"sort"

	"github.com/charmbracelet/log"
)

// osExit is swapped out in tests.
var osExit = os.Exit

// Report maps the failure and emits exactly one structured log record at the
// mapped severity. Stack context is attached only at CRITICAL; expected
// failure modes stay terse.
func Report(logger *log.Logger, err error) *Error {
	e := Map(err)

	fields := []any{"code", e.Code(), "exit_code", e.ExitCode()}

	context := e.Context()
	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, k, context[k])
	}

	switch e.Severity() {
	case SeverityInfo:
		logger.Info(e.Message(), fields...)
	case SeverityWarn:
		logger.Warn(e.Message(), fields...)
	case SeverityError:
		logger.Error(e.Message(), fields...)
	case SeverityCritical:
		fields = append(fields, "stack", string(debug.Stack()))
		logger.Error(e.Message(), fields...)
	}

	return e
}

// Exit runs fn and, on failure, reports it once and terminates the process
// with the taxonomy's exit code for the mapped kind. Success returns normally
// so the process exits 0.
func Exit(logger *log.Logger, fn func() error) {
	err := fn()
	if err == nil {
		return
	}

	e := Report(logger, err)
	osExit(e.ExitCode())
}
