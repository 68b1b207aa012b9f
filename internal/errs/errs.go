// Package errs defines the closed error taxonomy every entrypoint reports through.
//
// Failures from unrelated subsystems (sqlite driver, migrations, validation,
// filesystem, deadlines) are translated into one immutable [Error] carrying a
// fixed code, severity, and process exit code per [Kind]. Adapter boundaries
// classify their native failures immediately via [Classify]; [Exit] backstops
// the CLI boundary, logging exactly one structured record and terminating the
// process with the mapped exit code. Anything unrecognized maps to
// [KindUnknown] at CRITICAL severity, deliberately the loudest option.
package errs

import (
	"fmt"
	"sort"
)

// Kind is the closed set of failure categories.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindDBConnection
	KindDBOperation
	KindDBMigration
	KindTimeout
	KindIO
)

// Severity dictates the log level of the single record emitted per failure.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// kindTraits fixes the code, severity, and process exit code for each kind.
// Exit code 1 is reserved for KindUnknown.
var kindTraits = map[Kind]struct {
	code     string
	severity Severity
	exitCode int
}{
	KindValidation:   {"VALIDATION_ERROR", SeverityWarn, 2},
	KindConflict:     {"CONFLICT_ERROR", SeverityWarn, 3},
	KindDBConnection: {"DB_CONNECTION_ERROR", SeverityError, 4},
	KindDBOperation:  {"DB_OPERATION_ERROR", SeverityError, 5},
	KindDBMigration:  {"DB_MIGRATION_ERROR", SeverityError, 6},
	KindTimeout:      {"TIMEOUT_ERROR", SeverityError, 7},
	KindIO:           {"IO_ERROR", SeverityError, 8},
	KindUnknown:      {"UNKNOWN_ERROR", SeverityCritical, 1},
}

// Kinds returns every taxonomy kind, for exhaustive iteration in callers and tests.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindTraits))
	for k := range kindTraits {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Error is the classified, immutable representation of a failure.
type Error struct {
	kind    Kind
	message string
	context map[string]string
	cause   error
}

// newError builds a classified error. The context map is owned by the Error afterwards.
func newError(kind Kind, cause error, context map[string]string) *Error {
	if context == nil {
		context = map[string]string{}
	}
	return &Error{kind: kind, message: cause.Error(), context: context, cause: cause}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code(), e.message)
}

// Unwrap exposes the original failure for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.cause }

// Kind returns the taxonomy category.
func (e *Error) Kind() Kind { return e.kind }

// Code returns the fixed string code for the kind.
func (e *Error) Code() string { return kindTraits[e.kind].code }

// Severity returns the fixed severity for the kind.
func (e *Error) Severity() Severity { return kindTraits[e.kind].severity }

// ExitCode returns the fixed process exit code for the kind.
func (e *Error) ExitCode() int { return kindTraits[e.kind].exitCode }

// Message returns the human-readable description.
func (e *Error) Message() string { return e.message }

// Context returns a copy of the diagnostic key-value context.
// It always contains at least error_type, the Go type of the root cause.
func (e *Error) Context() map[string]string {
	out := make(map[string]string, len(e.context))
	for k, v := range e.context {
		out[k] = v
	}
	return out
}
