package errs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"

	"github.com/desertthunder/timetab/internal/models"
	"github.com/desertthunder/timetab/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// Classify wraps a failure into the taxonomy at an adapter boundary.
// Already-classified errors pass through untouched; nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	return Map(err)
}

// Map converts any failure into exactly one classified [*Error].
//
// Recognition order: pass-through for classified errors, sqlite driver errors
// by code, migration failures, structured validation failures (including
// not-found, sort, and pagination parameter errors), deadline/timeout
// failures, filesystem failures. Everything else is KindUnknown at CRITICAL.
func Map(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	context := map[string]string{"error_type": rootType(err)}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		context["sqlite_code"] = sqliteErr.Code.Error()
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return newError(KindConflict, err, context)
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrNotADB:
			return newError(KindDBConnection, err, context)
		default:
			return newError(KindDBOperation, err, context)
		}
	}

	switch {
	case errors.Is(err, shared.ErrMigrationFailed), errors.Is(err, shared.ErrSchemaBehindHead):
		return newError(KindDBMigration, err, context)
	case isValidation(err):
		return newError(KindValidation, err, context)
	case isTimeout(err):
		return newError(KindTimeout, err, context)
	case isFilesystem(err):
		return newError(KindIO, err, context)
	default:
		return newError(KindUnknown, err, context)
	}
}

// IsKind reports whether the error classifies to the given kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return Map(err).Kind() == kind
}

func isValidation(err error) bool {
	return errors.Is(err, models.ErrInvalid) ||
		errors.Is(err, shared.ErrNotFound) ||
		errors.Is(err, shared.ErrInvalidSortKey) ||
		errors.Is(err, shared.ErrInvalidPageParams) ||
		errors.Is(err, shared.ErrNoActor) ||
		errors.Is(err, shared.ErrSeedForbidden) ||
		errors.Is(err, shared.ErrInvalidConfig) ||
		errors.Is(err, shared.ErrInvalidInput) ||
		errors.Is(err, shared.ErrMissingArgument) ||
		errors.Is(err, shared.ErrInvalidFlag)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isFilesystem(err error) bool {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrExist) || errors.Is(err, fs.ErrPermission)
}

// rootType walks the wrap chain and names the innermost error's Go type.
func rootType(err error) string {
	root := err
	for {
		next := errors.Unwrap(root)
		if next == nil {
			break
		}
		root = next
	}
	return fmt.Sprintf("%T", root)
}
