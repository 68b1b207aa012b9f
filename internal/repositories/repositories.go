package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX abstracts over *sql.DB and *sql.Tx so repositories run unchanged inside
// or outside a transaction. Repositories only ever execute and query through
// it; commit and rollback stay with the caller.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Scanner is the subset of *sql.Row and *sql.Rows a [Mapping] scan function needs.
type Scanner interface {
	Scan(dest ...any) error
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers provide human-readable ordering for entities (e.g., room #42, campus #3).
// They are NOT exposed in CLI output but used internally for sorting and debugging.
// The single UPDATE ... RETURNING statement keeps the increment atomic on both
// *sql.DB and an enclosing transaction.
func NextSequence(ctx context.Context, dbtx DBTX, table string) (int, error) {
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var sequence int
	if err := dbtx.QueryRowContext(ctx, query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", table, err)
	}

	return sequence, nil
}

type actorContextKey struct{}

// WithActor returns a context carrying the acting actor's id. [Repo.Create]
// resolves created_by attribution from it when the record does not supply one.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actorID)
}

// ActorFrom extracts the acting actor's id from the context, or "" when unset.
func ActorFrom(ctx context.Context) string {
	actorID, _ := ctx.Value(actorContextKey{}).(string)
	return actorID
}
