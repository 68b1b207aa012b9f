package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/timetab/internal/errs"
	"github.com/desertthunder/timetab/internal/models"
	"github.com/desertthunder/timetab/internal/shared"
)

// MaxPerPage is the upper bound on page sizes accepted by [Repo.Paginate].
const MaxPerPage = 100

// Mapping declares how one entity type persists: its table, physical columns,
// audit column, sort allow-list, and the functions bridging structs and rows.
type Mapping[T models.Record] struct {
	Kind        string            // entity kind name used in errors and seed plans
	Table       string            // physical table name
	PK          string            // primary key column
	Columns     []string          // all columns in insert order, PK first
	CreatedBy   string            // audit column, "" when the entity is not audited
	Sortable    map[string]string // logical sort field -> physical column allow-list
	DefaultSort *SortSpec

	Scan     func(sc Scanner) (*T, error)                        // scans one row in Columns order
	Values   func(rec *T) map[string]any                         // column -> current value
	Assign   func(rec *T, id string, sequence int, at time.Time) // stamps surrogate identity before insert
	Touch    func(rec *T, at time.Time)                          // bumps updated_at before an update
	SetActor func(rec *T, actorID string)                        // nil when CreatedBy is ""
}

// Repo is the generic repository over one entity mapping.
// All methods run against the caller's [DBTX]; none commit or roll back.
type Repo[T models.Record] struct {
	m           Mapping[T]
	systemActor string
}

// NewRepo creates a repository from an entity mapping.
func NewRepo[T models.Record](m Mapping[T]) *Repo[T] {
	return &Repo[T]{m: m}
}

// Kind returns the entity kind name this repository persists.
func (r *Repo[T]) Kind() string { return r.m.Kind }

// SetSystemActor installs the fallback actor id used for created_by
// attribution when the caller's context carries none. The system actor is
// materialized once during setup, never lazily inside a write path.
func (r *Repo[T]) SetSystemActor(id string) { r.systemActor = id }

// Select starts a query over all of the entity's columns.
func (r *Repo[T]) Select() *Query {
	return NewQuery(r.m.Table, r.m.Columns...)
}

// ByKey starts a query filtered to an exact natural-key match.
func (r *Repo[T]) ByKey(key models.NaturalKey) *Query {
	q := r.Select()
	values := key.Values()
	for i, column := range key.Columns() {
		q.Where(column+" = ?", values[i])
	}
	return q
}

// Get retrieves a record by primary key, failing with [shared.ErrNotFound] when absent.
func (r *Repo[T]) Get(ctx context.Context, dbtx DBTX, pk string) (*T, error) {
	rec, err := r.GetOrNone(ctx, dbtx, pk)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s %s: %w", r.m.Kind, pk, shared.ErrNotFound)
	}
	return rec, nil
}

// GetOrNone retrieves a record by primary key, returning (nil, nil) when absent.
func (r *Repo[T]) GetOrNone(ctx context.Context, dbtx DBTX, pk string) (*T, error) {
	q := r.Select().Where(r.m.PK+" = ?", pk)
	return r.one(ctx, dbtx, q)
}

// List executes the query and returns every matching record in query order.
// A nil query lists the whole table.
func (r *Repo[T]) List(ctx context.Context, dbtx DBTX, q *Query) ([]*T, error) {
	if q == nil {
		q = r.Select()
	}

	query, args := q.SelectSQL()
	rows, err := dbtx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Classify(fmt.Errorf("failed to query %s: %w", r.m.Table, err))
	}
	defer rows.Close()

	var records []*T
	for rows.Next() {
		rec, err := r.m.Scan(rows)
		if err != nil {
			return nil, errs.Classify(fmt.Errorf("failed to scan %s: %w", r.m.Kind, err))
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Classify(fmt.Errorf("row iteration error: %w", err))
	}

	return records, nil
}

// Count returns the number of rows matching the query's predicate.
// Any ordering on the query is stripped; it cannot affect the total.
func (r *Repo[T]) Count(ctx context.Context, dbtx DBTX, q *Query) (int, error) {
	if q == nil {
		q = r.Select()
	}

	query, args := q.CountSQL()

	var total int
	if err := dbtx.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, errs.Classify(fmt.Errorf("failed to count %s: %w", r.m.Table, err))
	}

	return total, nil
}

// Exists reports whether any row matches the query's predicate.
func (r *Repo[T]) Exists(ctx context.Context, dbtx DBTX, q *Query) (bool, error) {
	total, err := r.Count(ctx, dbtx, q)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// Create inserts a new record with generated ID, sequence, and timestamps.
//
// When the mapping carries an audit column and the record does not supply a
// value, the actor id is resolved from the caller's context (see [WithActor])
// and falls back to the system actor installed at setup. Uniqueness conflicts
// surface as Conflict-kind errors; interpreting them is the caller's job.
func (r *Repo[T]) Create(ctx context.Context, dbtx DBTX, rec *T) error {
	sequence, err := NextSequence(ctx, dbtx, r.m.Table)
	if err != nil {
		return errs.Classify(err)
	}

	now := time.Now().UTC()
	id, _ := r.m.Values(rec)[r.m.PK].(string)
	if id == "" {
		id = shared.GenerateID()
	}
	r.m.Assign(rec, id, sequence, now)

	if r.m.CreatedBy != "" {
		if current, _ := r.m.Values(rec)[r.m.CreatedBy].(string); current == "" {
			actorID := ActorFrom(ctx)
			if actorID == "" {
				actorID = r.systemActor
			}
			if actorID == "" {
				return fmt.Errorf("%w: %s.%s", shared.ErrNoActor, r.m.Table, r.m.CreatedBy)
			}
			r.m.SetActor(rec, actorID)
		}
	}

	if err := (*rec).Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	values := r.m.Values(rec)
	placeholders := make([]string, len(r.m.Columns))
	args := make([]any, len(r.m.Columns))
	for i, column := range r.m.Columns {
		placeholders[i] = "?"
		args[i] = values[column]
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		r.m.Table, strings.Join(r.m.Columns, ", "), strings.Join(placeholders, ", "),
	)

	if _, err := dbtx.ExecContext(ctx, query, args...); err != nil {
		return errs.Classify(fmt.Errorf("failed to insert %s: %w", r.m.Kind, err))
	}

	return nil
}

// BulkCreate inserts records one by one under the Create contract.
// The first failure stops the batch; the caller's transaction decides the outcome.
func (r *Repo[T]) BulkCreate(ctx context.Context, dbtx DBTX, records []*T) error {
	for i, rec := range records {
		if err := r.Create(ctx, dbtx, rec); err != nil {
			return fmt.Errorf("bulk create %s [%d]: %w", r.m.Kind, i, err)
		}
	}
	return nil
}

// Update fetches the record, applies mutate, and writes the full row back.
// The fetch-mutate-write cycle keeps storage-computed values intact; no blind
// partial UPDATE is ever issued.
func (r *Repo[T]) Update(ctx context.Context, dbtx DBTX, pk string, mutate func(*T) error) (*T, error) {
	rec, err := r.Get(ctx, dbtx, pk)
	if err != nil {
		return nil, err
	}

	if err := mutate(rec); err != nil {
		return nil, err
	}

	r.m.Touch(rec, time.Now().UTC())

	if err := (*rec).Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	values := r.m.Values(rec)
	var assignments []string
	var args []any
	for _, column := range r.m.Columns {
		if column == r.m.PK {
			continue
		}
		assignments = append(assignments, column+" = ?")
		args = append(args, values[column])
	}
	args = append(args, pk)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", r.m.Table, strings.Join(assignments, ", "), r.m.PK)

	result, err := dbtx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Classify(fmt.Errorf("failed to update %s: %w", r.m.Kind, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errs.Classify(fmt.Errorf("failed to get affected rows: %w", err))
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s %s vanished during update: %w", r.m.Kind, pk, shared.ErrNotFound)
	}

	return rec, nil
}

// Delete removes a record by primary key, failing with [shared.ErrNotFound] when absent.
func (r *Repo[T]) Delete(ctx context.Context, dbtx DBTX, pk string) error {
	if _, err := r.Get(ctx, dbtx, pk); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.m.Table, r.m.PK)

	result, err := dbtx.ExecContext(ctx, query, pk)
	if err != nil {
		return errs.Classify(fmt.Errorf("failed to delete %s: %w", r.m.Kind, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errs.Classify(fmt.Errorf("failed to get affected rows: %w", err))
	}
	if affected == 0 {
		return fmt.Errorf("%s %s vanished during delete: %w", r.m.Kind, pk, shared.ErrNotFound)
	}

	return nil
}

// ApplySorting validates the requested sort against the entity's allow-list
// and applies it to the query, appending an ascending primary-key tie-break.
//
// The tie-break guarantees a total order for any two rows; it is skipped only
// when the resolved sort column already is the primary key, including when the
// mapping's default sort names it. A nil sort falls back to the default sort,
// or to the primary key alone when the mapping declares none.
func (r *Repo[T]) ApplySorting(q *Query, sort *SortSpec) error {
	spec := sort
	if spec == nil {
		spec = r.m.DefaultSort
	}
	if spec == nil {
		q.OrderBy(r.m.PK, SortAsc)
		return nil
	}

	column, ok := r.m.Sortable[spec.Field]
	if !ok {
		return fmt.Errorf("%w: %q is not sortable for %s", shared.ErrInvalidSortKey, spec.Field, r.m.Kind)
	}

	direction := spec.Direction
	if direction == "" {
		direction = SortAsc
	}

	q.OrderBy(column, direction)
	if column != r.m.PK {
		q.OrderBy(r.m.PK, SortAsc)
	}

	return nil
}

// Page is one page of records plus the total count across all pages.
type Page[T models.Record] struct {
	Items   []*T
	Total   int
	Page    int
	PerPage int
}

// Paginate validates page parameters, counts the full result set, and fetches
// one page. The count runs over the identical WHERE predicate with ORDER BY
// stripped; the page applies limit/offset to the already-ordered query.
func (r *Repo[T]) Paginate(ctx context.Context, dbtx DBTX, q *Query, page, perPage int) (*Page[T], error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1, got %d", shared.ErrInvalidPageParams, page)
	}
	if perPage < 1 || perPage > MaxPerPage {
		return nil, fmt.Errorf("%w: per_page must be in [1, %d], got %d", shared.ErrInvalidPageParams, MaxPerPage, perPage)
	}

	if q == nil {
		q = r.Select()
	}
	if !q.Ordered() {
		if err := r.ApplySorting(q, nil); err != nil {
			return nil, err
		}
	}

	total, err := r.Count(ctx, dbtx, q)
	if err != nil {
		return nil, err
	}

	pageQuery := q.Clone().Limit(perPage).Offset((page - 1) * perPage)
	items, err := r.List(ctx, dbtx, pageQuery)
	if err != nil {
		return nil, err
	}

	return &Page[T]{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

// one runs a query expected to match at most one row.
func (r *Repo[T]) one(ctx context.Context, dbtx DBTX, q *Query) (*T, error) {
	query, args := q.SelectSQL()
	rec, err := r.m.Scan(dbtx.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Classify(fmt.Errorf("failed to query %s: %w", r.m.Kind, err))
	}
	return rec, nil
}
