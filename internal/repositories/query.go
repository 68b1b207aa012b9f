package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/timetab/internal/shared"
)

// SortDirection is the requested ordering direction for a sort field.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec names a logical sort field and direction. The field must be a
// member of the entity's sort allow-list; physical column names never appear here.
type SortSpec struct {
	Field     string
	Direction SortDirection
}

// ParseSortSpec parses a CLI-style "field" or "field:direction" string.
func ParseSortSpec(s string) (*SortSpec, error) {
	if s == "" {
		return nil, nil
	}

	field, dir, found := strings.Cut(s, ":")
	if !found {
		return &SortSpec{Field: field, Direction: SortAsc}, nil
	}

	switch SortDirection(dir) {
	case SortAsc, SortDesc:
		return &SortSpec{Field: field, Direction: SortDirection(dir)}, nil
	default:
		return nil, fmt.Errorf("%w: sort direction %q", shared.ErrInvalidFlag, dir)
	}
}

// Query accumulates the pieces of a SELECT statement. WHERE fragments and
// arguments stay paired so the count and page queries built from one Query
// always share an identical predicate.
type Query struct {
	table   string
	columns []string
	wheres  []string
	args    []any
	orders  []string
	limit   int
	offset  int
}

// NewQuery starts a query against the given table selecting the given columns.
func NewQuery(table string, columns ...string) *Query {
	return &Query{table: table, columns: columns, limit: -1, offset: -1}
}

// Where appends an AND-ed predicate fragment with its placeholder arguments.
func (q *Query) Where(expr string, args ...any) *Query {
	q.wheres = append(q.wheres, expr)
	q.args = append(q.args, args...)
	return q
}

// OrderBy appends an ordering clause on a physical column.
func (q *Query) OrderBy(column string, direction SortDirection) *Query {
	dir := "ASC"
	if direction == SortDesc {
		dir = "DESC"
	}
	q.orders = append(q.orders, column+" "+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Offset skips the first n rows.
func (q *Query) Offset(n int) *Query {
	q.offset = n
	return q
}

// Ordered reports whether any ORDER BY clause has been applied.
func (q *Query) Ordered() bool {
	return len(q.orders) > 0
}

// Clone returns an independent copy sharing no slices with the original.
func (q *Query) Clone() *Query {
	clone := &Query{table: q.table, limit: q.limit, offset: q.offset}
	clone.columns = append([]string(nil), q.columns...)
	clone.wheres = append([]string(nil), q.wheres...)
	clone.args = append([]any(nil), q.args...)
	clone.orders = append([]string(nil), q.orders...)
	return clone
}

// SelectSQL renders the full SELECT statement with its arguments.
func (q *Query) SelectSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.table)

	args := append([]any(nil), q.args...)
	q.writeWhere(&b)

	if len(q.orders) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.orders, ", "))
	}

	if q.limit >= 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.limit)
	}
	if q.offset >= 0 {
		b.WriteString(" OFFSET ?")
		args = append(args, q.offset)
	}

	return b.String(), args
}

// CountSQL renders a COUNT(*) over the same WHERE predicate with ordering,
// limit, and offset stripped. Ordering must never affect a total.
func (q *Query) CountSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(q.table)

	args := append([]any(nil), q.args...)
	q.writeWhere(&b)

	return b.String(), args
}

func (q *Query) writeWhere(b *strings.Builder) {
	if len(q.wheres) == 0 {
		return
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(q.wheres, " AND "))
}
