package table

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
)

// Query describes the rows requested by a table. Limit is zero when every
// row is requested.
type Query struct {
	Offset     int
	Limit      int
	SortColumn string
	Ascending  bool
}

// DataProvider loads the rows of a table. Plain providers return every row
// and the table sorts and pages them itself.
type DataProvider interface {
	Data(ctx context.Context, q Query) ([]any, error)
}

// PagingDataProvider loads a single sorted page per request. Size returns
// the total number of rows.
type PagingDataProvider interface {
	DataProvider
	Size(ctx context.Context) (int, error)
}

// DataProviderFunc adapts a function to DataProvider.
type DataProviderFunc func(ctx context.Context, q Query) ([]any, error)

func (f DataProviderFunc) Data(ctx context.Context, q Query) ([]any, error) { return f(ctx, q) }

// Rows converts a typed slice to table rows.
func Rows[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// SQLProvider pages the rows of a table or view. Each row is a map from
// column name to value. Sorting is restricted to the selected columns.
type SQLProvider struct {
	DB *sql.DB
	// From is the table or view selected from.
	From string
	// Columns are the selected columns, all of them when empty.
	Columns []string
	// Where is an optional condition using ? placeholders bound to Args.
	Where string
	Args  []any
	// OrderBy sorts rows when the table has no sorted column.
	OrderBy string
}

func (p *SQLProvider) where() string {
	if p.Where == "" {
		return ""
	}
	return " WHERE " + p.Where
}

// Size counts the selected rows.
func (p *SQLProvider) Size(ctx context.Context) (int, error) {
	var n int
	q := "SELECT COUNT(*) FROM " + p.From + p.where()
	if err := p.DB.QueryRowContext(ctx, q, p.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", p.From, err)
	}
	return n, nil
}

// Data selects the rows of q. Sort columns outside Columns are ignored.
func (p *SQLProvider) Data(ctx context.Context, q Query) ([]any, error) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(p.Columns) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(p.Columns, ", "))
	}
	b.WriteString(" FROM " + p.From + p.where())
	switch {
	case q.SortColumn != "" && p.sortable(q.SortColumn):
		b.WriteString(" ORDER BY " + q.SortColumn)
		if !q.Ascending {
			b.WriteString(" DESC")
		}
	case p.OrderBy != "":
		b.WriteString(" ORDER BY " + p.OrderBy)
	}
	args := slices.Clone(p.Args)
	if q.Limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := p.DB.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", p.From, err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.From, err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if bs, ok := values[i].([]byte); ok {
				values[i] = string(bs)
			}
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (p *SQLProvider) sortable(column string) bool {
	return slices.Contains(p.Columns, column)
}

var _ PagingDataProvider = (*SQLProvider)(nil)
