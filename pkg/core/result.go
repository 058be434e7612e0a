package core

import (
	"database/sql"
	"fmt"
)

// Result is the outcome of Engine.Query. It is one of RowCount, NoRows,
// *Row or a Cursor.
type Result interface {
	isResult()
}

// RowCount is the number of rows affected by a write statement.
type RowCount int64

func (RowCount) isResult() {}

// NoRows is returned by statements that produce nothing to read, and by
// reads that matched no rows.
type NoRows struct{}

func (NoRows) isResult() {}

// None is the NoRows result.
var None Result = NoRows{}

// Row is a single result row with ordered, named fields.
type Row struct {
	columns []string
	values  []any
	index   map[string]int
}

// NewRow creates a row. values must be parallel to columns.
func NewRow(columns []string, values []any) *Row {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	return &Row{columns: columns, values: values, index: index}
}

func (*Row) isResult() {}

// Columns returns the field names in result order.
func (r *Row) Columns() []string { return r.columns }

// Values returns the field values in result order.
func (r *Row) Values() []any { return r.values }

// Len returns the number of fields.
func (r *Row) Len() int { return len(r.columns) }

// Get returns the value of a field. For duplicate names the first one wins.
func (r *Row) Get(field string) (any, error) {
	i, ok := r.index[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchField, field)
	}
	return r.values[i], nil
}

// Map returns the row as a field name to value map.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i := len(r.columns) - 1; i >= 0; i-- {
		m[r.columns[i]] = r.values[i]
	}
	return m
}

// ScanRow reads the current row of rows. Byte slices are returned as
// strings.
func ScanRow(rows *sql.Rows, columns []string) (*Row, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return NewRow(columns, values), nil
}
