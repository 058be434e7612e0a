package core

import "database/sql"

// Cursor iterates the rows of a read statement.
//
//	for cur.Next() {
//		row := cur.Row()
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor interface {
	Result

	// Next advances to the next row, returning false when exhausted.
	Next() bool

	// Row returns the current row.
	Row() *Row

	// Columns returns the field names of the result.
	Columns() []string

	// Err returns the error that stopped iteration, if any.
	Err() error

	// Rewind moves before the first row again.
	Rewind() error

	// Close releases the underlying result.
	Close() error
}

// BufferedCursor holds a fully read result. It can be rewound and indexed.
type BufferedCursor struct {
	columns []string
	rows    []*Row
	pos     int
}

// NewBufferedCursor creates a cursor over rows.
func NewBufferedCursor(columns []string, rows []*Row) *BufferedCursor {
	return &BufferedCursor{columns: columns, rows: rows, pos: -1}
}

func (*BufferedCursor) isResult() {}

// Next advances to the next row.
func (c *BufferedCursor) Next() bool {
	if c.pos+1 >= len(c.rows) {
		c.pos = len(c.rows)
		return false
	}
	c.pos++
	return true
}

// Row returns the current row, or nil outside iteration.
func (c *BufferedCursor) Row() *Row {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil
	}
	return c.rows[c.pos]
}

// Columns returns the field names.
func (c *BufferedCursor) Columns() []string { return c.columns }

// Err always returns nil; read errors surface from Query.
func (c *BufferedCursor) Err() error { return nil }

// Rewind restarts iteration.
func (c *BufferedCursor) Rewind() error {
	c.pos = -1
	return nil
}

// Close is a no-op.
func (c *BufferedCursor) Close() error { return nil }

// Len returns the number of rows.
func (c *BufferedCursor) Len() int { return len(c.rows) }

// At returns row i, or nil when i is out of range.
func (c *BufferedCursor) At(i int) *Row {
	if i < 0 || i >= len(c.rows) {
		return nil
	}
	return c.rows[i]
}

// All returns every row.
func (c *BufferedCursor) All() []*Row { return c.rows }

// StreamCursor reads rows from the live result as it goes. It cannot be
// rewound once iteration has started.
type StreamCursor struct {
	rows    *sql.Rows
	columns []string
	pending []*Row
	current *Row
	started bool
	closed  bool
	err     error
}

// NewStreamCursor creates a cursor that first yields pending, then the
// remaining rows of rows.
func NewStreamCursor(rows *sql.Rows, columns []string, pending []*Row) *StreamCursor {
	return &StreamCursor{rows: rows, columns: columns, pending: pending}
}

func (*StreamCursor) isResult() {}

// Next advances to the next row. The result is closed when exhausted.
func (c *StreamCursor) Next() bool {
	c.started = true
	c.current = nil
	if len(c.pending) > 0 {
		c.current = c.pending[0]
		c.pending = c.pending[1:]
		return true
	}
	if c.closed {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		_ = c.Close()
		return false
	}
	row, err := ScanRow(c.rows, c.columns)
	if err != nil {
		c.err = err
		_ = c.Close()
		return false
	}
	c.current = row
	return true
}

// Row returns the current row.
func (c *StreamCursor) Row() *Row { return c.current }

// Columns returns the field names.
func (c *StreamCursor) Columns() []string { return c.columns }

// Err returns the error that stopped iteration.
func (c *StreamCursor) Err() error { return c.err }

// Rewind succeeds only before the first call to Next.
func (c *StreamCursor) Rewind() error {
	if c.started {
		return ErrNotRestartable
	}
	return nil
}

// Close releases the result. It is safe to call more than once.
func (c *StreamCursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rows.Close()
}

// Collect reads the remaining rows of a cursor.
func Collect(c Cursor) ([]*Row, error) {
	var rows []*Row
	for c.Next() {
		rows = append(rows, c.Row())
	}
	return rows, c.Err()
}

var (
	_ Cursor = (*BufferedCursor)(nil)
	_ Cursor = (*StreamCursor)(nil)
)
