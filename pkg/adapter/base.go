package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/querykit/pkg/core"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Query, LastInsertID, AffectedRows and Snapshot implementations.
//
// The pool is limited to one connection so that LastInsertID and
// AffectedRows describe the previous statement on the same session. Close an
// unbuffered cursor before running the next statement.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger

	// Driver names the backend in errors and logs.
	Driver string

	// ClassifyError converts a driver error into a *core.QueryError. When
	// nil, every error is a plain query error.
	ClassifyError func(err error) error

	last sql.Result
}

// Open opens and verifies a single-connection pool.
func (b *BaseSQLAdapter) Open(ctx context.Context, driverName, dsn string, cfg core.AdapterConfig) error {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return &core.ConnectionError{Engine: b.Driver, Err: err}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return &core.ConnectionError{Engine: b.Driver, Err: err}
	}

	b.DB = db
	b.Cfg = cfg
	b.last = nil
	return nil
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection", slog.String("driver", b.Driver))
		err := b.DB.Close()
		b.DB = nil
		b.last = nil
		return err
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Query runs stmt and shapes the result by statement kind: reads return
// rows, writes return the affected row count, anything else returns
// core.None.
func (b *BaseSQLAdapter) Query(ctx context.Context, stmt string, opts ...core.QueryOption) (core.Result, error) {
	if b.DB == nil {
		return nil, core.ErrNotConnected
	}
	o := core.ApplyQueryOptions(opts...)
	kind := core.Classify(stmt)

	b.logger().Debug("executing query", slog.String("driver", b.Driver), slog.String("kind", kind.String()))

	if kind == core.StatementRead {
		//nolint:rowserrcheck // rows.Err() is checked by shapeRows or the stream cursor
		rows, err := b.DB.QueryContext(ctx, stmt)
		if err != nil {
			return nil, b.wrapError(err)
		}
		return b.shapeRows(rows, o)
	}

	res, err := b.DB.ExecContext(ctx, stmt)
	if err != nil {
		return nil, b.wrapError(err)
	}
	b.last = res

	if kind == core.StatementWrite {
		n, err := res.RowsAffected()
		if err != nil {
			return nil, b.wrapError(err)
		}
		return core.RowCount(n), nil
	}
	return core.None, nil
}

// shapeRows reads up to two rows to tell a single row from a set, then
// either buffers the rest or hands the live result to a stream cursor.
func (b *BaseSQLAdapter) shapeRows(rows *sql.Rows, o core.QueryOptions) (core.Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, b.wrapError(err)
	}

	var peeked []*core.Row
	for len(peeked) < 2 && rows.Next() {
		row, err := core.ScanRow(rows, columns)
		if err != nil {
			_ = rows.Close()
			return nil, b.wrapError(err)
		}
		peeked = append(peeked, row)
	}
	if len(peeked) < 2 {
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, b.wrapError(err)
		}
		_ = rows.Close()
	}

	switch {
	case len(peeked) == 0:
		return core.None, nil
	case len(peeked) == 1 && !o.Set:
		return peeked[0], nil
	case o.Unbuffered:
		return core.NewStreamCursor(rows, columns, peeked), nil
	}

	all := peeked
	if len(peeked) == 2 {
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			row, err := core.ScanRow(rows, columns)
			if err != nil {
				return nil, b.wrapError(err)
			}
			all = append(all, row)
		}
		if err := rows.Err(); err != nil {
			return nil, b.wrapError(err)
		}
	}
	return core.NewBufferedCursor(columns, all), nil
}

// LastInsertID returns the ID generated by the last statement, or zero if no
// statement has been executed.
func (b *BaseSQLAdapter) LastInsertID(_ context.Context) (int64, error) {
	if b.DB == nil {
		return 0, core.ErrNotConnected
	}
	if b.last == nil {
		return 0, nil
	}
	id, err := b.last.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read last insert id: %w", err)
	}
	return id, nil
}

// AffectedRows returns the rows changed by the last statement, or zero.
func (b *BaseSQLAdapter) AffectedRows() int64 {
	if b.last == nil {
		return 0
	}
	n, err := b.last.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}

// Snapshot captures the connection fields and closes the connection.
func (b *BaseSQLAdapter) Snapshot() (core.Snapshot, error) {
	snap := core.SnapshotOf(b.Cfg)
	if err := b.Close(); err != nil {
		return snap, fmt.Errorf("failed to close connection for snapshot: %w", err)
	}
	return snap, nil
}

func (b *BaseSQLAdapter) wrapError(err error) error {
	if b.ClassifyError != nil {
		return b.ClassifyError(err)
	}
	return core.NewQueryError(b.Driver, err)
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}
