package adapter

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/querykit/pkg/core"
)

// ReadWrite routes statements between a read replica and a writer. Only
// statements starting with "SELECT " go to the reader; everything else,
// and all session state such as the last insert ID, belongs to the writer.
type ReadWrite struct {
	reader core.Engine
	writer core.Engine
	logger *slog.Logger
}

// NewReadWrite creates a dispatcher over two engines.
// If logger is nil, a discard logger is used.
func NewReadWrite(reader, writer core.Engine, logger *slog.Logger) *ReadWrite {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReadWrite{reader: reader, writer: writer, logger: logger}
}

// OpenReadWrite creates and connects the reader and writer adapters in
// parallel. If either fails, both are closed.
func OpenReadWrite(ctx context.Context, readerCfg, writerCfg core.AdapterConfig, logger *slog.Logger) (*ReadWrite, error) {
	reader, err := NewAdapter(readerCfg, logger)
	if err != nil {
		return nil, err
	}
	writer, err := NewAdapter(writerCfg, logger)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return reader.Connect(gctx, readerCfg) })
	g.Go(func() error { return writer.Connect(gctx, writerCfg) })
	if err := g.Wait(); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, err
	}

	return NewReadWrite(reader, writer, logger), nil
}

// Reader returns the engine used for SELECT statements.
func (rw *ReadWrite) Reader() core.Engine { return rw.reader }

// Writer returns the engine used for everything else.
func (rw *ReadWrite) Writer() core.Engine { return rw.writer }

// Query sends stmt to the reader or the writer.
func (rw *ReadWrite) Query(ctx context.Context, stmt string, opts ...core.QueryOption) (core.Result, error) {
	if core.IsReadStatement(stmt) {
		rw.logger.Debug("dispatching to reader")
		return rw.reader.Query(ctx, stmt, opts...)
	}
	rw.logger.Debug("dispatching to writer")
	return rw.writer.Query(ctx, stmt, opts...)
}

// Escape escapes s using the writer's rules.
func (rw *ReadWrite) Escape(s string) string {
	return rw.writer.Escape(s)
}

// IdentifierQuote returns the writer's identifier quote, or a backtick when
// the writer does not declare one.
func (rw *ReadWrite) IdentifierQuote() string {
	if q, ok := rw.writer.(interface{ IdentifierQuote() string }); ok {
		return q.IdentifierQuote()
	}
	return "`"
}

// LastInsertID returns the writer's last insert ID.
func (rw *ReadWrite) LastInsertID(ctx context.Context) (int64, error) {
	return rw.writer.LastInsertID(ctx)
}

// AffectedRows returns the writer's affected row count.
func (rw *ReadWrite) AffectedRows() int64 {
	return rw.writer.AffectedRows()
}

// Close closes both engines that support closing.
func (rw *ReadWrite) Close() error {
	var errs []error
	for _, e := range []core.Engine{rw.reader, rw.writer} {
		if c, ok := e.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

var _ core.Engine = (*ReadWrite)(nil)
