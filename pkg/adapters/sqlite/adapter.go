// Package sqlite provides a SQLite database adapter for querykit.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/leapstack-labs/querykit/pkg/adapter"
	"github.com/leapstack-labs/querykit/pkg/core"
)

// Name is the registered adapter name.
const Name = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
	path string
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:        logger,
			Driver:        Name,
			ClassifyError: classifyError,
		},
	}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return Name
}

// IdentifierQuote returns the double quote.
func (a *Adapter) IdentifierQuote() string {
	return `"`
}

// Escape doubles single quotes.
func (a *Adapter) Escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Connect opens the database file at cfg.Path, falling back to
// cfg.Database and then to an in-memory database. Without the create param
// a missing file is an error.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return &core.ConnectionError{Engine: Name, Err: err}
	}
	if params.Create && params.ReadOnly {
		a.Logger.Warn("sqlite create and read_only both set, assuming read-only")
		params.Create = false
	}

	path := cfg.Path
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		path = MemoryPath
	}

	if path != MemoryPath && !params.Create {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return &core.ConnectionError{Engine: Name, Err: fmt.Errorf("database file %s does not exist", path)}
		}
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path), slog.Bool("read_only", params.ReadOnly))

	if err := a.Open(ctx, "sqlite", buildSQLiteDSN(path, params), cfg); err != nil {
		return err
	}
	a.path = path
	return nil
}

// Snapshot captures the database path and closes the connection.
func (a *Adapter) Snapshot() (core.Snapshot, error) {
	snap := core.Snapshot{Database: a.path}
	if err := a.Close(); err != nil {
		return snap, fmt.Errorf("failed to close connection for snapshot: %w", err)
	}
	return snap, nil
}

// Restore reopens the database recorded in snap with the params of the
// previous connection.
func (a *Adapter) Restore(ctx context.Context, snap core.Snapshot) error {
	cfg := a.Cfg
	cfg.Path = snap.Database
	return a.Connect(ctx, cfg)
}

// buildSQLiteDSN builds a file URI with the open mode and busy timeout.
func buildSQLiteDSN(path string, p Params) string {
	pragma := "_pragma=busy_timeout(" + strconv.Itoa(p.BusyTimeout) + ")"
	if path == MemoryPath {
		return "file::memory:?" + pragma
	}

	mode := "rw"
	switch {
	case p.ReadOnly:
		mode = "ro"
	case p.Create:
		mode = "rwc"
	}
	return "file:" + path + "?mode=" + mode + "&" + pragma
}

func classifyError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		primary := code & 0xff
		return &core.QueryError{
			Engine:      Name,
			Code:        strconv.Itoa(code),
			Message:     sqliteErr.Error(),
			Unavailable: primary == sqlite3.SQLITE_BUSY || primary == sqlite3.SQLITE_LOCKED,
			Err:         err,
		}
	}
	return core.NewQueryError(Name, err)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
