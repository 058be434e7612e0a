// Package duckdb provides a DuckDB database adapter for querykit.
package duckdb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/leapstack-labs/querykit/pkg/adapter"
	"github.com/leapstack-labs/querykit/pkg/core"
)

// Name is the registered adapter name.
const Name = "duckdb"

var settingName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, Driver: Name},
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

// Connect establishes a connection to DuckDB.
// An empty path opens an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return &core.ConnectionError{Engine: Name, Err: err}
	}

	path := cfg.Path
	if path == "" {
		path = cfg.Database
	}

	a.Logger.Debug("connecting to duckdb", slog.String("path", path))

	if err := a.Open(ctx, "duckdb", path, cfg); err != nil {
		return err
	}

	for _, stmt := range setupStatements(params) {
		if _, err := a.DB.ExecContext(ctx, stmt); err != nil {
			_ = a.Close()
			return &core.ConnectionError{Engine: Name, Err: fmt.Errorf("failed to run %q: %w", stmt, err)}
		}
	}
	return nil
}

// Restore reopens the database recorded in snap.
func (a *Adapter) Restore(ctx context.Context, snap core.Snapshot) error {
	cfg := a.Cfg
	cfg.Path = snap.Database
	return a.Connect(ctx, cfg)
}

// Snapshot captures the database path and closes the connection.
func (a *Adapter) Snapshot() (core.Snapshot, error) {
	path := a.Cfg.Path
	if path == "" {
		path = a.Cfg.Database
	}
	snap := core.Snapshot{Database: path}
	if err := a.Close(); err != nil {
		return snap, fmt.Errorf("failed to close connection for snapshot: %w", err)
	}
	return snap, nil
}

// LastInsertID is not available in DuckDB; use RETURNING.
func (a *Adapter) LastInsertID(_ context.Context) (int64, error) {
	return 0, fmt.Errorf("duckdb last insert id: %w", core.ErrUnsupported)
}

// setupStatements returns the extension and setting statements to run after
// connecting. Settings with invalid names are skipped.
func setupStatements(p *Params) []string {
	var stmts []string
	for _, ext := range p.Extensions {
		if !settingName.MatchString(ext) {
			continue
		}
		stmts = append(stmts, "INSTALL "+ext, "LOAD "+ext)
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		if settingName.MatchString(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmts = append(stmts, fmt.Sprintf("SET %s = '%s'", k, strings.ReplaceAll(p.Settings[k], "'", "''")))
	}
	return stmts
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
