// Package postgres provides a PostgreSQL database adapter for querykit.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/leapstack-labs/querykit/pkg/adapter"
	"github.com/leapstack-labs/querykit/pkg/core"
)

// Name is the registered adapter name.
const Name = "postgres"

// DefaultPort is used when the config has no port.
const DefaultPort = 5432

// LockNotAvailable is the SQLSTATE raised when a lock cannot be acquired.
// Queries failing with it are reported as temporarily unavailable.
const LockNotAvailable = "55P03"

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
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

// Escape escapes s for a single-quoted string literal, assuming
// standard_conforming_strings is on.
func (a *Adapter) Escape(s string) string {
	return EscapeString(s)
}

// EscapeString doubles single quotes.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return a.Open(ctx, "pgx", buildPostgresDSN(cfg), cfg)
}

// Restore reconnects using a snapshot taken by Snapshot.
func (a *Adapter) Restore(ctx context.Context, snap core.Snapshot) error {
	return a.Connect(ctx, snap.Apply(a.Cfg))
}

// LastInsertID is not available through the pgx driver; use RETURNING.
func (a *Adapter) LastInsertID(_ context.Context) (int64, error) {
	return 0, fmt.Errorf("postgres last insert id: %w", core.ErrUnsupported)
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, quoteDSNValue(cfg.Database), sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", quoteDSNValue(cfg.Username))
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", quoteDSNValue(cfg.Password))
	}

	return dsn
}

// quoteDSNValue quotes a keyword/value connection string value when it is
// empty or contains spaces, quotes or backslashes.
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func classifyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &core.QueryError{
			Engine:      Name,
			Code:        pgErr.Code,
			Message:     pgErr.Message,
			Unavailable: pgErr.Code == LockNotAvailable,
			Err:         err,
		}
	}
	return core.NewQueryError(Name, err)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
