// Package mysql provides a MySQL database adapter for querykit.
package mysql

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/leapstack-labs/querykit/pkg/adapter"
	"github.com/leapstack-labs/querykit/pkg/core"
)

// Name is the registered adapter name.
const Name = "mysql"

// DefaultPort is used when the config has no port.
const DefaultPort = 3306

// ErLockWaitTimeout is ER_LOCK_WAIT_TIMEOUT (1205), raised when a lock wait
// times out. Queries failing with it are reported as temporarily unavailable.
// Error 1025 (ER_ERROR_ON_RENAME) is not a lock error and stays a plain
// query error.
const ErLockWaitTimeout = 1205

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
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

// IdentifierQuote returns the backtick.
func (a *Adapter) IdentifierQuote() string {
	return "`"
}

// Escape escapes s for a single-quoted MySQL string literal.
func (a *Adapter) Escape(s string) string {
	return EscapeString(s)
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to mysql", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return a.Open(ctx, "mysql", buildMySQLDSN(cfg), cfg)
}

// Restore reconnects using a snapshot taken by Snapshot.
func (a *Adapter) Restore(ctx context.Context, snap core.Snapshot) error {
	return a.Connect(ctx, snap.Apply(a.Cfg))
}

// buildMySQLDSN constructs a go-sql-driver DSN. A config with a path and no
// host connects over a unix socket. Options are appended as DSN
// parameters.
func buildMySQLDSN(cfg adapter.Config) string {
	c := gomysql.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.DBName = cfg.Database

	if cfg.Host == "" && cfg.Path != "" {
		c.Net = "unix"
		c.Addr = cfg.Path
	} else {
		host := cfg.Host
		if host == "" {
			host = "localhost"
		}
		port := cfg.Port
		if port == 0 {
			port = DefaultPort
		}
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	}

	dsn := c.FormatDSN()
	if len(cfg.Options) > 0 {
		params := url.Values{}
		for k, v := range cfg.Options {
			params.Set(k, v)
		}
		dsn += "?" + params.Encode()
	}
	return dsn
}

func classifyError(err error) error {
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return &core.QueryError{
			Engine:      Name,
			Code:        strconv.Itoa(int(myErr.Number)),
			Message:     myErr.Message,
			Unavailable: myErr.Number == ErLockWaitTimeout,
			Err:         err,
		}
	}
	return core.NewQueryError(Name, err)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
