package core

import "context"

// Engine executes composed statements against a database.
type Engine interface {
	// Query runs stmt and shapes the result by statement kind.
	Query(ctx context.Context, stmt string, opts ...QueryOption) (Result, error)

	// Escape escapes s for use inside a single-quoted string literal.
	Escape(s string) string

	// LastInsertID returns the ID generated by the last write statement.
	LastInsertID(ctx context.Context) (int64, error)

	// AffectedRows returns the number of rows changed by the last write
	// statement.
	AffectedRows() int64
}

// Adapter is an Engine bound to one backend type.
type Adapter interface {
	Engine

	// Name returns the registered adapter name, e.g. "mysql".
	Name() string

	// Connect establishes a connection using the provided config.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the connection and releases resources.
	Close() error

	// IdentifierQuote returns the character used to quote identifiers.
	IdentifierQuote() string

	// Snapshot captures the connection parameters and closes the connection.
	Snapshot() (Snapshot, error)

	// Restore reconnects using a previously captured snapshot.
	Restore(ctx context.Context, snap Snapshot) error
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Options  map[string]string
	Params   map[string]any
}

// QueryOptions controls how query results are returned.
type QueryOptions struct {
	// Set returns a cursor even when exactly one row matched.
	Set bool
	// Unbuffered streams rows instead of reading them all up front.
	Unbuffered bool
}

// QueryOption configures a single query.
type QueryOption func(*QueryOptions)

// AsSet makes row-returning statements always produce a cursor.
func AsSet() QueryOption {
	return func(o *QueryOptions) { o.Set = true }
}

// Unbuffered makes row-returning statements produce a forward-only cursor.
func Unbuffered() QueryOption {
	return func(o *QueryOptions) { o.Unbuffered = true }
}

// ApplyQueryOptions folds opts into a QueryOptions value.
func ApplyQueryOptions(opts ...QueryOption) QueryOptions {
	var o QueryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
