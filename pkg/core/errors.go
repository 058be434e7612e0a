package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for backend failures.
var (
	ErrQuery          = errors.New("query failed")
	ErrUnavailable    = errors.New("database temporarily unavailable")
	ErrConnection     = errors.New("connection failed")
	ErrNotConnected   = errors.New("database connection not established")
	ErrUnsupported    = errors.New("operation not supported")
	ErrNotRestartable = errors.New("cursor cannot be restarted")
	ErrNoSuchField    = errors.New("no such field")
)

// QueryError is a statement rejected by the backend. Lock contention and
// similar transient conditions set Unavailable; such errors match
// ErrUnavailable as well as ErrQuery.
type QueryError struct {
	Engine      string
	Code        string
	Message     string
	Unavailable bool
	Err         error
}

func (e *QueryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s query error %s: %s", e.Engine, e.Code, e.Message)
	}
	return fmt.Sprintf("%s query error: %s", e.Engine, e.Message)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is matches ErrQuery, and ErrUnavailable for transient failures.
func (e *QueryError) Is(target error) bool {
	return target == ErrQuery || (e.Unavailable && target == ErrUnavailable)
}

// StatusCode maps the error to an HTTP status for callers serving requests.
func (e *QueryError) StatusCode() int {
	if e.Unavailable {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// NewQueryError wraps a driver error that carries no backend code.
func NewQueryError(engine string, err error) *QueryError {
	return &QueryError{Engine: engine, Message: err.Error(), Err: err}
}

// ConnectionError is a failure to open or verify a connection.
type ConnectionError struct {
	Engine string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Engine, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Is matches ErrConnection.
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }
