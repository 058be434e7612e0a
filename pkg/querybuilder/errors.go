package querybuilder

import (
	"errors"
	"fmt"
)

// ErrNoFields is returned when an UpdateBuilder is composed without fields.
var ErrNoFields = errors.New("no fields specified for SQL query")

// SyntaxError is a malformed marker found while scanning a query.
type SyntaxError struct {
	Line int // 1-based line within the scanned fragment
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Msg)
}

func newSyntaxError(line int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// BindError is a value that cannot be bound to a parameter.
type BindError struct {
	Param string
	Msg   string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("unable to set parameter %q: %s", e.Param, e.Msg)
}

// SerializeError is a bound value that has no SQL literal form.
type SerializeError struct {
	Param string // empty for update fields
	Kind  string
	Msg   string
}

func (e *SerializeError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("cannot serialize %s value: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("cannot serialize parameter %q (%s): %s", e.Param, e.Kind, e.Msg)
}

// InvariantError reports internal state that contradicts itself, such as a
// parameter declared twice with different types.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "consistency violation: " + e.Msg
}
