package core

import (
	"strings"
	"unicode"
)

// StatementKind groups statements by the result they produce.
type StatementKind int

// StatementKind constants.
const (
	StatementOther   StatementKind = iota // DDL and anything unrecognized
	StatementRead                         // SELECT, SHOW, EXPLAIN, DESCRIBE
	StatementWrite                        // DELETE, INSERT, REPLACE, UPDATE
	StatementControl                      // START, COMMIT, ROLLBACK, SET
)

func (k StatementKind) String() string {
	switch k {
	case StatementRead:
		return "read"
	case StatementWrite:
		return "write"
	case StatementControl:
		return "control"
	default:
		return "other"
	}
}

// Classify returns the kind of stmt based on its first word, ignoring case.
func Classify(stmt string) StatementKind {
	switch strings.ToUpper(firstWord(stmt)) {
	case "SELECT", "SHOW", "EXPLAIN", "DESCRIBE":
		return StatementRead
	case "DELETE", "INSERT", "REPLACE", "UPDATE":
		return StatementWrite
	case "START", "COMMIT", "ROLLBACK", "SET":
		return StatementControl
	default:
		return StatementOther
	}
}

func firstWord(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	end := strings.IndexFunc(stmt, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	if end < 0 {
		return stmt
	}
	return stmt[:end]
}

// IsReadStatement reports whether stmt should go to a read replica: the
// trimmed text must start with "SELECT " exactly. Lowercase selects, SHOW and
// other read-only statements are not matched.
func IsReadStatement(stmt string) bool {
	return strings.HasPrefix(strings.TrimSpace(stmt), "SELECT ")
}
