package querybuilder

import (
	"context"
	"strings"

	"github.com/leapstack-labs/querykit/pkg/core"
)

// UpdateBuilder builds an UPDATE statement, or an INSERT ... ON DUPLICATE KEY
// UPDATE statement when no condition is given. The condition is a query
// template whose parameters are bound through the embedded Builder.
type UpdateBuilder struct {
	*Builder

	table      string
	insert     bool // fixed at construction; appends do not change the mode
	fields     []string
	fieldIndex map[string]int
	values     []any
}

// NewUpdate creates an update builder for table. An empty condition produces
// an upsert.
func NewUpdate(table, condition string, opts ...Option) (*UpdateBuilder, error) {
	b, err := New(condition, opts...)
	if err != nil {
		return nil, err
	}
	return &UpdateBuilder{
		Builder:    b,
		table:      table,
		insert:     len(b.tokens) == 0,
		fieldIndex: make(map[string]int),
	}, nil
}

// AddField sets the value of a column. Setting a column again replaces its
// value but keeps its position.
func (u *UpdateBuilder) AddField(field string, value any) {
	if i, ok := u.fieldIndex[field]; ok {
		u.values[i] = value
		return
	}
	u.fieldIndex[field] = len(u.fields)
	u.fields = append(u.fields, field)
	u.values = append(u.values, value)
}

// Fields returns the column names in insertion order.
func (u *UpdateBuilder) Fields() []string {
	out := make([]string, len(u.fields))
	copy(out, u.fields)
	return out
}

// Compose renders the statement. Field values are serialized as plain
// literals. Bound condition values are cleared on success; fields are kept.
func (u *UpdateBuilder) Compose(d Dialect) (string, error) {
	if len(u.fields) == 0 {
		return "", ErrNoFields
	}

	values := make([]string, len(u.fields))
	for i, raw := range u.values {
		lit, err := Serialize(ValueOf(raw), false, d)
		if err != nil {
			return "", err
		}
		values[i] = lit
	}

	table := QuoteIdentifier(u.table, identifierQuote(d))

	var sb strings.Builder
	if u.insert {
		sb.WriteString("INSERT INTO ")
		sb.WriteString(table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(u.fields, ", "))
		sb.WriteString(") VALUES (")
		sb.WriteString(strings.Join(values, ", "))
		sb.WriteString(") ON DUPLICATE KEY UPDATE ")
		sb.WriteString(assignments(u.fields, values))
		return sb.String(), nil
	}

	condition, err := u.Builder.Compose(d)
	if err != nil {
		return "", err
	}
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")
	sb.WriteString(assignments(u.fields, values))
	sb.WriteString(" WHERE ")
	sb.WriteString(condition)
	return sb.String(), nil
}

// Execute composes the statement with the engine's escaping and runs it.
func (u *UpdateBuilder) Execute(ctx context.Context, engine core.Engine, opts ...core.QueryOption) (core.Result, error) {
	query, err := u.Compose(engine)
	if err != nil {
		return nil, err
	}
	return engine.Query(ctx, query, opts...)
}

func assignments(fields, values []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + " = " + values[i]
	}
	return strings.Join(parts, ", ")
}
