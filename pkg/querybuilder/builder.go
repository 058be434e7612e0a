// Package querybuilder compiles SQL templates with typed parameter markers
// into literal SQL.
//
// A marker is written as sigil [ '[' hint ']' ] name sigil, where the sigil is
// '@', '#' or '$' and the hint is one of int, float, bool, ident or
// identifier:
//
//	SELECT * FROM $table$ WHERE id = #id# AND price > @[float]min@
//
// '#name#' is shorthand for '@[int]name@' and '$name$' for
// '@[identifier]name@'.
package querybuilder

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/querykit/pkg/core"
)

// Builder holds a scanned query and the values bound to its parameters.
// A Builder is not safe for concurrent use.
type Builder struct {
	tokens []Token
	params *registry

	bound      map[string]binding
	boundOrder []string

	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New scans query and returns a builder for it. An empty query is allowed.
func New(query string, opts ...Option) (*Builder, error) {
	b := &Builder{
		params: newRegistry(),
		bound:  make(map[string]binding),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}

	tokens, err := b.scan(query)
	if err != nil {
		return nil, err
	}
	b.tokens = tokens
	return b, nil
}

// Append scans fragment and adds it to the query, separated by a space.
// Blank fragments are ignored. Line numbers in errors count from the start
// of the fragment. On error the builder is unchanged.
func (b *Builder) Append(fragment string) error {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}
	tokens, err := b.scan(fragment)
	if err != nil {
		return err
	}
	b.tokens = append(b.tokens, Token{Type: TokenText, Value: " "})
	b.tokens = append(b.tokens, tokens...)
	return nil
}

func (b *Builder) scan(fragment string) ([]Token, error) {
	reg := b.params.clone()
	tokens, err := NewScanner(strings.TrimSpace(fragment)).Scan(reg.declare)
	if err != nil {
		return nil, err
	}
	b.params = reg
	return tokens, nil
}

// Tokens returns a copy of the scanned token stream.
func (b *Builder) Tokens() []Token {
	out := make([]Token, len(b.tokens))
	copy(out, b.tokens)
	return out
}

// Parameters returns the declared parameters in declaration order.
func (b *Builder) Parameters() []Descriptor {
	return b.params.descriptors()
}

// HasParameter reports whether name is declared in the query.
func (b *Builder) HasParameter(name string) bool {
	_, ok := b.params.lookup(name)
	return ok
}

// Clone returns a builder sharing the scanned query but with no values bound.
func (b *Builder) Clone() *Builder {
	return &Builder{
		tokens: b.Tokens(),
		params: b.params.clone(),
		bound:  make(map[string]binding),
		logger: b.logger,
	}
}

// Compose validates and serializes every bound value and returns the final
// SQL. Parameters without a value expand to nothing. Bound values are
// cleared after a successful compose.
func (b *Builder) Compose(d Dialect) (string, error) {
	serialized := make(map[string]string, len(b.boundOrder))
	for _, name := range b.boundOrder {
		bd := b.bound[name]
		desc, err := b.check(name, bd.value)
		if err != nil {
			return "", err
		}
		lit, err := Serialize(bd.value, desc.Identifier, d)
		if err != nil {
			var se *SerializeError
			if errors.As(err, &se) {
				se.Param = name
			}
			return "", err
		}
		serialized[desc.ID] = lit
	}

	var sb strings.Builder
	for _, tok := range b.tokens {
		switch tok.Type {
		case TokenText:
			sb.WriteString(tok.Value)
		case TokenParam:
			sb.WriteString(serialized[tok.Value])
		}
	}

	b.logger.Debug("composed query", slog.Int("params", len(serialized)))
	b.Reset()
	return sb.String(), nil
}

// Execute composes the query with the engine's escaping and runs it.
func (b *Builder) Execute(ctx context.Context, engine core.Engine, opts ...core.QueryOption) (core.Result, error) {
	query, err := b.Compose(engine)
	if err != nil {
		return nil, err
	}
	return engine.Query(ctx, query, opts...)
}
