package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect escapes string literals for one database backend. Every
// core.Engine is a Dialect.
type Dialect interface {
	Escape(s string) string
}

// IdentifierQuoter is implemented by dialects that quote identifiers with
// something other than a backtick.
type IdentifierQuoter interface {
	IdentifierQuote() string
}

// DefaultIdentifierQuote is used for dialects that do not implement
// IdentifierQuoter.
const DefaultIdentifierQuote = "`"

func identifierQuote(d Dialect) string {
	if q, ok := d.(IdentifierQuoter); ok && q.IdentifierQuote() != "" {
		return q.IdentifierQuote()
	}
	return DefaultIdentifierQuote
}

// QuoteIdentifier wraps name in quote, doubling any quote inside it.
func QuoteIdentifier(name, quote string) string {
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

// Serialize renders a value as a SQL literal. With identifier set, strings
// are quoted as identifiers instead of string literals.
func Serialize(v Value, identifier bool, d Dialect) (string, error) {
	switch v.kind {
	case KindString:
		if strings.EqualFold(v.str, "NULL") {
			return "NULL", nil
		}
		if identifier {
			return QuoteIdentifier(v.str, identifierQuote(d)), nil
		}
		return "'" + d.Escape(v.str) + "'", nil
	case KindInt:
		return strconv.FormatInt(v.i, 10), nil
	case KindFloat:
		return formatFloat(v.f, v.bits), nil
	case KindBool:
		if v.b {
			return "1", nil
		}
		return "0", nil
	case KindNull:
		return "NULL", nil
	case KindList:
		return serializeList(v.list, d)
	case KindBlob:
		return "'" + d.Escape(v.str) + "'", nil
	default:
		return "", &SerializeError{Kind: v.TypeName(), Msg: "value has no SQL representation"}
	}
}

// formatFloat keeps only characters that can appear in a numeric literal.
func formatFloat(f float64, bits int) string {
	if bits == 0 {
		bits = 64
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || strings.ContainsRune(".eE+-", r) {
			return r
		}
		return -1
	}, s)
}

// serializeList renders an IN-list. String lists are quoted once as a whole.
func serializeList(list []Value, d Dialect) (string, error) {
	if len(list) == 0 {
		return "", nil
	}

	kind := list[0].kind
	if kind != KindString && kind != KindInt {
		return "", &SerializeError{Kind: "list", Msg: fmt.Sprintf("list elements must be strings or integers, got %s", list[0].TypeName())}
	}

	parts := make([]string, len(list))
	for i, e := range list {
		if e.kind != kind {
			return "", &SerializeError{Kind: "list", Msg: fmt.Sprintf("mixed list elements: %s and %s", kind, e.TypeName())}
		}
		if kind == KindInt {
			parts[i] = strconv.FormatInt(e.i, 10)
		} else {
			parts[i] = d.Escape(e.str)
		}
	}

	joined := strings.Join(parts, ",")
	if kind == KindString {
		return "'" + joined + "'", nil
	}
	return joined, nil
}
