package querybuilder

// TokenType identifies the type of token.
type TokenType int

// TokenType constants for query token types.
const (
	TokenText  TokenType = iota // Literal SQL text
	TokenParam                  // Parameter reference, Value holds the parameter ID
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenParam:
		return "PARAM"
	default:
		return "UNKNOWN"
	}
}

// Token is one element of a scanned query.
type Token struct {
	Type  TokenType
	Value string
}

// ForcedType is the type a parameter value must have, declared through a
// bracketed hint or a quick marker.
type ForcedType int

// ForcedType constants.
const (
	TypeNone ForcedType = iota
	TypeInt
	TypeFloat
	TypeBool
)

func (f ForcedType) String() string {
	switch f {
	case TypeNone:
		return "none"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Marker is a parameter occurrence resolved from its raw scanned parts.
type Marker struct {
	Name       string
	Type       ForcedType
	Identifier bool
	Line       int
}
