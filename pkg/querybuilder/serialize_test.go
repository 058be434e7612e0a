package querybuilder

import (
	"math"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		identifier bool
		want       string
	}{
		{name: "string", value: "abc", want: "'abc'"},
		{name: "string with quote", value: "it's", want: "'it''s'"},
		{name: "NULL literal", value: "NULL", want: "NULL"},
		{name: "null literal lowercase", value: "nUlL", want: "NULL"},
		{name: "NULL literal as identifier", value: "NULL", identifier: true, want: "NULL"},
		{name: "null", value: nil, want: "NULL"},
		{name: "identifier", value: "orders", identifier: true, want: "`orders`"},
		{name: "identifier with backtick", value: "a`b`c", identifier: true, want: "`a``b``c`"},
		{name: "identifier int", value: 5, identifier: true, want: "5"},
		{name: "int", value: 42, want: "42"},
		{name: "negative int", value: int64(-7), want: "-7"},
		{name: "float", value: 3.25, want: "3.25"},
		{name: "float32", value: float32(0.1), want: "0.1"},
		{name: "large float", value: 1e21, want: "1e+21"},
		{name: "small float", value: -2.5e-7, want: "-2.5e-07"},
		{name: "nan is stripped", value: math.NaN(), want: ""},
		{name: "true", value: true, want: "1"},
		{name: "false", value: false, want: "0"},
		{name: "int list", value: []int{1, 2, 3}, want: "1,2,3"},
		{name: "string list", value: []string{"a", "b"}, want: "'a,b'"},
		{name: "string list escaped", value: []string{"o'k", "x"}, want: "'o''k,x'"},
		{name: "empty list", value: []int{}, want: ""},
		{name: "bytes", value: []byte("a'b"), want: "'a''b'"},
		{name: "text marshaler", value: net.ParseIP("192.0.2.1"), want: "'192.0.2.1'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Serialize(ValueOf(tt.value), tt.identifier, quoteDialect{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSerialize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		message string
	}{
		{name: "map", value: map[string]string{}, message: "cannot serialize map[string]string value"},
		{name: "struct", value: point{}, message: "value has no SQL representation"},
		{name: "func", value: func() {}, message: "cannot serialize func() value"},
		{name: "float list", value: []float64{1.5}, message: "list elements must be strings or integers, got float"},
		{name: "bool list", value: []bool{true}, message: "got bool"},
		{name: "mixed list", value: []any{"a", 1}, message: "mixed list elements: string and int"},
		{name: "null in list", value: []any{1, nil}, message: "mixed list elements: int and null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Serialize(ValueOf(tt.value), false, quoteDialect{})

			var se *SerializeError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, se.Error(), tt.message)
		})
	}
}

func TestSerialize_DialectIdentifierQuote(t *testing.T) {
	got, err := Serialize(ValueOf(`my "table"`), true, ansiDialect{})
	require.NoError(t, err)
	assert.Equal(t, `"my ""table"""`, got)
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`a`", QuoteIdentifier("a", "`"))
	assert.Equal(t, "````", QuoteIdentifier("`", "`"))
	assert.Equal(t, `"x""y"`, QuoteIdentifier(`x"y`, `"`))
}
