package querybuilder

import (
	"encoding"
	"fmt"
	"io"
	"math"
	"reflect"
)

// Kind is the variant of a bound Value.
type Kind int

// Kind constants. KindResource and KindUnsupported mark values that can be
// bound but never serialized.
const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindBlob
	KindResource
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindBlob:
		return "blob"
	case KindResource:
		return "resource"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Value is a runtime value classified once, when it is bound.
type Value struct {
	kind Kind
	str  string // text of String and Blob, Go type name of Resource and Unsupported
	i    int64
	f    float64
	bits int // float precision, 32 or 64
	b    bool
	list []Value
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether v is a string, int, float or bool.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindString, KindInt, KindFloat, KindBool:
		return true
	}
	return false
}

// TypeName describes the value for error messages.
func (v Value) TypeName() string {
	if v.kind == KindResource || v.kind == KindUnsupported {
		return v.str
	}
	return v.kind.String()
}

// Elements returns the members of a list value.
func (v Value) Elements() []Value { return v.list }

// ValueOf classifies a Go value. Named types are classified by their
// underlying kind; nil pointers and interfaces are null.
func ValueOf(x any) Value {
	if x == nil {
		return Value{kind: KindNull}
	}
	// Typed nil pointers are null, and must not reach value-receiver marshal methods.
	if rv := reflect.ValueOf(x); (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return Value{kind: KindNull}
	}

	switch t := x.(type) {
	case Value:
		return t
	case []byte:
		return Value{kind: KindBlob, str: string(t)}
	case io.Closer:
		return Value{kind: KindResource, str: fmt.Sprintf("%T", x)}
	case encoding.TextMarshaler:
		text, err := t.MarshalText()
		if err != nil {
			return Value{kind: KindUnsupported, str: fmt.Sprintf("%T", x)}
		}
		return Value{kind: KindBlob, str: string(text)}
	case encoding.BinaryMarshaler:
		data, err := t.MarshalBinary()
		if err != nil {
			return Value{kind: KindUnsupported, str: fmt.Sprintf("%T", x)}
		}
		return Value{kind: KindBlob, str: string(data)}
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.String:
		return Value{kind: KindString, str: rv.String()}
	case reflect.Bool:
		return Value{kind: KindBool, b: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Value{kind: KindInt, i: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{kind: KindUnsupported, str: fmt.Sprintf("%T", x)}
		}
		return Value{kind: KindInt, i: int64(u)}
	case reflect.Float32:
		return Value{kind: KindFloat, f: rv.Float(), bits: 32}
	case reflect.Float64:
		return Value{kind: KindFloat, f: rv.Float(), bits: 64}
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Value{kind: KindBlob, str: string(rv.Bytes())}
		}
		return listOf(rv)
	case reflect.Array:
		return listOf(rv)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{kind: KindNull}
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Uintptr:
		return Value{kind: KindResource, str: fmt.Sprintf("%T", x)}
	default:
		return Value{kind: KindUnsupported, str: fmt.Sprintf("%T", x)}
	}
}

func listOf(rv reflect.Value) Value {
	list := make([]Value, rv.Len())
	for i := range list {
		list[i] = ValueOf(rv.Index(i).Interface())
	}
	return Value{kind: KindList, list: list}
}
