package querybuilder

import (
	"fmt"
	"log/slog"
)

type binding struct {
	raw   any
	value Value
}

// Bind classifies value, stores it under name and validates it against the
// parameter declaration. The value is stored even when validation fails; the
// same check runs again at compose time.
func (b *Builder) Bind(name string, value any) error {
	v := ValueOf(value)
	if _, ok := b.bound[name]; !ok {
		b.boundOrder = append(b.boundOrder, name)
	}
	b.bound[name] = binding{raw: value, value: v}

	_, err := b.check(name, v)
	return err
}

// Set binds value to name, logging instead of returning a validation error.
func (b *Builder) Set(name string, value any) {
	if err := b.Bind(name, value); err != nil {
		b.logger.Debug("invalid parameter value stored", slog.String("param", name), slog.String("error", err.Error()))
	}
}

// Get returns the value bound to name, or nil if nothing is bound.
func (b *Builder) Get(name string) any {
	bd, ok := b.bound[name]
	if !ok {
		b.logger.Warn("query parameter is not set", slog.String("param", name))
		return nil
	}
	return bd.raw
}

// Reset clears all bound values. The scanned query is kept.
func (b *Builder) Reset() {
	b.bound = make(map[string]binding)
	b.boundOrder = nil
}

func (b *Builder) check(name string, v Value) (*Descriptor, error) {
	d, ok := b.params.lookup(name)
	if !ok {
		return nil, &BindError{Param: name, Msg: "unknown parameter"}
	}
	if v.kind == KindResource {
		return nil, &BindError{Param: name, Msg: fmt.Sprintf("cannot bind resource of type %s", v.TypeName())}
	}
	if d.Identifier && !v.IsScalar() {
		return nil, &BindError{Param: name, Msg: fmt.Sprintf("identifier requires a scalar value, got %s", v.TypeName())}
	}
	if !matchesType(v, d.Type) {
		return nil, &BindError{Param: name, Msg: fmt.Sprintf("expected %s value, got %s", d.Type, v.TypeName())}
	}
	return d, nil
}

// matchesType checks v against a forced type. Lists match when every element
// does; null matches int and float but not bool, and never inside a list.
func matchesType(v Value, t ForcedType) bool {
	if t == TypeNone {
		return true
	}
	if v.kind == KindList {
		want := forcedKind(t)
		for _, e := range v.list {
			if e.kind != want {
				return false
			}
		}
		return true
	}
	switch t {
	case TypeInt:
		return v.kind == KindInt || v.kind == KindNull
	case TypeFloat:
		return v.kind == KindFloat || v.kind == KindNull
	case TypeBool:
		return v.kind == KindBool
	}
	return false
}

func forcedKind(t ForcedType) Kind {
	switch t {
	case TypeInt:
		return KindInt
	case TypeFloat:
		return KindFloat
	default:
		return KindBool
	}
}
