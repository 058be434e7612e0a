package querybuilder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Descriptor describes a declared parameter. Every occurrence of a name in a
// builder shares one Descriptor.
type Descriptor struct {
	ID         string
	Name       string
	Type       ForcedType
	Identifier bool
}

// resolveMarker turns the raw parts of a scanned marker into a Marker.
// '#name#' is an int marker and '$name$' an identifier marker; neither may
// carry a hint of its own.
func resolveMarker(sigil rune, hint, name string, line int) (Marker, error) {
	m := Marker{Name: name, Line: line}

	if sigil != '@' && hint != "" {
		return Marker{}, &InvariantError{Msg: fmt.Sprintf(
			"quick marker '%c' on line %d carries type-hint %q", sigil, line, hint)}
	}

	switch sigil {
	case '#':
		m.Type = TypeInt
	case '$':
		m.Identifier = true
	default:
		switch strings.ToLower(hint) {
		case "":
		case "int":
			m.Type = TypeInt
		case "float":
			m.Type = TypeFloat
		case "bool":
			m.Type = TypeBool
		case "ident", "identifier":
			m.Identifier = true
		default:
			return Marker{}, newSyntaxError(line, "invalid type-hint %q", hint)
		}
	}

	if name == "" {
		return Marker{}, newSyntaxError(line, "invalid parameter name")
	}
	return m, nil
}

// registry maps parameter names to descriptors in declaration order.
type registry struct {
	byName map[string]*Descriptor
	order  []string
}

func newRegistry() *registry {
	return &registry{byName: make(map[string]*Descriptor)}
}

// declare returns the ID for the marker's name, allocating a new one on first
// use. A later occurrence must agree with the first on type and identifier
// flag.
func (r *registry) declare(m Marker) (string, error) {
	if d, ok := r.byName[m.Name]; ok {
		if d.Type != m.Type || d.Identifier != m.Identifier {
			return "", &InvariantError{Msg: fmt.Sprintf(
				"parameter %q redeclared on line %d as %s (identifier=%t), previously %s (identifier=%t)",
				m.Name, m.Line, m.Type, m.Identifier, d.Type, d.Identifier)}
		}
		return d.ID, nil
	}

	d := &Descriptor{
		ID:         uuid.NewString(),
		Name:       m.Name,
		Type:       m.Type,
		Identifier: m.Identifier,
	}
	r.byName[d.Name] = d
	r.order = append(r.order, d.Name)
	return d.ID, nil
}

func (r *registry) lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

func (r *registry) descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.byName[name])
	}
	return out
}

func (r *registry) clone() *registry {
	c := newRegistry()
	for _, name := range r.order {
		d := *r.byName[name]
		c.byName[name] = &d
		c.order = append(c.order, name)
	}
	return c
}
