package typeexpr

import (
	"reflect"
	"strings"
)

// Type is one node of an immutable type expression tree. Expressions are
// built once and shared; Resolve produces new trees and never mutates its
// inputs.
type Type interface {
	Kind() Kind
	String() string
}

var anyReflectType = reflect.TypeOf((*any)(nil)).Elem()

// anyType is the universal top type. Unresolved type variables degrade to
// it when they carry no declared bound.
type anyType struct{}

func (anyType) Kind() Kind     { return KindAny }
func (anyType) String() string { return "any" }

// Any is the universal top type singleton.
var Any Type = anyType{}

// Concrete is a ground Go type. It carries no generic structure of its own;
// resolution returns it unchanged.
type Concrete struct {
	GoType reflect.Type
}

// Of returns the Concrete expression for the Go type T.
func Of[T any]() Concrete {
	return Concrete{GoType: reflect.TypeOf((*T)(nil)).Elem()}
}

// OfType wraps an already-obtained reflect.Type.
func OfType(t reflect.Type) Concrete {
	return Concrete{GoType: t}
}

func (c Concrete) Kind() Kind { return KindConcrete }

func (c Concrete) String() string {
	if c.GoType == nil {
		return "<nil>"
	}

	return c.GoType.String()
}

// Variable is a named type parameter. Identity is pointer identity: the
// resolver matches a variable against a class's parameter list by pointer,
// so a declaration must reuse the same *Variable everywhere it appears.
type Variable struct {
	Name   string
	Bounds []Type // upper bounds; the first one is the erasure fallback
}

// NewVariable creates a type parameter with the given upper bounds.
func NewVariable(name string, bounds ...Type) *Variable {
	return &Variable{Name: name, Bounds: bounds}
}

func (v *Variable) Kind() Kind     { return KindVariable }
func (v *Variable) String() string { return v.Name }

// FirstBound returns the first declared upper bound, or Any for an
// unbounded variable. Only the first bound participates in fallback,
// mirroring the erasure rule of the descriptor model.
func (v *Variable) FirstBound() Type {
	if len(v.Bounds) > 0 {
		return v.Bounds[0]
	}

	return Any
}

// Parameterized applies ordered type arguments to a raw class.
type Parameterized struct {
	Raw  *Class
	Args []Type
}

// NewParameterized instantiates raw with the given arguments.
func NewParameterized(raw *Class, args ...Type) *Parameterized {
	return &Parameterized{Raw: raw, Args: args}
}

func (p *Parameterized) Kind() Kind { return KindParameterized }

func (p *Parameterized) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}

	// Dict and Ptr render in Go surface syntax.
	if sameClass(p.Raw, Dict) && len(args) == 2 {
		return "map[" + args[0] + "]" + args[1]
	}

	if sameClass(p.Raw, Ptr) && len(args) == 1 {
		return "*" + args[0]
	}

	return p.Raw.ID.Name + "[" + strings.Join(args, ", ") + "]"
}

// Wildcard is a bounded unknown. It never appears as a member's declared
// type directly, only nested inside parameterized arguments.
type Wildcard struct {
	Lower []Type
	Upper []Type
}

func (w *Wildcard) Kind() Kind { return KindWildcard }

func (w *Wildcard) String() string {
	var sb strings.Builder

	sb.WriteString("?")

	if len(w.Upper) > 0 {
		sb.WriteString(" extends ")
		sb.WriteString(joinTypes(w.Upper))
	}

	if len(w.Lower) > 0 {
		sb.WriteString(" super ")
		sb.WriteString(joinTypes(w.Lower))
	}

	return sb.String()
}

// Array is a sequence of elements. It stands for Go slices and arrays;
// once its element resolves to a ground type the whole expression
// collapses to the Concrete slice type.
type Array struct {
	Elem Type
}

// NewArray creates an array expression over elem.
func NewArray(elem Type) *Array {
	return &Array{Elem: elem}
}

func (a *Array) Kind() Kind { return KindArray }

func (a *Array) String() string {
	return "[]" + a.Elem.String()
}

// Builtin raw classes for shapes Go spells structurally. A map or pointer
// whose component is still generic is expressed as a Parameterized over
// these; ground maps and pointers are plain Concrete values.
var (
	Dict = &Class{ID: TypeID{Name: "map"}, Params: []*Variable{{Name: "K"}, {Name: "V"}}}
	Ptr  = &Class{ID: TypeID{Name: "ptr"}, Params: []*Variable{{Name: "E"}}}
)

// NewDict builds a map expression with the given key and value types.
func NewDict(key, val Type) *Parameterized {
	return NewParameterized(Dict, key, val)
}

// NewPtr builds a pointer expression over elem.
func NewPtr(elem Type) *Parameterized {
	return NewParameterized(Ptr, elem)
}

// GoTypeOf reports the runtime Go type an expression denotes, when one is
// derivable: ground values, Any, bound classes, and Dict/Ptr/Array shapes
// with derivable components. Parameterized instantiations of user classes
// have no derivable runtime type because Go erases their arguments.
func GoTypeOf(t Type) (reflect.Type, bool) {
	switch tt := t.(type) {
	case Concrete:
		return tt.GoType, tt.GoType != nil

	case anyType:
		return anyReflectType, true

	case *Class:
		return tt.GoType, tt.GoType != nil

	case *Parameterized:
		if sameClass(tt.Raw, Dict) && len(tt.Args) == 2 {
			key, kok := GoTypeOf(tt.Args[0])
			val, vok := GoTypeOf(tt.Args[1])

			if kok && vok {
				return reflect.MapOf(key, val), true
			}

			return nil, false
		}

		if sameClass(tt.Raw, Ptr) && len(tt.Args) == 1 {
			if elem, ok := GoTypeOf(tt.Args[0]); ok {
				return reflect.PointerTo(elem), true
			}

			return nil, false
		}

		return nil, false

	case *Array:
		if elem, ok := GoTypeOf(tt.Elem); ok {
			return reflect.SliceOf(elem), true
		}

		return nil, false

	default:
		return nil, false
	}
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}

	return strings.Join(parts, " & ")
}
