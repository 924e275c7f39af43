// Package factory creates fresh values for property writes that cross
// absent intermediates. The default implementation covers the shapes
// navigation can meet; custom factories plug in through the same
// interface when construction needs arguments or non-zero defaults.
package factory

import (
	"fmt"
	"reflect"
)

// Factory builds values of requested types during navigation.
type Factory interface {
	// Create builds a fresh, addressable value of type t. args carry
	// implementation-defined construction arguments.
	Create(t reflect.Type, args ...any) (reflect.Value, error)
	// CanCreate reports whether Create can succeed for t without args.
	CanCreate(t reflect.Type) bool
}

// Default creates zero values: structs and basic kinds as addressable
// zeroes, pointers with their pointee allocated through, maps and
// slices empty but non-nil, and the empty interface as
// map[string]any. It accepts no construction arguments.
var Default Factory = defaultFactory{}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

type defaultFactory struct{}

func (defaultFactory) Create(t reflect.Type, args ...any) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, fmt.Errorf("cannot create a value of no type")
	}
	if len(args) > 0 {
		return reflect.Value{}, fmt.Errorf("default factory takes no arguments, got %d for %s", len(args), t)
	}
	return create(t)
}

func (defaultFactory) CanCreate(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Pointer:
		return defaultFactory{}.CanCreate(t.Elem())
	case reflect.Map, reflect.Slice, reflect.Struct:
		return true
	case reflect.Interface:
		return t == anyType
	case reflect.Chan, reflect.Func, reflect.Invalid, reflect.UnsafePointer:
		return false
	default:
		return true
	}
}

func create(t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Pointer:
		inner, err := create(t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, nil

	case reflect.Map:
		return reflect.MakeMap(t), nil

	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0), nil

	case reflect.Interface:
		if t == anyType {
			return reflect.ValueOf(map[string]any{}), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot create a value for interface %s", t)

	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return reflect.Value{}, fmt.Errorf("cannot create a value of kind %s", t.Kind())

	default:
		return reflect.New(t).Elem(), nil
	}
}
