package meta

import (
	"fmt"
	"reflect"

	"metanav/factory"
	"metanav/proppath"
)

// Wrapper is the capability surface one navigation step operates
// through. Implementations exist for struct-backed beans, maps, and
// sequences; values may also implement Wrapper themselves, and a
// WrapperFactory can claim values ahead of the built-in selection.
//
// Methods that take a Segment receive the full parsed path and drill
// through child navigators when the segment has a remainder.
type Wrapper interface {
	// Get reads the value at the segment's head. Absent values report
	// an invalid reflect.Value with no error.
	Get(seg proppath.Segment) (reflect.Value, error)

	// Set writes the value at the segment's head.
	Set(seg proppath.Segment, value reflect.Value) error

	// FindProperty maps a loosely spelled path to its canonical dotted
	// form, dropping index syntax. caseInsensitive additionally ignores
	// case, underscores, and dashes per step.
	FindProperty(name string, caseInsensitive bool) (string, bool)

	// GetterNames lists the readable property names of this value.
	GetterNames() []string

	// SetterNames lists the writable property names of this value.
	SetterNames() []string

	// GetterType reports the type a read of the path would produce, nil
	// when the path cannot be answered.
	GetterType(seg proppath.Segment) reflect.Type

	// SetterType reports the type a write to the path expects, nil when
	// the path cannot be answered.
	SetterType(seg proppath.Segment) reflect.Type

	// HasGetter reports whether the path is readable, drilling through
	// declared types when intermediate values are absent.
	HasGetter(seg proppath.Segment) bool

	// HasSetter reports whether the path is writable.
	HasSetter(seg proppath.Segment) bool

	// InstantiateProperty materializes the value at the segment's head
	// through f and returns a navigator over it. Indexed segments
	// materialize the container first, growing sequences to cover the
	// position and allocating pointer, map, and slice elements.
	InstantiateProperty(seg proppath.Segment, f factory.Factory) (*Object, error)

	// IsCollection reports whether the value is a sequence.
	IsCollection() bool

	// Add appends one element. Panics on non-sequence values.
	Add(element any)

	// AddAll appends each element. Panics on non-sequence values.
	AddAll(elements []any)
}

// WrapperFactory supplies custom wrappers for values the built-in
// selection should not handle.
type WrapperFactory interface {
	// Wrap returns the wrapper for v, or false when this factory does
	// not recognize the value.
	Wrap(o *Object, v reflect.Value) (Wrapper, bool)
}

// nullWrapper serves the Null navigator: every read is absent, every
// write fails.
type nullWrapper struct{}

func (nullWrapper) Get(proppath.Segment) (reflect.Value, error) { return reflect.Value{}, nil }

func (nullWrapper) Set(seg proppath.Segment, _ reflect.Value) error {
	return fmt.Errorf("%w: cannot set %q through a null value", ErrNotWritable, seg.String())
}

func (nullWrapper) FindProperty(string, bool) (string, bool) { return "", false }

func (nullWrapper) GetterNames() []string { return nil }

func (nullWrapper) SetterNames() []string { return nil }

func (nullWrapper) GetterType(proppath.Segment) reflect.Type { return nil }

func (nullWrapper) SetterType(proppath.Segment) reflect.Type { return nil }

func (nullWrapper) HasGetter(proppath.Segment) bool { return false }

func (nullWrapper) HasSetter(proppath.Segment) bool { return false }

func (nullWrapper) InstantiateProperty(seg proppath.Segment, _ factory.Factory) (*Object, error) {
	return nil, fmt.Errorf("%w: cannot instantiate %q through a null value", ErrNotWritable, seg.String())
}

func (nullWrapper) IsCollection() bool { return false }

func (nullWrapper) Add(any) { panic("meta: Add on a null value") }

func (nullWrapper) AddAll([]any) { panic("meta: AddAll on a null value") }
