package meta

import (
	"fmt"
	"reflect"
	"strconv"

	"metanav/proppath"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// nilish reports whether v is invalid or a nil of a nilable kind.
func nilish(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// unwrapInterface strips non-nil interface wrappers.
func unwrapInterface(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// concrete strips interface wrappers and pointers, stopping at a nil
// pointer, which yields an invalid value.
func concrete(v reflect.Value) reflect.Value {
	for {
		switch {
		case v.Kind() == reflect.Interface && !v.IsNil():
			v = v.Elem()
		case v.Kind() == reflect.Pointer:
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		default:
			return v
		}
	}
}

// indirectType strips pointer levels off a type.
func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// dynamicType reports the runtime type of v, looking through a non-nil
// interface wrapper.
func dynamicType(v reflect.Value) reflect.Type {
	if v.Kind() == reflect.Interface && !v.IsNil() {
		return v.Elem().Type()
	}
	return v.Type()
}

// elemType reports the element type an indexed step lands on, or nil
// when t cannot be indexed.
func elemType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return t.Elem()
	case reflect.Interface:
		if t == anyType {
			return anyType
		}
	}
	return nil
}

// mapKey renders the raw index text as a key of the map's key type.
// Unrepresentable keys report false, which reads as an absent entry.
func mapKey(kt reflect.Type, raw string) (reflect.Value, bool) {
	switch kt.Kind() {
	case reflect.String:
		return reflect.ValueOf(raw).Convert(kt), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		k := reflect.New(kt).Elem()
		if k.OverflowInt(n) {
			return reflect.Value{}, false
		}
		k.SetInt(n)
		return k, true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		k := reflect.New(kt).Elem()
		if k.OverflowUint(n) {
			return reflect.Value{}, false
		}
		k.SetUint(n)
		return k, true

	case reflect.Interface:
		if kt == anyType {
			return reflect.ValueOf(raw), true
		}
	}
	return reflect.Value{}, false
}

// assignValue stores value into dst, converting between numeric kinds.
// An invalid value zeroes the destination.
func assignValue(dst, value reflect.Value) error {
	coerced, err := coerceValue(value, dst.Type())
	if err != nil {
		return err
	}
	if !dst.CanSet() {
		return fmt.Errorf("%w: cannot set %s", ErrNotWritable, dst.Type())
	}
	dst.Set(coerced)
	return nil
}

// coerceValue adapts value to want the same way a property write does:
// assignable values pass through, numerics convert, an invalid value
// becomes the zero value.
func coerceValue(value reflect.Value, want reflect.Type) (reflect.Value, error) {
	if !value.IsValid() {
		return reflect.Zero(want), nil
	}
	vt := value.Type()
	switch {
	case vt.AssignableTo(want):
		return value, nil
	case numericKind(vt.Kind()) && numericKind(want.Kind()):
		return value.Convert(want), nil
	default:
		return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", vt, want)
	}
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// parsePosition reads an indexed segment's position with no upper
// bound.
func parsePosition(seg proppath.Segment) (int, error) {
	idx, err := strconv.Atoi(seg.Index)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("%w: %q is not a valid position", ErrIndexOutOfRange, seg.Index)
	}
	return idx, nil
}

// parseIndex reads the positional index of an indexed segment against a
// live length.
func parseIndex(seg proppath.Segment, length int) (int, error) {
	idx, err := parsePosition(seg)
	if err != nil {
		return 0, err
	}
	if idx >= length {
		return 0, fmt.Errorf("%w: %s, length is %d", ErrIndexOutOfRange, seg.IndexedName(), length)
	}
	return idx, nil
}
