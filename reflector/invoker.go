package reflector

import (
	"fmt"
	"reflect"
)

// Getter reads one property from a target value of the reflector's type.
type Getter interface {
	// Get reads the property. A property that is unreachable because a
	// nil embedded pointer sits on its path yields an invalid value and
	// no error.
	Get(target reflect.Value) (reflect.Value, error)
	// Type is the static result type of the read.
	Type() reflect.Type
}

// Setter writes one property on a target value of the reflector's type.
type Setter interface {
	Set(target, value reflect.Value) error
	// Type is the static value type accepted by the write.
	Type() reflect.Type
}

// fieldAccessor reads and writes a struct field addressed by its index
// path, which may traverse embedded structs and embedded pointers.
type fieldAccessor struct {
	name  string
	index []int
	typ   reflect.Type
}

func (a fieldAccessor) Type() reflect.Type { return a.typ }

func (a fieldAccessor) Get(target reflect.Value) (reflect.Value, error) {
	sv := concrete(target)
	if !sv.IsValid() || sv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("cannot read field %s of %s", a.name, describe(target))
	}
	fv, err := sv.FieldByIndexErr(a.index)
	if err != nil {
		// Promoted field behind a nil embedded pointer: absent.
		return reflect.Value{}, nil
	}
	return fv, nil
}

func (a fieldAccessor) Set(target, value reflect.Value) error {
	sv := concrete(target)
	if !sv.IsValid() || sv.Kind() != reflect.Struct {
		return fmt.Errorf("cannot set field %s of %s", a.name, describe(target))
	}

	fv := sv
	for step, x := range a.index {
		if step > 0 {
			for fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					if !fv.CanSet() {
						return fmt.Errorf("cannot allocate embedded %s on the way to %s", fv.Type(), a.name)
					}
					fv.Set(reflect.New(fv.Type().Elem()))
				}
				fv = fv.Elem()
			}
		}
		fv = fv.Field(x)
	}

	if !fv.CanSet() {
		return fmt.Errorf("cannot set field %s of unaddressable %s value", a.name, sv.Type())
	}
	return assign(fv, value, a.name)
}

// methodGetter invokes a GetX or IsX accessor. The method index is
// taken from the pointer type's method set.
type methodGetter struct {
	name  string
	index int
	typ   reflect.Type
}

func (g methodGetter) Type() reflect.Type { return g.typ }

func (g methodGetter) Get(target reflect.Value) (reflect.Value, error) {
	recv, ok := receiver(target)
	if !ok {
		return reflect.Value{}, nil
	}
	out := recv.Method(g.index).Call(nil)
	return out[0], nil
}

// methodSetter invokes a SetX accessor.
type methodSetter struct {
	name  string
	index int
	typ   reflect.Type
}

func (s methodSetter) Type() reflect.Type { return s.typ }

func (s methodSetter) Set(target, value reflect.Value) error {
	v := unwrap(target)

	var recv reflect.Value
	switch {
	case v.Kind() == reflect.Pointer:
		if v.IsNil() {
			return fmt.Errorf("cannot call %s on nil %s", s.name, v.Type())
		}
		recv = v
	case v.CanAddr():
		recv = v.Addr()
	default:
		return fmt.Errorf("cannot call %s on unaddressable %s value", s.name, describe(target))
	}

	arg, err := coerce(value, s.typ, s.name)
	if err != nil {
		return err
	}
	recv.Method(s.index).Call([]reflect.Value{arg})
	return nil
}

// unwrap strips interface wrappers and multi-level pointers down to at
// most one pointer level.
func unwrap(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	for v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v
}

// concrete strips interfaces and all pointers, stopping at a nil
// pointer, which yields an invalid value.
func concrete(v reflect.Value) reflect.Value {
	v = unwrap(v)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// receiver produces the pointer receiver for an accessor call. An
// unaddressable value is copied first, which is safe for reads only.
func receiver(target reflect.Value) (reflect.Value, bool) {
	v := unwrap(target)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		return v, true
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if v.CanAddr() {
		return v.Addr(), true
	}

	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p, true
}

// assign stores value into dst, converting between numeric kinds. An
// invalid value zeroes the destination.
func assign(dst, value reflect.Value, name string) error {
	arg, err := coerce(value, dst.Type(), name)
	if err != nil {
		return err
	}
	dst.Set(arg)
	return nil
}

// coerce adapts value to want. Assignable values pass through, numeric
// values convert, an invalid value becomes the zero value.
func coerce(value reflect.Value, want reflect.Type, name string) (reflect.Value, error) {
	if !value.IsValid() {
		return reflect.Zero(want), nil
	}
	vt := value.Type()
	switch {
	case vt.AssignableTo(want):
		return value, nil
	case numeric(vt.Kind()) && numeric(want.Kind()):
		return value.Convert(want), nil
	default:
		return reflect.Value{}, fmt.Errorf("cannot assign %s to %s of type %s", vt, name, want)
	}
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// describe names a value's dynamic type for error messages.
func describe(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}
	return v.Type().String()
}
