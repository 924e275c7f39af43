package meta

import (
	"reflect"

	"metanav/proppath"
)

// Object navigates one live value by property paths. Obtain instances
// through For or Config.For; the zero Object is not usable.
type Object struct {
	value   reflect.Value
	wrapper Wrapper
	cfg     Config
}

// Null is the navigator over nothing. Reads through it are absent,
// writes fail with ErrNotWritable. All nil-valued inputs collapse to
// this one instance, so identity comparison is meaningful.
var Null = &Object{wrapper: nullWrapper{}}

// Value returns the wrapped value, nil for the Null navigator.
func (o *Object) Value() any {
	if !o.value.IsValid() {
		return nil
	}
	return o.value.Interface()
}

// Wrapper exposes the capability wrapper serving this navigator.
func (o *Object) Wrapper() Wrapper { return o.wrapper }

// GetValue reads the value at path. Anything absent along the way,
// a nil intermediate or a missing map key, reads as nil with no error.
// A property the type does not declare at all is ErrNoSuchProperty,
// and a sequence position outside the live length is
// ErrIndexOutOfRange.
func (o *Object) GetValue(path string) (any, error) {
	v, err := o.getSegment(proppath.Parse(path))
	if err != nil || !v.IsValid() || nilish(v) {
		return nil, err
	}
	return v.Interface(), nil
}

func (o *Object) getSegment(seg proppath.Segment) (reflect.Value, error) {
	if !seg.HasNext() {
		return o.wrapper.Get(seg)
	}

	head, err := o.wrapper.Get(seg)
	if err != nil {
		return reflect.Value{}, err
	}
	child := o.metaFor(head)
	if child == Null {
		return reflect.Value{}, nil
	}
	return child.getSegment(proppath.Parse(seg.Rest()))
}

// SetValue writes value at path, materializing absent intermediates
// through the object factory. Writing nil through an absent
// intermediate is a silent no-op: nothing is materialized just to hold
// a nil. Value-typed intermediates extracted by copy are written back
// to their parent after the nested write.
func (o *Object) SetValue(path string, value any) error {
	return o.setSegment(proppath.Parse(path), reflect.ValueOf(value))
}

func (o *Object) setSegment(seg proppath.Segment, value reflect.Value) error {
	if !seg.HasNext() {
		return o.wrapper.Set(seg, value)
	}

	child, writeback, err := o.childFor(seg, value)
	if err != nil || child == nil {
		return err
	}
	if err := child.setSegment(proppath.Parse(seg.Rest()), value); err != nil {
		return err
	}
	if writeback {
		return o.wrapper.Set(seg, child.value)
	}
	return nil
}

// childFor obtains the navigator for the segment's head during a write,
// instantiating it when absent. A nil child with a nil error is the
// silent no-op case. writeback reports that the child does not alias
// the parent's slot and must be stored back after mutation.
func (o *Object) childFor(seg proppath.Segment, incoming reflect.Value) (*Object, bool, error) {
	head, err := o.wrapper.Get(seg)
	if err != nil {
		return nil, false, err
	}

	if nilish(head) {
		if !incoming.IsValid() {
			return nil, false, nil
		}
		child, err := o.wrapper.InstantiateProperty(seg, o.cfg.Factory)
		if err != nil {
			return nil, false, err
		}
		head = child.value
		if !copied(head) {
			return child, false, nil
		}
	}

	if copied(head) {
		cv := unwrapInterface(head)
		tmp := reflect.New(cv.Type()).Elem()
		tmp.Set(cv)
		return o.metaFor(tmp), true, nil
	}
	return o.metaFor(head), false, nil
}

// copied reports a value extracted by copy: a struct or array that is
// not a slot of its parent, so mutating it would not reach the parent.
func copied(v reflect.Value) bool {
	v = unwrapInterface(v)
	k := v.Kind()
	return (k == reflect.Struct || k == reflect.Array) && !v.CanAddr()
}

// metaFor wraps a child value with this navigator's configuration.
func (o *Object) metaFor(v reflect.Value) *Object {
	return o.cfg.forValue(v)
}

// metaForProperty wraps the live value at the segment's head, Null when
// it is absent or unreadable.
func (o *Object) metaForProperty(seg proppath.Segment) *Object {
	v, err := o.wrapper.Get(seg)
	if err != nil || !v.IsValid() {
		return Null
	}
	return o.metaFor(v)
}

// HasGetter reports whether path is readable, consulting declared types
// when intermediate values are absent.
func (o *Object) HasGetter(path string) bool {
	return o.wrapper.HasGetter(proppath.Parse(path))
}

// HasSetter reports whether path is writable.
func (o *Object) HasSetter(path string) bool {
	return o.wrapper.HasSetter(proppath.Parse(path))
}

// GetterType reports the type a read of path would produce.
func (o *Object) GetterType(path string) (reflect.Type, bool) {
	t := o.wrapper.GetterType(proppath.Parse(path))
	return t, t != nil
}

// SetterType reports the type a write to path expects.
func (o *Object) SetterType(path string) (reflect.Type, bool) {
	t := o.wrapper.SetterType(proppath.Parse(path))
	return t, t != nil
}

// GetterNames lists the readable property names of the wrapped value.
func (o *Object) GetterNames() []string { return o.wrapper.GetterNames() }

// SetterNames lists the writable property names of the wrapped value.
func (o *Object) SetterNames() []string { return o.wrapper.SetterNames() }

// FindProperty maps a loosely spelled path to its canonical dotted
// form.
func (o *Object) FindProperty(path string, caseInsensitive bool) (string, bool) {
	return o.wrapper.FindProperty(path, caseInsensitive)
}

// IsCollection reports whether the wrapped value is a sequence.
func (o *Object) IsCollection() bool { return o.wrapper.IsCollection() }

// Add appends one element to a wrapped sequence. Panics on anything
// else.
func (o *Object) Add(element any) { o.wrapper.Add(element) }

// AddAll appends elements to a wrapped sequence. Panics on anything
// else.
func (o *Object) AddAll(elements []any) { o.wrapper.AddAll(elements) }
