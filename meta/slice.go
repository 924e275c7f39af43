package meta

import (
	"fmt"
	"reflect"

	"metanav/factory"
	"metanav/proppath"
)

// sequenceWrapper navigates slices and arrays positionally. Segments
// must carry a bare index, "[2]"; sequences have no named properties.
// It is the only wrapper that supports Add and AddAll, which require
// the wrapped slice to be reachable through a pointer so the append is
// observable.
type sequenceWrapper struct {
	obj *Object
	seq reflect.Value
}

// at parses the segment as a pure position into the live sequence.
func (w *sequenceWrapper) at(seg proppath.Segment) (int, error) {
	if seg.Name != "" || !seg.Indexed {
		return 0, fmt.Errorf("%w: %q on %s", ErrNoSuchProperty, seg.IndexedName(), w.seq.Type())
	}
	return parseIndex(seg, w.seq.Len())
}

func (w *sequenceWrapper) Get(seg proppath.Segment) (reflect.Value, error) {
	idx, err := w.at(seg)
	if err != nil {
		return reflect.Value{}, err
	}
	return w.seq.Index(idx), nil
}

func (w *sequenceWrapper) Set(seg proppath.Segment, value reflect.Value) error {
	idx, err := w.at(seg)
	if err != nil {
		return err
	}
	elem := w.seq.Index(idx)
	if !elem.CanSet() {
		return fmt.Errorf("%w: cannot set %s in a copied %s", ErrNotWritable, seg.IndexedName(), w.seq.Type())
	}
	return assignValue(elem, value)
}

func (w *sequenceWrapper) FindProperty(string, bool) (string, bool) { return "", false }

func (w *sequenceWrapper) GetterNames() []string { return nil }

func (w *sequenceWrapper) SetterNames() []string { return nil }

func (w *sequenceWrapper) GetterType(seg proppath.Segment) reflect.Type {
	if seg.HasNext() {
		if child := w.obj.metaForProperty(seg); child != Null {
			return child.wrapper.GetterType(proppath.Parse(seg.Rest()))
		}
		return staticGetterType(w.elementType(seg), proppath.Parse(seg.Rest()), w.obj.cfg)
	}
	return w.elementType(seg)
}

func (w *sequenceWrapper) SetterType(seg proppath.Segment) reflect.Type {
	if seg.HasNext() {
		if child := w.obj.metaForProperty(seg); child != Null {
			return child.wrapper.SetterType(proppath.Parse(seg.Rest()))
		}
		return staticSetterType(w.elementType(seg), proppath.Parse(seg.Rest()), w.obj.cfg)
	}
	if seg.Name != "" || !seg.Indexed {
		return nil
	}
	return w.seq.Type().Elem()
}

// elementType reports the dynamic type of a live element, falling back
// to the sequence's declared element type.
func (w *sequenceWrapper) elementType(seg proppath.Segment) reflect.Type {
	if seg.Name != "" || !seg.Indexed {
		return nil
	}
	if idx, err := w.at(seg); err == nil {
		if elem := w.seq.Index(idx); !nilish(elem) {
			return dynamicType(elem)
		}
	}
	return w.seq.Type().Elem()
}

func (w *sequenceWrapper) HasGetter(seg proppath.Segment) bool {
	idx, err := w.at(seg)
	if err != nil {
		return false
	}
	if !seg.HasNext() {
		return true
	}

	child := w.obj.metaFor(w.seq.Index(idx))
	if child == Null {
		return staticHasGetter(w.elementType(seg), proppath.Parse(seg.Rest()), w.obj.cfg)
	}
	return child.wrapper.HasGetter(proppath.Parse(seg.Rest()))
}

func (w *sequenceWrapper) HasSetter(seg proppath.Segment) bool {
	idx, err := w.at(seg)
	if err != nil {
		return false
	}
	if !seg.HasNext() {
		return true
	}

	child := w.obj.metaFor(w.seq.Index(idx))
	if child == Null {
		return staticHasSetter(w.elementType(seg), proppath.Parse(seg.Rest()), w.obj.cfg)
	}
	return child.wrapper.HasSetter(proppath.Parse(seg.Rest()))
}

func (w *sequenceWrapper) InstantiateProperty(seg proppath.Segment, f factory.Factory) (*Object, error) {
	idx, err := w.at(seg)
	if err != nil {
		return nil, err
	}

	elem := w.seq.Index(idx)
	if !nilish(elem) {
		return w.obj.metaFor(elem), nil
	}
	if !elem.CanSet() {
		return nil, fmt.Errorf("%w: cannot instantiate %s in a copied %s", ErrNotWritable, seg.IndexedName(), w.seq.Type())
	}

	t := elem.Type()
	if t.Kind() == reflect.Interface {
		t = anyType
	}
	fill, err := f.Create(t)
	if err != nil {
		return nil, fmt.Errorf("cannot instantiate %s: %w", seg.IndexedName(), err)
	}
	if err := assignValue(elem, fill); err != nil {
		return nil, err
	}
	return w.obj.metaFor(elem), nil
}

func (w *sequenceWrapper) IsCollection() bool { return true }

func (w *sequenceWrapper) Add(element any) {
	if w.seq.Kind() != reflect.Slice {
		panic(fmt.Sprintf("meta: Add on fixed-size %s", w.seq.Type()))
	}
	if !w.seq.CanSet() {
		panic(fmt.Sprintf("meta: cannot append to %s: wrap a pointer to the slice", w.seq.Type()))
	}

	coerced, err := coerceValue(reflect.ValueOf(element), w.seq.Type().Elem())
	if err != nil {
		panic(fmt.Sprintf("meta: %v", err))
	}
	w.seq.Set(reflect.Append(w.seq, coerced))
}

func (w *sequenceWrapper) AddAll(elements []any) {
	for _, e := range elements {
		w.Add(e)
	}
}
