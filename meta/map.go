package meta

import (
	"fmt"
	"reflect"
	"sort"

	"metanav/factory"
	"metanav/proppath"
)

// mapWrapper navigates map values. The segment's full indexed form is
// the lookup key: "items[0]" reads the entry keyed "items[0]", never
// the entry "items" indexed by 0. Index text is only interpreted when
// the map's key type needs a numeric key.
type mapWrapper struct {
	obj *Object
	m   reflect.Value
}

// key renders the segment's verbatim text as a key of the map's key
// type.
func (w *mapWrapper) key(seg proppath.Segment) (reflect.Value, bool) {
	return mapKey(w.m.Type().Key(), seg.IndexedName())
}

func (w *mapWrapper) Get(seg proppath.Segment) (reflect.Value, error) {
	k, ok := w.key(seg)
	if !ok {
		return reflect.Value{}, nil
	}
	elem := w.m.MapIndex(k)
	if !elem.IsValid() {
		return reflect.Value{}, nil
	}
	return elem, nil
}

func (w *mapWrapper) Set(seg proppath.Segment, value reflect.Value) error {
	if w.m.IsNil() {
		return fmt.Errorf("%w: cannot set %q in a nil %s", ErrNotWritable, seg.IndexedName(), w.m.Type())
	}
	k, ok := w.key(seg)
	if !ok {
		return fmt.Errorf("cannot use %q as a %s key", seg.IndexedName(), w.m.Type())
	}
	coerced, err := coerceValue(value, w.m.Type().Elem())
	if err != nil {
		return fmt.Errorf("cannot set %q: %w", seg.IndexedName(), err)
	}
	w.m.SetMapIndex(k, coerced)
	return nil
}

func (w *mapWrapper) FindProperty(name string, _ bool) (string, bool) {
	// Map entries are dynamic; any name is a valid key.
	return name, true
}

func (w *mapWrapper) GetterNames() []string { return w.keyNames() }

func (w *mapWrapper) SetterNames() []string { return w.keyNames() }

func (w *mapWrapper) keyNames() []string {
	if w.m.Len() == 0 {
		return nil
	}
	names := make([]string, 0, w.m.Len())
	for _, k := range w.m.MapKeys() {
		names = append(names, fmt.Sprint(k.Interface()))
	}
	sort.Strings(names)
	return names
}

func (w *mapWrapper) GetterType(seg proppath.Segment) reflect.Type {
	if seg.HasNext() {
		if child := w.obj.metaForProperty(seg); child != Null {
			return child.wrapper.GetterType(proppath.Parse(seg.Rest()))
		}
		return staticGetterType(w.entryType(seg), proppath.Parse(seg.Rest()), w.obj.cfg)
	}
	return w.entryType(seg)
}

func (w *mapWrapper) SetterType(seg proppath.Segment) reflect.Type {
	if seg.HasNext() {
		if child := w.obj.metaForProperty(seg); child != Null {
			return child.wrapper.SetterType(proppath.Parse(seg.Rest()))
		}
		return staticSetterType(w.entryType(seg), proppath.Parse(seg.Rest()), w.obj.cfg)
	}
	return w.m.Type().Elem()
}

// entryType reports the dynamic type of a live entry, falling back to
// the map's declared element type.
func (w *mapWrapper) entryType(seg proppath.Segment) reflect.Type {
	if k, ok := w.key(seg); ok {
		if elem := w.m.MapIndex(k); elem.IsValid() && !nilish(elem) {
			return dynamicType(elem)
		}
	}
	return w.m.Type().Elem()
}

func (w *mapWrapper) HasGetter(seg proppath.Segment) bool {
	k, ok := w.key(seg)
	if !ok {
		return false
	}
	if !w.m.MapIndex(k).IsValid() {
		return false
	}
	if !seg.HasNext() {
		return true
	}

	child := w.obj.metaForProperty(seg)
	if child == Null {
		// The entry exists but holds nothing; nothing contradicts the
		// rest of the path.
		return true
	}
	return child.wrapper.HasGetter(proppath.Parse(seg.Rest()))
}

func (w *mapWrapper) HasSetter(seg proppath.Segment) bool {
	if !seg.HasNext() {
		return true
	}
	child := w.obj.metaForProperty(seg)
	if child == Null {
		return true
	}
	return child.wrapper.HasSetter(proppath.Parse(seg.Rest()))
}

func (w *mapWrapper) InstantiateProperty(seg proppath.Segment, f factory.Factory) (*Object, error) {
	if w.m.IsNil() {
		return nil, fmt.Errorf("%w: cannot instantiate %q in a nil %s", ErrNotWritable, seg.IndexedName(), w.m.Type())
	}
	k, ok := w.key(seg)
	if !ok {
		return nil, fmt.Errorf("cannot use %q as a %s key", seg.IndexedName(), w.m.Type())
	}

	existing := w.m.MapIndex(k)
	if existing.IsValid() && !nilish(existing) {
		return w.obj.metaFor(existing), nil
	}

	et := w.m.Type().Elem()
	if et.Kind() == reflect.Interface {
		et = anyType
	}
	created, err := f.Create(et)
	if err != nil {
		return nil, fmt.Errorf("cannot instantiate %q: %w", seg.IndexedName(), err)
	}
	coerced, err := coerceValue(created, w.m.Type().Elem())
	if err != nil {
		return nil, fmt.Errorf("cannot instantiate %q: %w", seg.IndexedName(), err)
	}
	w.m.SetMapIndex(k, coerced)
	return w.obj.metaFor(w.m.MapIndex(k)), nil
}

func (w *mapWrapper) IsCollection() bool { return false }

func (w *mapWrapper) Add(any) {
	panic(fmt.Sprintf("meta: Add on non-collection %s", w.m.Type()))
}

func (w *mapWrapper) AddAll([]any) {
	panic(fmt.Sprintf("meta: AddAll on non-collection %s", w.m.Type()))
}
