package meta

import (
	"fmt"
	"reflect"

	"metanav/factory"
	"metanav/internal/ident"
	"metanav/proppath"
	"metanav/reflector"
)

// suggestionDistance bounds how far a did-you-mean hint may sit from
// the name that missed.
const suggestionDistance = 2

// beanWrapper navigates struct-backed values through the reflector's
// property surface. Indexed segments read the named property first and
// index into its result.
type beanWrapper struct {
	obj   *Object
	value reflect.Value
	refl  *reflector.Reflector
}

func newBeanWrapper(o *Object, v reflect.Value) *beanWrapper {
	return &beanWrapper{obj: o, value: v, refl: o.cfg.Reflectors.For(v.Type())}
}

func (b *beanWrapper) Get(seg proppath.Segment) (reflect.Value, error) {
	if !seg.Indexed {
		return b.getProperty(seg.Name)
	}

	container, err := b.container(seg)
	if err != nil || !container.IsValid() {
		return reflect.Value{}, err
	}
	return indexInto(container, seg)
}

func (b *beanWrapper) Set(seg proppath.Segment, value reflect.Value) error {
	if !seg.Indexed {
		return b.setProperty(seg.Name, value)
	}

	container, err := b.container(seg)
	if err != nil {
		return err
	}
	if nilish(container) {
		return fmt.Errorf("cannot set %s: %q holds nothing", seg.IndexedName(), seg.Name)
	}
	return b.setIndex(seg, container, value)
}

// container resolves the value an indexed segment indexes into: the
// wrapped value itself for an empty name, the named property otherwise.
func (b *beanWrapper) container(seg proppath.Segment) (reflect.Value, error) {
	if seg.Name == "" {
		return b.value, nil
	}
	return b.getProperty(seg.Name)
}

func (b *beanWrapper) getProperty(name string) (reflect.Value, error) {
	g, ok := b.refl.Getter(name)
	if !ok {
		return reflect.Value{}, b.unknownProperty(name, b.refl.GetterNames())
	}
	return g.Get(b.value)
}

func (b *beanWrapper) setProperty(name string, value reflect.Value) error {
	s, ok := b.refl.Setter(name)
	if !ok {
		return b.unknownProperty(name, b.refl.SetterNames())
	}
	if !writable(b.value) {
		return fmt.Errorf("%w: cannot set %q on a %s value that is not addressable",
			ErrNotWritable, name, b.refl.Type())
	}
	return s.Set(b.value, value)
}

func (b *beanWrapper) setIndex(seg proppath.Segment, container, value reflect.Value) error {
	c := concrete(container)
	switch c.Kind() {
	case reflect.Slice:
		idx, err := parseIndex(seg, c.Len())
		if err != nil {
			return err
		}
		return assignValue(c.Index(idx), value)

	case reflect.Array:
		idx, err := parseIndex(seg, c.Len())
		if err != nil {
			return err
		}
		if c.CanAddr() {
			return assignValue(c.Index(idx), value)
		}
		// An array extracted by copy: mutate the copy and store it
		// back through the property.
		tmp := reflect.New(c.Type()).Elem()
		tmp.Set(c)
		if err := assignValue(tmp.Index(idx), value); err != nil {
			return err
		}
		return b.setProperty(seg.Name, tmp)

	case reflect.Map:
		key, ok := mapKey(c.Type().Key(), seg.Index)
		if !ok {
			return fmt.Errorf("cannot use %q as a %s key", seg.Index, c.Type())
		}
		coerced, err := coerceValue(value, c.Type().Elem())
		if err != nil {
			return fmt.Errorf("cannot set %s: %w", seg.IndexedName(), err)
		}
		c.SetMapIndex(key, coerced)
		return nil

	default:
		return fmt.Errorf("cannot index into %s with %s", describeValue(container), seg.IndexedName())
	}
}

func (b *beanWrapper) FindProperty(name string, caseInsensitive bool) (string, bool) {
	return staticFindProperty(b.refl.Type(), name, caseInsensitive, b.obj.cfg)
}

func (b *beanWrapper) GetterNames() []string { return b.refl.GetterNames() }

func (b *beanWrapper) SetterNames() []string { return b.refl.SetterNames() }

func (b *beanWrapper) GetterType(seg proppath.Segment) reflect.Type {
	if seg.HasNext() {
		if child := b.obj.metaForProperty(seg); child != Null {
			return child.wrapper.GetterType(proppath.Parse(seg.Rest()))
		}
		return staticGetterType(b.localType(seg, false), proppath.Parse(seg.Rest()), b.obj.cfg)
	}
	return b.localType(seg, false)
}

func (b *beanWrapper) SetterType(seg proppath.Segment) reflect.Type {
	if seg.HasNext() {
		if child := b.obj.metaForProperty(seg); child != Null {
			return child.wrapper.SetterType(proppath.Parse(seg.Rest()))
		}
		return staticSetterType(b.localType(seg, false), proppath.Parse(seg.Rest()), b.obj.cfg)
	}
	return b.localType(seg, true)
}

// localType resolves the declared type at the segment's head: the
// member's declared type, refined through a bound descriptor when one
// exists, then reduced to the element type for an indexed segment.
func (b *beanWrapper) localType(seg proppath.Segment, setter bool) reflect.Type {
	var mt reflect.Type
	if seg.Name == "" {
		mt = b.refl.Type()
	} else {
		mt = refinedMemberType(b.refl.Type(), seg.Name, b.obj.cfg, setter)
	}
	if seg.Indexed {
		return elemType(indirectType(mt))
	}
	return mt
}

func (b *beanWrapper) HasGetter(seg proppath.Segment) bool {
	if !seg.HasNext() {
		if seg.Name == "" {
			return false
		}
		return b.refl.HasGetter(seg.Name)
	}

	if seg.Name != "" && !b.refl.HasGetter(seg.Name) {
		return false
	}
	if child := b.obj.metaForProperty(seg); child != Null {
		return child.wrapper.HasGetter(proppath.Parse(seg.Rest()))
	}
	return staticHasGetter(b.localType(seg, false), proppath.Parse(seg.Rest()), b.obj.cfg)
}

func (b *beanWrapper) HasSetter(seg proppath.Segment) bool {
	if !seg.HasNext() {
		if seg.Name == "" {
			return false
		}
		return b.refl.HasSetter(seg.Name)
	}

	if seg.Name != "" && !b.refl.HasSetter(seg.Name) {
		return false
	}
	if child := b.obj.metaForProperty(seg); child != Null {
		return child.wrapper.HasSetter(proppath.Parse(seg.Rest()))
	}
	return staticHasSetter(b.localType(seg, false), proppath.Parse(seg.Rest()), b.obj.cfg)
}

func (b *beanWrapper) InstantiateProperty(seg proppath.Segment, f factory.Factory) (*Object, error) {
	if seg.Indexed {
		return b.instantiateElement(seg, f)
	}

	t, ok := b.refl.SetterType(seg.Name)
	if !ok {
		return nil, b.unknownProperty(seg.Name, b.refl.SetterNames())
	}
	created, err := f.Create(t)
	if err != nil {
		return nil, fmt.Errorf("cannot instantiate %q on %s: %w", seg.Name, b.refl.Type(), err)
	}
	if err := b.setProperty(seg.Name, created); err != nil {
		return nil, err
	}

	// Navigate the stored value, not the temporary: a readable slot is
	// addressable whenever the bean is, which keeps nested writes in
	// place.
	stored, err := b.getProperty(seg.Name)
	if err != nil || !stored.IsValid() {
		return b.obj.metaFor(created), nil
	}
	return b.obj.metaFor(stored), nil
}

// instantiateElement materializes the container named by an indexed
// segment, grows a short slice to cover the position, and allocates the
// element when its kind needs allocation.
func (b *beanWrapper) instantiateElement(seg proppath.Segment, f factory.Factory) (*Object, error) {
	container, err := b.container(seg)
	if err != nil {
		return nil, err
	}

	if nilish(container) {
		if seg.Name == "" {
			return nil, fmt.Errorf("cannot instantiate %s: no value to index into", seg.IndexedName())
		}
		t, ok := b.refl.SetterType(seg.Name)
		if !ok {
			return nil, b.unknownProperty(seg.Name, b.refl.SetterNames())
		}
		created, err := f.Create(t)
		if err != nil {
			return nil, fmt.Errorf("cannot instantiate %q on %s: %w", seg.Name, b.refl.Type(), err)
		}
		if err := b.setProperty(seg.Name, created); err != nil {
			return nil, err
		}
		container, err = b.getProperty(seg.Name)
		if err != nil || !container.IsValid() {
			container = created
		}
	}

	c := concrete(container)
	switch c.Kind() {
	case reflect.Slice:
		return b.instantiateSliceElement(seg, c, f)

	case reflect.Array:
		idx, err := parseIndex(seg, c.Len())
		if err != nil {
			return nil, err
		}
		if !c.CanAddr() {
			return nil, fmt.Errorf("%w: cannot reach %s inside a copied array",
				ErrNotWritable, seg.IndexedName())
		}
		return b.elementAt(c.Index(idx), f)

	case reflect.Map:
		key, ok := mapKey(c.Type().Key(), seg.Index)
		if !ok {
			return nil, fmt.Errorf("cannot use %q as a %s key", seg.Index, c.Type())
		}
		existing := c.MapIndex(key)
		if existing.IsValid() && !nilish(existing) {
			return b.obj.metaFor(existing), nil
		}
		fill, err := f.Create(c.Type().Elem())
		if err != nil {
			return nil, fmt.Errorf("cannot instantiate %s: %w", seg.IndexedName(), err)
		}
		c.SetMapIndex(key, fill)
		return b.obj.metaFor(c.MapIndex(key)), nil

	default:
		return nil, fmt.Errorf("cannot index into %s with %s", describeValue(container), seg.IndexedName())
	}
}

func (b *beanWrapper) instantiateSliceElement(seg proppath.Segment, c reflect.Value, f factory.Factory) (*Object, error) {
	idx, err := parsePosition(seg)
	if err != nil {
		return nil, err
	}

	if idx >= c.Len() {
		grown := c
		for grown.Len() <= idx {
			grown = reflect.Append(grown, reflect.Zero(c.Type().Elem()))
		}
		switch {
		case c.CanSet():
			c.Set(grown)
		default:
			if err := b.setProperty(seg.Name, grown); err != nil {
				return nil, err
			}
			refreshed, err := b.getProperty(seg.Name)
			if err != nil || !refreshed.IsValid() {
				c = grown
			} else {
				c = concrete(refreshed)
			}
		}
	}
	return b.elementAt(c.Index(idx), f)
}

// elementAt allocates a nil pointer, map, or slice element in place and
// wraps it.
func (b *beanWrapper) elementAt(elem reflect.Value, f factory.Factory) (*Object, error) {
	if nilish(elem) {
		t := elem.Type()
		if t.Kind() == reflect.Interface {
			t = anyType
		}
		fill, err := f.Create(t)
		if err != nil {
			return nil, fmt.Errorf("cannot instantiate element of %s: %w", elem.Type(), err)
		}
		if err := assignValue(elem, fill); err != nil {
			return nil, err
		}
	}
	return b.obj.metaFor(elem), nil
}

func (b *beanWrapper) IsCollection() bool { return false }

func (b *beanWrapper) Add(any) {
	panic(fmt.Sprintf("meta: Add on non-collection %s", b.refl.Type()))
}

func (b *beanWrapper) AddAll([]any) {
	panic(fmt.Sprintf("meta: AddAll on non-collection %s", b.refl.Type()))
}

func (b *beanWrapper) unknownProperty(name string, known []string) error {
	if hint, ok := ident.Closest(name, known, suggestionDistance); ok {
		return fmt.Errorf("%w: %q on %s, did you mean %q", ErrNoSuchProperty, name, b.refl.Type(), hint)
	}
	return fmt.Errorf("%w: %q on %s", ErrNoSuchProperty, name, b.refl.Type())
}

// writable reports whether property writes can reach v: a non-nil
// pointer or an addressable value.
func writable(v reflect.Value) bool {
	if v.Kind() == reflect.Pointer {
		return !v.IsNil()
	}
	return v.CanAddr()
}

// describeValue names a value's type for error messages.
func describeValue(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}
	return dynamicType(v).String()
}

// indexInto reads the element an indexed segment addresses inside a
// container. A container holding nothing and a missing map entry are
// absent; positions outside a live sequence are ErrIndexOutOfRange.
func indexInto(container reflect.Value, seg proppath.Segment) (reflect.Value, error) {
	c := concrete(container)
	if !c.IsValid() || nilish(c) {
		return reflect.Value{}, nil
	}

	switch c.Kind() {
	case reflect.Slice, reflect.Array:
		idx, err := parseIndex(seg, c.Len())
		if err != nil {
			return reflect.Value{}, err
		}
		return c.Index(idx), nil

	case reflect.Map:
		key, ok := mapKey(c.Type().Key(), seg.Index)
		if !ok {
			return reflect.Value{}, nil
		}
		elem := c.MapIndex(key)
		if !elem.IsValid() {
			return reflect.Value{}, nil
		}
		return elem, nil

	default:
		return reflect.Value{}, fmt.Errorf("cannot index into %s with %s", describeValue(container), seg.IndexedName())
	}
}
