// Package reflector builds and caches per-type property metadata for
// struct-backed values: which properties can be read or written, through
// which field or accessor method, and under which canonical name.
//
// A property is an exported field (including fields promoted from
// embedded structs) or a GetX/IsX/SetX accessor method pair. Accessor
// methods win when both declare the same property. Lookup is by exact
// canonical name or, via [Reflector.FindProperty], by normalized name so
// that "order_id" and "orderid" reach OrderID.
package reflector

import (
	"reflect"
	"sort"
	"strings"

	"metanav/internal/ident"
)

// Reflector holds the property surface of one struct type. Instances are
// immutable after construction and safe for concurrent use.
type Reflector struct {
	typ reflect.Type

	getters map[string]Getter
	setters map[string]Setter
	folded  map[string]string // ident.Normalize(name) -> canonical name

	getterNames []string
	setterNames []string
}

// New inspects t and builds its Reflector. Pointer types are unwrapped
// first; non-struct types yield an empty property surface.
func New(t reflect.Type) *Reflector {
	if t == nil {
		panic("reflector: nil type")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r := &Reflector{
		typ:     t,
		getters: map[string]Getter{},
		setters: map[string]Setter{},
		folded:  map[string]string{},
	}
	r.addFields()
	r.addMethods()
	r.index()
	return r
}

// Type reports the inspected type, pointers already unwrapped.
func (r *Reflector) Type() reflect.Type { return r.typ }

// CanInstantiate reports whether the zero value of the type is a usable
// starting point for property writes.
func (r *Reflector) CanInstantiate() bool {
	switch r.typ.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Interface:
		return true
	default:
		return r.typ.Kind() != reflect.Invalid && r.typ.Kind() != reflect.Chan && r.typ.Kind() != reflect.Func
	}
}

// Getter returns the read accessor for the named property.
func (r *Reflector) Getter(name string) (Getter, bool) {
	g, ok := r.getters[name]
	return g, ok
}

// Setter returns the write accessor for the named property.
func (r *Reflector) Setter(name string) (Setter, bool) {
	s, ok := r.setters[name]
	return s, ok
}

// HasGetter reports whether the named property can be read.
func (r *Reflector) HasGetter(name string) bool {
	_, ok := r.getters[name]
	return ok
}

// HasSetter reports whether the named property can be written.
func (r *Reflector) HasSetter(name string) bool {
	_, ok := r.setters[name]
	return ok
}

// GetterType reports the result type of the named property's read
// accessor.
func (r *Reflector) GetterType(name string) (reflect.Type, bool) {
	g, ok := r.getters[name]
	if !ok {
		return nil, false
	}
	return g.Type(), true
}

// SetterType reports the value type accepted by the named property's
// write accessor.
func (r *Reflector) SetterType(name string) (reflect.Type, bool) {
	s, ok := r.setters[name]
	if !ok {
		return nil, false
	}
	return s.Type(), true
}

// GetterNames lists readable property names in sorted order.
func (r *Reflector) GetterNames() []string { return r.getterNames }

// SetterNames lists writable property names in sorted order.
func (r *Reflector) SetterNames() []string { return r.setterNames }

// FindProperty maps a loosely spelled name to its canonical property
// name. Exact matches win, then a normalized comparison that ignores
// case, underscores, and dashes.
func (r *Reflector) FindProperty(name string) (string, bool) {
	if _, ok := r.getters[name]; ok {
		return name, true
	}
	if _, ok := r.setters[name]; ok {
		return name, true
	}
	canonical, ok := r.folded[ident.Normalize(name)]
	return canonical, ok
}

// addFields registers every visible exported field, promoted ones
// included, as a readable and writable property.
func (r *Reflector) addFields() {
	if r.typ.Kind() != reflect.Struct {
		return
	}
	for _, f := range reflect.VisibleFields(r.typ) {
		if f.PkgPath != "" {
			continue
		}
		acc := fieldAccessor{name: f.Name, index: f.Index, typ: f.Type}
		r.getters[f.Name] = acc
		r.setters[f.Name] = acc
	}
}

// addMethods registers GetX, IsX, and SetX accessor methods declared on
// the type or its pointer. Method accessors replace field accessors of
// the same property name.
func (r *Reflector) addMethods() {
	pt := reflect.PointerTo(r.typ)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		mt := m.Func.Type()

		switch {
		case strings.HasPrefix(m.Name, "Get") && isPropertySuffix(m.Name[3:]):
			if mt.NumIn() == 1 && mt.NumOut() == 1 {
				r.getters[m.Name[3:]] = methodGetter{name: m.Name, index: m.Index, typ: mt.Out(0)}
			}
		case strings.HasPrefix(m.Name, "Is") && isPropertySuffix(m.Name[2:]):
			if mt.NumIn() == 1 && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Bool {
				r.getters[m.Name[2:]] = methodGetter{name: m.Name, index: m.Index, typ: mt.Out(0)}
			}
		case strings.HasPrefix(m.Name, "Set") && isPropertySuffix(m.Name[3:]):
			if mt.NumIn() == 2 && mt.NumOut() == 0 {
				r.setters[m.Name[3:]] = methodSetter{name: m.Name, index: m.Index, typ: mt.In(1)}
			}
		}
	}
}

// index builds the sorted name lists and the normalized lookup table.
// When two canonical names normalize identically the first in sorted
// order wins.
func (r *Reflector) index() {
	for name := range r.getters {
		r.getterNames = append(r.getterNames, name)
	}
	sort.Strings(r.getterNames)

	for name := range r.setters {
		r.setterNames = append(r.setterNames, name)
	}
	sort.Strings(r.setterNames)

	for _, name := range r.getterNames {
		key := ident.Normalize(name)
		if _, taken := r.folded[key]; !taken {
			r.folded[key] = name
		}
	}
	for _, name := range r.setterNames {
		key := ident.Normalize(name)
		if _, taken := r.folded[key]; !taken {
			r.folded[key] = name
		}
	}
}

// isPropertySuffix reports whether s names an exported-style property:
// non-empty and starting with an upper-case letter.
func isPropertySuffix(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
