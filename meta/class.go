package meta

import (
	"reflect"

	"metanav/factory"
	"metanav/internal/ident"
	"metanav/proppath"
	"metanav/typeexpr"
)

// Class navigates a type descriptor the way Object navigates a live
// value: the same introspection surface, no values involved. Member
// types are resolved against the navigated instantiation context, so a
// generic member reports the concrete type its context pins down.
type Class struct {
	raw *typeexpr.Class
	src typeexpr.Type
}

// ClassOf builds the navigator for a class or parameterized descriptor.
// Anything else is a programmer error.
func ClassOf(src typeexpr.Type) *Class {
	raw := typeexpr.ClassOf(src)
	if raw == nil {
		panic("meta: class navigation needs a class or parameterized type")
	}
	return &Class{raw: raw, src: src}
}

// HasGetter reports whether path names declared members all the way
// down.
func (c *Class) HasGetter(path string) bool {
	_, ok := c.resolvePath(proppath.Parse(path))
	return ok
}

// HasSetter mirrors HasGetter: descriptor members are symmetric.
func (c *Class) HasSetter(path string) bool { return c.HasGetter(path) }

// GetterType resolves the type a read of path would produce, each step
// resolved against the context accumulated so far. An indexed step
// reports the element type of the member's resolved sequence or map
// expression.
func (c *Class) GetterType(path string) (typeexpr.Type, bool) {
	return c.resolvePath(proppath.Parse(path))
}

// SetterType mirrors GetterType.
func (c *Class) SetterType(path string) (typeexpr.Type, bool) {
	return c.resolvePath(proppath.Parse(path))
}

func (c *Class) resolvePath(seg proppath.Segment) (typeexpr.Type, bool) {
	mt, ok := c.member(seg)
	if !ok {
		return nil, false
	}
	if !seg.HasNext() {
		return mt, true
	}

	child, ok := childClass(mt)
	if !ok {
		return nil, false
	}
	return child.resolvePath(seg.Next())
}

// childClass continues a drill into a member expression: directly for a
// class or parameterized expression, through the registry binding when
// the expression reduces to a runtime type with a known descriptor.
func childClass(mt typeexpr.Type) (*Class, bool) {
	if next := typeexpr.ClassOf(mt); next != nil {
		return &Class{raw: next, src: mt}, true
	}

	gt, ok := typeexpr.GoTypeOf(mt)
	if !ok {
		return nil, false
	}
	ctx, ok := typeexpr.ContextOf(gt)
	if !ok {
		return nil, false
	}
	next := typeexpr.ClassOf(ctx)
	if next == nil {
		return nil, false
	}
	return &Class{raw: next, src: ctx}, true
}

// member resolves one segment: the declared member type against this
// context, reduced to the element type when the segment is indexed.
func (c *Class) member(seg proppath.Segment) (typeexpr.Type, bool) {
	mt, ok := typeexpr.ResolveMember(c.raw, seg.Name, c.src)
	if !ok {
		return nil, false
	}
	if seg.Indexed {
		return elemExpr(mt)
	}
	return mt, true
}

// GetterNames lists the declared member names, supertype members
// included.
func (c *Class) GetterNames() []string { return c.raw.MemberNames() }

// SetterNames mirrors GetterNames.
func (c *Class) SetterNames() []string { return c.raw.MemberNames() }

// FindProperty maps a loosely spelled path to the canonical dotted
// member names, dropping index syntax. caseInsensitive ignores case,
// underscores, and dashes per step.
func (c *Class) FindProperty(path string, caseInsensitive bool) (string, bool) {
	seg := proppath.Parse(path)

	canonical, ok := c.findMember(seg.Name, caseInsensitive)
	if !ok {
		return "", false
	}
	if !seg.HasNext() {
		return canonical, true
	}

	head := proppath.Segment{Name: canonical, Index: seg.Index, Indexed: seg.Indexed}
	mt, ok := c.member(head)
	if !ok {
		return "", false
	}
	child, ok := childClass(mt)
	if !ok {
		return "", false
	}
	rest, ok := child.FindProperty(seg.Rest(), caseInsensitive)
	if !ok {
		return "", false
	}
	return canonical + "." + rest, true
}

func (c *Class) findMember(name string, caseInsensitive bool) (string, bool) {
	if _, _, ok := c.raw.Member(name); ok {
		return name, true
	}
	if !caseInsensitive {
		return "", false
	}

	want := ident.Normalize(name)
	for _, candidate := range c.raw.MemberNames() {
		if ident.Normalize(candidate) == want {
			return candidate, true
		}
	}
	return "", false
}

// CanInstantiate reports whether the described type is bound to a Go
// type the default factory can create.
func (c *Class) CanInstantiate() bool {
	return c.raw.GoType != nil && factory.Default.CanCreate(c.raw.GoType)
}

// elemExpr reduces a sequence or map expression to its element
// expression.
func elemExpr(t typeexpr.Type) (typeexpr.Type, bool) {
	switch e := t.(type) {
	case *typeexpr.Array:
		return e.Elem, true

	case *typeexpr.Parameterized:
		if e.Raw == typeexpr.Dict && len(e.Args) == 2 {
			return e.Args[1], true
		}
		return nil, false

	case typeexpr.Concrete:
		switch e.GoType.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return typeexpr.OfType(e.GoType.Elem()), true
		}
		return nil, false

	default:
		if t == typeexpr.Any {
			return typeexpr.Any, true
		}
		return nil, false
	}
}
