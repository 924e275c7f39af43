package typeexpr

import "reflect"

// TypeID uniquely identifies a class by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "metanav/catalog"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Member is a named member declaration. The declared type may mention the
// declaring class's type parameters.
type Member struct {
	Name string
	Type Type
}

// Class is a named type descriptor: the "raw type" of the expression
// algebra. A class declares type parameters, at most one supertype edge,
// any number of superinterface edges in declaration order, and members.
//
// Descriptors are canonical: build each class once and share the pointer.
// Edges must form a finite acyclic graph. GoType optionally binds the
// descriptor to a runtime type; for a generic class this only makes sense
// on a registry binding of a specific instantiation (see Bind).
type Class struct {
	ID      TypeID
	Params  []*Variable
	Super   Type // nil, *Class, or *Parameterized
	Ifaces  []Type
	Members []Member
	GoType  reflect.Type
}

// NewClass creates an empty class descriptor.
func NewClass(pkgPath, name string) *Class {
	return &Class{ID: TypeID{PkgPath: pkgPath, Name: name}}
}

// NewInstantiation builds the ground descriptor of one generic
// instantiation: an argument-free class whose supertype edge pins cls's
// parameters to args, carrying t as its runtime type. A variable only
// resolves through supertype edges, never from a context of its own
// declaring class, so a context that should pin arguments needs this
// shape rather than a bare Parameterized.
func NewInstantiation(t reflect.Type, cls *Class, args ...Type) *Class {
	edge := NewParameterized(cls, args...)

	return &Class{
		ID:     TypeID{PkgPath: cls.ID.PkgPath, Name: edge.String()},
		Super:  edge,
		GoType: t,
	}
}

func (c *Class) Kind() Kind     { return KindClass }
func (c *Class) String() string { return c.ID.Name }

// ParamIndex returns the position of v in the class's parameter list, or
// -1. Matching is by pointer.
func (c *Class) ParamIndex(v *Variable) int {
	for i, p := range c.Params {
		if p == v {
			return i
		}
	}

	return -1
}

// Member finds a member by name, walking the supertype edge and then the
// superinterface edges depth-first. It reports the class that actually
// declares the member, which may differ from c for inherited members.
func (c *Class) Member(name string) (Member, *Class, bool) {
	return c.findMember(name, maxDepth)
}

func (c *Class) findMember(name string, depth int) (Member, *Class, bool) {
	if depth <= 0 {
		return Member{}, nil, false
	}

	for _, m := range c.Members {
		if m.Name == name {
			return m, c, true
		}
	}

	if sup := rawClass(c.Super); sup != nil {
		if m, declaring, ok := sup.findMember(name, depth-1); ok {
			return m, declaring, ok
		}
	}

	for _, iface := range c.Ifaces {
		ic := rawClass(iface)
		if ic == nil {
			continue
		}

		if m, declaring, ok := ic.findMember(name, depth-1); ok {
			return m, declaring, ok
		}
	}

	return Member{}, nil, false
}

// MemberNames lists the class's member names including inherited ones,
// own members first, each name reported once.
func (c *Class) MemberNames() []string {
	var names []string

	seen := make(map[string]struct{})
	c.collectMemberNames(&names, seen, maxDepth)

	return names
}

func (c *Class) collectMemberNames(names *[]string, seen map[string]struct{}, depth int) {
	if depth <= 0 {
		return
	}

	for _, m := range c.Members {
		if _, ok := seen[m.Name]; ok {
			continue
		}

		seen[m.Name] = struct{}{}
		*names = append(*names, m.Name)
	}

	if sup := rawClass(c.Super); sup != nil {
		sup.collectMemberNames(names, seen, depth-1)
	}

	for _, iface := range c.Ifaces {
		if ic := rawClass(iface); ic != nil {
			ic.collectMemberNames(names, seen, depth-1)
		}
	}
}

// ClassOf returns the class descriptor underlying t: t itself for a
// class, the raw class for a parameterized type, nil for anything else.
func ClassOf(t Type) *Class { return rawClass(t) }

// rawClass extracts the class underlying a supertype edge.
func rawClass(t Type) *Class {
	switch e := t.(type) {
	case *Class:
		return e
	case *Parameterized:
		return e.Raw
	default:
		return nil
	}
}

// sameClass compares descriptors, tolerating distinct instances produced
// from the same declaration by different loaders.
func sameClass(a, b *Class) bool {
	if a == nil || b == nil {
		return false
	}

	if a == b {
		return true
	}

	return a.ID == b.ID && a.ID.Name != ""
}

// hasAncestor reports whether ancestor is c itself or reachable through
// c's supertype and superinterface edges.
func hasAncestor(c, ancestor *Class, depth int) bool {
	if c == nil || ancestor == nil || depth <= 0 {
		return false
	}

	if sameClass(c, ancestor) {
		return true
	}

	if sup := rawClass(c.Super); sup != nil && hasAncestor(sup, ancestor, depth-1) {
		return true
	}

	for _, iface := range c.Ifaces {
		if ic := rawClass(iface); ic != nil && hasAncestor(ic, ancestor, depth-1) {
			return true
		}
	}

	return false
}
