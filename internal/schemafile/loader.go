package schemafile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"metanav/internal/common"
	"metanav/internal/diagnostic"
	"metanav/typeexpr"
)

// Set is a linked group of class descriptors, in declaration order.
type Set struct {
	Classes []*typeexpr.Class

	byID map[typeexpr.TypeID]*typeexpr.Class
}

// NewSet wraps already built descriptors, keeping the first on
// duplicate IDs. It serves sources other than schema files, such as
// extracted package graphs.
func NewSet(classes ...*typeexpr.Class) *Set {
	set := &Set{byID: make(map[typeexpr.TypeID]*typeexpr.Class, len(classes))}
	for _, cls := range classes {
		if _, ok := set.byID[cls.ID]; ok {
			continue
		}
		set.byID[cls.ID] = cls
		set.Classes = append(set.Classes, cls)
	}
	return set
}

// LoadFile reads and parses a YAML schema file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}
	return f, nil
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}
	applyDefaults(&f)
	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

// Load reads, parses, and links a schema file in one step.
func Load(path string) (*Set, diagnostic.Diagnostics, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, err
	}
	set, diags := Link(f)
	return set, diags, nil
}

// pending pairs a created class with the declaration it came from, so
// the second pass never re-links a declaration dropped by the first.
type pending struct {
	cls  *typeexpr.Class
	decl ClassDecl
}

// Link builds class descriptors from parsed declarations. A first pass
// creates every class with its type parameters, a second pass resolves
// bounds, edges, and member types, so declarations may reference each
// other in any order. Structural problems become diagnostics rather
// than failures; the returned set holds whatever linked cleanly.
func Link(f *File) (*Set, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	set := &Set{byID: make(map[typeexpr.TypeID]*typeexpr.Class, len(f.Classes))}
	if common.IsEmpty(f.Classes) {
		diags.AddWarning("empty-schema", "schema declares no classes", "", "")
		return set, diags
	}

	var todo []pending
	for _, decl := range f.Classes {
		if decl.Name == "" {
			diags.AddError("missing-name", "class declaration has no name", "", "")
			continue
		}

		id := splitName(decl.Name)
		if _, dup := set.byID[id]; dup {
			diags.AddError("duplicate-class",
				fmt.Sprintf("class %s declared more than once", id), id.String(), "")
			continue
		}

		cls := typeexpr.NewClass(id.PkgPath, id.Name)
		declared := make(map[string]bool, len(decl.Params))
		for _, p := range decl.Params {
			if p.Name == "" {
				diags.AddError("missing-name", "type parameter has no name", id.String(), "")
				continue
			}
			if declared[p.Name] {
				diags.AddError("duplicate-param",
					fmt.Sprintf("type parameter %s declared more than once", p.Name), id.String(), "")
				continue
			}
			declared[p.Name] = true
			cls.Params = append(cls.Params, typeexpr.NewVariable(p.Name))
		}

		set.byID[id] = cls
		set.Classes = append(set.Classes, cls)
		todo = append(todo, pending{cls: cls, decl: decl})
	}

	for _, p := range todo {
		linkClass(set, p.cls, p.decl, &diags)
	}
	for _, p := range todo {
		warnShadowedMembers(p.cls, &diags)
	}

	return set, diags
}

// linkClass resolves the bounds, edges, and members of one class
// against the full set.
func linkClass(set *Set, cls *typeexpr.Class, decl ClassDecl, diags *diagnostic.Diagnostics) {
	name := cls.ID.String()

	sc := scope{set: set, params: make(map[string]*typeexpr.Variable, len(cls.Params))}
	for _, v := range cls.Params {
		sc.params[v.Name] = v
	}

	for _, p := range decl.Params {
		if p.Bound == "" {
			continue
		}
		v, ok := sc.params[p.Name]
		if !ok {
			continue
		}
		bound, err := sc.parseRef(p.Bound)
		if err != nil {
			addRefError(diags, err, name, "")
			continue
		}
		v.Bounds = append(v.Bounds, bound)
	}

	if decl.Extends != "" {
		edge, err := sc.parseRef(decl.Extends)
		switch {
		case err != nil:
			addRefError(diags, err, name, "")
		case !isClassEdge(edge):
			diags.AddError("bad-edge",
				fmt.Sprintf("extends must reference a class, got %s", edge), name, "")
		default:
			cls.Super = edge
		}
	}

	for _, ref := range decl.Implements {
		edge, err := sc.parseRef(ref)
		switch {
		case err != nil:
			addRefError(diags, err, name, "")
		case !isClassEdge(edge):
			diags.AddError("bad-edge",
				fmt.Sprintf("implements must reference a class, got %s", edge), name, "")
		default:
			cls.Ifaces = append(cls.Ifaces, edge)
		}
	}

	declared := make(map[string]bool, len(decl.Members))
	for _, m := range decl.Members {
		switch {
		case m.Name == "":
			diags.AddError("missing-name", "member declaration has no name", name, "")
			continue
		case declared[m.Name]:
			diags.AddError("duplicate-member",
				fmt.Sprintf("member %s declared more than once", m.Name), name, m.Name)
			continue
		case m.Type == "":
			diags.AddError("missing-type",
				fmt.Sprintf("member %s has no type", m.Name), name, m.Name)
			continue
		}
		declared[m.Name] = true

		mt, err := sc.parseRef(m.Type)
		if err != nil {
			addRefError(diags, err, name, m.Name)
			continue
		}
		cls.Members = append(cls.Members, typeexpr.Member{Name: m.Name, Type: mt})
	}
}

// warnShadowedMembers flags members that hide an inherited declaration
// of the same name. Runs after every class is linked so super chains
// are complete.
func warnShadowedMembers(cls *typeexpr.Class, diags *diagnostic.Diagnostics) {
	sup := typeexpr.ClassOf(cls.Super)
	if sup == nil {
		return
	}
	for _, m := range cls.Members {
		if _, declaring, ok := sup.Member(m.Name); ok {
			diags.AddWarning("shadowed-member",
				fmt.Sprintf("member %s hides the declaration in %s", m.Name, declaring.ID),
				cls.ID.String(), m.Name)
		}
	}
}

// isClassEdge reports whether a parsed reference can serve as a
// supertype or superinterface edge.
func isClassEdge(t typeexpr.Type) bool {
	switch e := t.(type) {
	case *typeexpr.Class:
		return true
	case *typeexpr.Parameterized:
		return e.Raw != typeexpr.Dict && e.Raw != typeexpr.Ptr
	default:
		return false
	}
}

// addRefError records a reference failure, carrying suggestions along
// for unknown names.
func addRefError(diags *diagnostic.Diagnostics, err error, class, member string) {
	var unknown *unknownTypeError
	if errors.As(err, &unknown) {
		diags.Errors = append(diags.Errors, diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticError,
			Code:        "unknown-type",
			Message:     err.Error(),
			Class:       class,
			Member:      member,
			Suggestions: unknown.Suggestions,
		})
		return
	}
	diags.AddError("bad-typeref", err.Error(), class, member)
}

// splitName splits an optionally package-qualified class name at its
// last dot.
func splitName(name string) typeexpr.TypeID {
	if i := strings.LastIndex(name, "."); i > 0 && i < len(name)-1 {
		return typeexpr.TypeID{PkgPath: name[:i], Name: name[i+1:]}
	}
	return typeexpr.TypeID{Name: name}
}

// Resolve finds a declared class by name: a bare name scans in
// declaration order, a qualified name tries an exact match and then a
// package-suffix match ("catalog.Pair" against "example.com/catalog").
func (s *Set) Resolve(name string) *typeexpr.Class {
	if s == nil || name == "" {
		return nil
	}

	if !strings.Contains(name, ".") {
		for _, cls := range s.Classes {
			if cls.ID.Name == name {
				return cls
			}
		}
		return nil
	}

	id := splitName(name)
	if cls, ok := s.byID[id]; ok {
		return cls
	}

	for _, cls := range s.Classes {
		if cls.ID.Name != id.Name {
			continue
		}
		if cls.ID.PkgPath == id.PkgPath || strings.HasSuffix(cls.ID.PkgPath, "/"+id.PkgPath) {
			return cls
		}
	}

	return nil
}

// TypeRef parses a type reference against the set's declarations, for
// contexts given outside any schema file, such as on a command line.
func (s *Set) TypeRef(ref string) (typeexpr.Type, error) {
	return scope{set: s}.parseRef(ref)
}
