package typeexpr

import (
	"fmt"
	"reflect"
)

// maxDepth bounds hierarchy traversal. Descriptor graphs are finite and
// acyclic by construction, so the bound only matters for pathological
// hand-built hierarchies.
const maxDepth = 64

// Resolve computes the type of declared as seen through the instantiation
// context src. declaring is the class whose declaration introduced the
// expression; it differs from src's class for inherited members.
//
// Resolution never fails on resolvable shapes: a type variable that cannot
// be pinned down degrades silently to its first declared bound, or to Any.
// Resolve panics only when a variable must be resolved and src is neither
// a class, a parameterized type, nor a Concrete with a registry binding.
func Resolve(declared Type, src Type, declaring *Class) Type {
	return resolveType(declared, src, declaring, maxDepth)
}

// ResolveMember looks up the named member of cls, discovering its
// declaring class, and resolves its declared type against src. The second
// result is false when no such member exists.
func ResolveMember(cls *Class, member string, src Type) (Type, bool) {
	m, declaring, ok := cls.Member(member)
	if !ok {
		return nil, false
	}

	return Resolve(m.Type, src, declaring), true
}

func resolveType(declared Type, src Type, declaring *Class, depth int) Type {
	switch t := declared.(type) {
	case *Variable:
		return resolveVariable(t, src, declaring, depth)
	case *Parameterized:
		return resolveParameterized(t, src, declaring, depth)
	case *Array:
		return resolveArray(t, src, declaring, depth)
	case *Wildcard:
		return resolveWildcard(t, src, declaring, depth)
	default:
		// Concrete types, classes and Any resolve to themselves.
		return declared
	}
}

// resolveVariable walks src's supertype edges looking for the edge that
// pins v down. The context is validated lazily, here, so that resolving a
// ground expression never inspects src at all.
func resolveVariable(v *Variable, src Type, declaring *Class, depth int) Type {
	if depth <= 0 {
		return Any
	}

	src = normalizeContext(src)

	srcClass := rawClass(src)
	if srcClass == nil {
		panic(fmt.Sprintf("typeexpr: instantiation context must be a class or parameterized type, got %s", describeContext(src)))
	}

	if sameClass(srcClass, declaring) {
		// The variable is declared right here; nothing narrows it.
		return v.FirstBound()
	}

	if srcClass.Super != nil {
		if result := scanSuperEdge(v, src, srcClass, declaring, srcClass.Super, depth); result != nil {
			return result
		}
	}

	// Interface edges are searched in declaration order and the first
	// match wins, even when a sibling edge re-parameterizes the same
	// variable differently.
	for _, iface := range srcClass.Ifaces {
		if result := scanSuperEdge(v, src, srcClass, declaring, iface, depth); result != nil {
			return result
		}
	}

	return Any
}

// scanSuperEdge inspects one supertype edge of srcClass. It returns nil
// when the edge contributes nothing, letting the caller move on.
func scanSuperEdge(v *Variable, src Type, srcClass, declaring *Class, edge Type, depth int) Type {
	switch parent := edge.(type) {
	case *Parameterized:
		effective := parent
		if srcParam, ok := src.(*Parameterized); ok {
			effective = translateEdgeArgs(srcParam, srcClass, parent)
		}

		if sameClass(parent.Raw, declaring) {
			if slot := declaring.ParamIndex(v); slot >= 0 && slot < len(effective.Args) {
				arg := effective.Args[slot]
				if _, stillVariable := arg.(*Variable); stillVariable {
					return Any
				}

				return arg
			}
		}

		if hasAncestor(parent.Raw, declaring, depth-1) {
			return resolveVariable(v, effective, declaring, depth-1)
		}

	case *Class:
		if hasAncestor(parent, declaring, depth-1) {
			return resolveVariable(v, parent, declaring, depth-1)
		}
	}

	return nil
}

// translateEdgeArgs substitutes srcClass's own type parameters appearing
// in a supertype edge with src's actual arguments. Only top-level variable
// arguments are translated; a nested expression is handed back as-is.
func translateEdgeArgs(src *Parameterized, srcClass *Class, parent *Parameterized) *Parameterized {
	newArgs := make([]Type, len(parent.Args))
	changed := false

	for i, arg := range parent.Args {
		if argVar, ok := arg.(*Variable); ok {
			if j := srcClass.ParamIndex(argVar); j >= 0 && j < len(src.Args) {
				newArgs[i] = src.Args[j]
				changed = true

				continue
			}
		}

		newArgs[i] = arg
	}

	if !changed {
		return parent
	}

	return &Parameterized{Raw: parent.Raw, Args: newArgs}
}

func resolveParameterized(p *Parameterized, src Type, declaring *Class, depth int) Type {
	args := make([]Type, len(p.Args))
	for i, arg := range p.Args {
		args[i] = resolveType(arg, src, declaring, depth)
	}

	return &Parameterized{Raw: p.Raw, Args: args}
}

func resolveWildcard(w *Wildcard, src Type, declaring *Class, depth int) Type {
	return &Wildcard{
		Lower: resolveBoundList(w.Lower, src, declaring, depth),
		Upper: resolveBoundList(w.Upper, src, declaring, depth),
	}
}

func resolveBoundList(bounds []Type, src Type, declaring *Class, depth int) []Type {
	if len(bounds) == 0 {
		return nil
	}

	out := make([]Type, len(bounds))
	for i, b := range bounds {
		out[i] = resolveType(b, src, declaring, depth)
	}

	return out
}

// resolveArray resolves the element and collapses to the Concrete slice
// type when the element lands on a runtime-representable ground type.
func resolveArray(a *Array, src Type, declaring *Class, depth int) Type {
	elem := resolveType(a.Elem, src, declaring, depth)

	switch e := elem.(type) {
	case Concrete:
		if e.GoType != nil {
			return Concrete{GoType: reflect.SliceOf(e.GoType)}
		}

	case *Class:
		if e.GoType != nil {
			return Concrete{GoType: reflect.SliceOf(e.GoType)}
		}
	}

	return &Array{Elem: elem}
}

// normalizeContext maps a Concrete context to its registered descriptor
// binding and rejects structurally impossible contexts.
func normalizeContext(src Type) Type {
	switch s := src.(type) {
	case *Class, *Parameterized:
		return src

	case Concrete:
		if ctx, ok := ContextOf(s.GoType); ok {
			return ctx
		}
	}

	panic(fmt.Sprintf("typeexpr: instantiation context must be a class or parameterized type, got %s", describeContext(src)))
}

func describeContext(src Type) string {
	if src == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%s (%s)", src, src.Kind())
}
