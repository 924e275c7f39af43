package analyze

import (
	"fmt"
	"strings"

	"metanav/typeexpr"
)

// Describe renders a class declaration in a readable block form:
//
//	class metanav/catalog.Box[T]
//	  Label string
//	  Items []T
//	  First T
//
// Edges print before members, own declarations only.
func Describe(cls *typeexpr.Class) string {
	if cls == nil {
		return "<nil>"
	}

	var sb strings.Builder

	sb.WriteString("class ")
	sb.WriteString(cls.ID.String())
	if len(cls.Params) > 0 {
		params := make([]string, len(cls.Params))
		for i, p := range cls.Params {
			params[i] = p.Name
			if len(p.Bounds) > 0 {
				params[i] += " " + p.Bounds[0].String()
			}
		}
		sb.WriteString("[" + strings.Join(params, ", ") + "]")
	}
	sb.WriteString("\n")

	if cls.Super != nil {
		fmt.Fprintf(&sb, "  extends %s\n", cls.Super)
	}
	for _, iface := range cls.Ifaces {
		fmt.Fprintf(&sb, "  implements %s\n", iface)
	}
	for _, m := range cls.Members {
		fmt.Fprintf(&sb, "  %s %s\n", m.Name, m.Type)
	}

	return sb.String()
}

// MemberPaths enumerates navigable property paths from a root class
// with the static type each one resolves to, inherited members
// included. An array member also contributes its element under
// "Name[]". Recursion stops after maxDepth member segments.
func MemberPaths(root *typeexpr.Class, maxDepth int) map[string]typeexpr.Type {
	return MemberPathsIn(root, root, maxDepth)
}

// MemberPathsIn is MemberPaths with an explicit resolution context,
// for callers that navigate a class through one of its instantiations.
func MemberPathsIn(root *typeexpr.Class, src typeexpr.Type, maxDepth int) map[string]typeexpr.Type {
	result := make(map[string]typeexpr.Type)
	if root == nil {
		return result
	}

	collectMemberPaths(root, src, "", result, 0, maxDepth)
	return result
}

func collectMemberPaths(cls *typeexpr.Class, src typeexpr.Type, prefix string, result map[string]typeexpr.Type, depth, maxDepth int) {
	if depth >= maxDepth {
		return
	}

	for _, name := range cls.MemberNames() {
		mt, ok := typeexpr.ResolveMember(cls, name, src)
		if !ok {
			continue
		}

		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		result[path] = mt

		collectNested(mt, path, result, depth+1, maxDepth)
	}
}

// collectNested descends into a resolved member type: through pointers
// transparently, into array elements under a "[]" suffix, and into
// class-shaped types by their members. Map values are keyed by data,
// not by the type graph, so they stay terminal.
func collectNested(t typeexpr.Type, path string, result map[string]typeexpr.Type, depth, maxDepth int) {
	switch tt := t.(type) {
	case *typeexpr.Array:
		result[path+"[]"] = tt.Elem
		collectNested(tt.Elem, path+"[]", result, depth, maxDepth)

	case *typeexpr.Parameterized:
		if tt.Raw == typeexpr.Ptr && len(tt.Args) == 1 {
			collectNested(tt.Args[0], path, result, depth, maxDepth)
			return
		}
		if tt.Raw == typeexpr.Dict {
			return
		}
		collectMemberPaths(tt.Raw, tt, path, result, depth, maxDepth)

	case *typeexpr.Class:
		collectMemberPaths(tt, tt, path, result, depth, maxDepth)
	}
}
