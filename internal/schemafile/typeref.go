package schemafile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"metanav/internal/ident"
	"metanav/typeexpr"
)

// refSuggestionDistance bounds how far a suggested name may be from the
// unknown reference.
const refSuggestionDistance = 2

// builtinTypes maps the ground type spellings a schema may use without
// declaring them.
var builtinTypes = map[string]reflect.Type{
	"string":        reflect.TypeOf(""),
	"bool":          reflect.TypeOf(false),
	"int":           reflect.TypeOf(int(0)),
	"int8":          reflect.TypeOf(int8(0)),
	"int16":         reflect.TypeOf(int16(0)),
	"int32":         reflect.TypeOf(int32(0)),
	"int64":         reflect.TypeOf(int64(0)),
	"uint":          reflect.TypeOf(uint(0)),
	"uint8":         reflect.TypeOf(uint8(0)),
	"uint16":        reflect.TypeOf(uint16(0)),
	"uint32":        reflect.TypeOf(uint32(0)),
	"uint64":        reflect.TypeOf(uint64(0)),
	"uintptr":       reflect.TypeOf(uintptr(0)),
	"byte":          reflect.TypeOf(byte(0)),
	"rune":          reflect.TypeOf(rune(0)),
	"float32":       reflect.TypeOf(float32(0)),
	"float64":       reflect.TypeOf(float64(0)),
	"complex64":     reflect.TypeOf(complex64(0)),
	"complex128":    reflect.TypeOf(complex128(0)),
	"error":         reflect.TypeOf((*error)(nil)).Elem(),
	"time.Time":     reflect.TypeOf(time.Time{}),
	"time.Duration": reflect.TypeOf(time.Duration(0)),
}

// unknownTypeError reports a reference no declaration covers, with
// close alternatives when any exist.
type unknownTypeError struct {
	Name        string
	Suggestions []string
}

func (e *unknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q", e.Name)
}

// scope resolves type references within one class declaration. The
// params map carries the declaring class's type parameters; it is nil
// for references parsed outside any declaration.
type scope struct {
	set    *Set
	params map[string]*typeexpr.Variable
}

// parseRef parses a Go-style type reference: builtin scalars, any,
// *T, []T, map[K]V, type parameters in scope, declared class names,
// and generic applications like Pair[int, string]. Component shapes
// over ground types collapse to their runtime types, the same way the
// resolver collapses them.
func (sc scope) parseRef(ref string) (typeexpr.Type, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("empty type reference")
	}

	if ref == "any" || ref == "interface{}" {
		return typeexpr.Any, nil
	}

	if rest, ok := strings.CutPrefix(ref, "*"); ok {
		elem, err := sc.parseRef(rest)
		if err != nil {
			return nil, err
		}
		return ptrRef(elem), nil
	}

	if rest, ok := strings.CutPrefix(ref, "[]"); ok {
		elem, err := sc.parseRef(rest)
		if err != nil {
			return nil, err
		}
		return sliceRef(elem), nil
	}

	if rest, ok := strings.CutPrefix(ref, "map["); ok {
		keyRef, valRef, err := splitMapRef(ref, rest)
		if err != nil {
			return nil, err
		}
		key, err := sc.parseRef(keyRef)
		if err != nil {
			return nil, err
		}
		val, err := sc.parseRef(valRef)
		if err != nil {
			return nil, err
		}
		return dictRef(ref, key, val)
	}

	if base, args, ok := splitApplication(ref); ok {
		return sc.parseApplication(base, args)
	}

	if v, ok := sc.params[ref]; ok {
		return v, nil
	}

	if t, ok := builtinTypes[ref]; ok {
		return typeexpr.OfType(t), nil
	}

	cls, err := sc.lookupClass(ref)
	if err != nil {
		return nil, err
	}
	return cls, nil
}

// parseApplication parses a generic application base[arg, ...] and
// checks its arity against the declared parameters.
func (sc scope) parseApplication(base string, args []string) (typeexpr.Type, error) {
	cls, err := sc.lookupClass(base)
	if err != nil {
		return nil, err
	}
	if len(args) != len(cls.Params) {
		return nil, fmt.Errorf("%s takes %d type arguments, got %d", cls.ID, len(cls.Params), len(args))
	}

	parsed := make([]typeexpr.Type, len(args))
	for i, arg := range args {
		t, err := sc.parseRef(arg)
		if err != nil {
			return nil, err
		}
		parsed[i] = t
	}
	return typeexpr.NewParameterized(cls, parsed...), nil
}

// lookupClass finds a declared class by name, attaching a close
// alternative to the error when the name matches nothing.
func (sc scope) lookupClass(name string) (*typeexpr.Class, error) {
	if cls := sc.set.Resolve(name); cls != nil {
		return cls, nil
	}

	err := &unknownTypeError{Name: name}
	if best, ok := ident.Closest(name, sc.candidateNames(), refSuggestionDistance); ok {
		err.Suggestions = []string{best}
	}
	return nil, err
}

// candidateNames collects every name a reference could have meant.
func (sc scope) candidateNames() []string {
	var names []string
	for name := range sc.params {
		names = append(names, name)
	}
	if sc.set != nil {
		for _, cls := range sc.set.Classes {
			names = append(names, cls.ID.Name, cls.ID.String())
		}
	}
	for name := range builtinTypes {
		names = append(names, name)
	}
	return names
}

// splitMapRef splits the remainder of a "map[" reference into its key
// and value parts, honoring nested brackets in the key.
func splitMapRef(ref, rest string) (key, val string, err error) {
	depth := 1
	for i, r := range rest {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				if i+1 >= len(rest) {
					return "", "", fmt.Errorf("map reference %q has no value type", ref)
				}
				return rest[:i], rest[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("map reference %q has an unclosed key", ref)
}

// splitApplication recognizes base[args] and splits the arguments at
// top-level commas.
func splitApplication(ref string) (base string, args []string, ok bool) {
	if !strings.HasSuffix(ref, "]") {
		return "", nil, false
	}
	idx := strings.Index(ref, "[")
	if idx <= 0 {
		return "", nil, false
	}

	inner := ref[idx+1 : len(ref)-1]
	depth := 0
	start := 0
	for i, r := range inner {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return "", nil, false
	}
	args = append(args, strings.TrimSpace(inner[start:]))
	return ref[:idx], args, true
}

// sliceRef collapses to the concrete slice type when the element is
// ground, the same rule the resolver applies to arrays.
func sliceRef(elem typeexpr.Type) typeexpr.Type {
	if gt, ok := groundComponent(elem); ok {
		return typeexpr.OfType(reflect.SliceOf(gt))
	}
	return typeexpr.NewArray(elem)
}

// ptrRef collapses to the concrete pointer type when the element is
// ground.
func ptrRef(elem typeexpr.Type) typeexpr.Type {
	if gt, ok := groundComponent(elem); ok {
		return typeexpr.OfType(reflect.PointerTo(gt))
	}
	return typeexpr.NewPtr(elem)
}

// dictRef collapses to the concrete map type when both components are
// ground and the key can actually key a map.
func dictRef(ref string, key, val typeexpr.Type) (typeexpr.Type, error) {
	kt, kok := groundComponent(key)
	if kok && !kt.Comparable() {
		return nil, fmt.Errorf("map reference %q has a non-comparable key", ref)
	}
	if vt, vok := groundComponent(val); kok && vok {
		return typeexpr.OfType(reflect.MapOf(kt, vt)), nil
	}
	return typeexpr.NewDict(key, val), nil
}

// groundComponent reports the runtime type of a component that is
// already ground. Any stays symbolic so that []T and []any keep the
// same shape.
func groundComponent(t typeexpr.Type) (reflect.Type, bool) {
	switch tt := t.(type) {
	case typeexpr.Concrete:
		return tt.GoType, tt.GoType != nil
	case *typeexpr.Class:
		return tt.GoType, tt.GoType != nil
	}
	return nil, false
}
