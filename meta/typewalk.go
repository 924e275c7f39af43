package meta

import (
	"reflect"

	"metanav/proppath"
	"metanav/typeexpr"
)

// The static walk answers introspection questions from declared types
// alone, which is what keeps HasGetter and GetterType working across
// intermediates whose live value is absent.

// refinedMemberType resolves the declared reflect type of property name
// on base, preferring a registry-bound descriptor when its resolution
// grounds to a Go type. Descriptors refine members whose reflect type
// degrades to interface{}: a struct declared with Items []any but
// described as Items []T reports []string when navigated through its
// string instantiation.
func refinedMemberType(base reflect.Type, name string, cfg Config, setter bool) reflect.Type {
	base = indirectType(base)
	if base == nil {
		return nil
	}

	if ctx, bound := typeexpr.ContextOf(base); bound {
		if cls := typeexpr.ClassOf(ctx); cls != nil {
			if mt, found := typeexpr.ResolveMember(cls, name, ctx); found {
				if gt, ground := typeexpr.GoTypeOf(mt); ground {
					return gt
				}
			}
		}
	}

	r := cfg.Reflectors.For(base)
	var (
		t  reflect.Type
		ok bool
	)
	if setter {
		t, ok = r.SetterType(name)
	} else {
		t, ok = r.GetterType(name)
	}
	if !ok {
		return nil
	}
	return t
}

// staticStep resolves the type one segment lands on starting from t.
// Map steps consume the whole segment as a key, so the element type is
// the answer whether or not the segment is indexed.
func staticStep(t reflect.Type, seg proppath.Segment, cfg Config, setter bool) reflect.Type {
	base := indirectType(t)
	if base == nil {
		return nil
	}

	switch base.Kind() {
	case reflect.Map:
		return base.Elem()

	case reflect.Struct:
		if seg.Name == "" {
			return nil
		}
		mt := refinedMemberType(base, seg.Name, cfg, setter)
		if seg.Indexed {
			return elemType(indirectType(mt))
		}
		return mt

	case reflect.Slice, reflect.Array:
		if seg.Name != "" || !seg.Indexed {
			return nil
		}
		return base.Elem()

	default:
		return nil
	}
}

func staticHasGetter(t reflect.Type, seg proppath.Segment, cfg Config) bool {
	return staticGetterType(t, seg, cfg) != nil
}

func staticHasSetter(t reflect.Type, seg proppath.Segment, cfg Config) bool {
	return staticSetterType(t, seg, cfg) != nil
}

func staticGetterType(t reflect.Type, seg proppath.Segment, cfg Config) reflect.Type {
	for seg.HasNext() {
		t = staticStep(t, seg, cfg, false)
		if t == nil {
			return nil
		}
		seg = seg.Next()
	}
	return staticStep(t, seg, cfg, false)
}

func staticSetterType(t reflect.Type, seg proppath.Segment, cfg Config) reflect.Type {
	for seg.HasNext() {
		// Intermediate steps are reached through reads; only the final
		// step is a write.
		t = staticStep(t, seg, cfg, false)
		if t == nil {
			return nil
		}
		seg = seg.Next()
	}
	return staticStep(t, seg, cfg, true)
}

// staticFindProperty rebuilds the canonical dotted form of path against
// declared types, dropping index syntax.
func staticFindProperty(t reflect.Type, path string, caseInsensitive bool, cfg Config) (string, bool) {
	seg := proppath.Parse(path)
	base := indirectType(t)
	if base == nil {
		return "", false
	}

	var canonical string
	switch base.Kind() {
	case reflect.Struct:
		r := cfg.Reflectors.For(base)
		if caseInsensitive {
			c, ok := r.FindProperty(seg.Name)
			if !ok {
				return "", false
			}
			canonical = c
		} else {
			if !r.HasGetter(seg.Name) && !r.HasSetter(seg.Name) {
				return "", false
			}
			canonical = seg.Name
		}

	case reflect.Map:
		canonical = seg.Name

	default:
		return "", false
	}

	if !seg.HasNext() {
		return canonical, true
	}

	head := proppath.Segment{Name: canonical, Index: seg.Index, Indexed: seg.Indexed}
	next := staticStep(base, head, cfg, false)
	if next == nil {
		return "", false
	}
	rest, ok := staticFindProperty(next, seg.Rest(), caseInsensitive, cfg)
	if !ok {
		return "", false
	}
	return canonical + "." + rest, true
}
