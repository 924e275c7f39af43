package typeexpr

import (
	"fmt"
	"reflect"
	"sync"
)

// bindings associates runtime types with their instantiation contexts.
// Population is idempotent: rebinding the same type overwrites, which is
// safe because a binding is a pure function of the declaration.
var bindings sync.Map // reflect.Type -> Type

// BindType registers ctx as the instantiation context of the runtime type
// t. ctx must be a *Class or *Parameterized; anything else is a
// programmer error.
//
// Go erases type arguments at runtime, so each generic instantiation that
// should resolve precisely needs its own binding. NewInstantiation builds
// the context shape that pins the arguments, e.g. Box[string] bound to
// NewInstantiation(t, boxClass, Of[string]()).
func BindType(t reflect.Type, ctx Type) {
	if t == nil {
		panic("typeexpr: cannot bind a nil runtime type")
	}

	switch ctx.(type) {
	case *Class, *Parameterized:
	default:
		panic(fmt.Sprintf("typeexpr: binding for %s must be a class or parameterized type, got %s", t, describeContext(ctx)))
	}

	bindings.Store(t, ctx)
}

// Bind registers ctx as the instantiation context of the Go type T.
func Bind[T any](ctx Type) {
	BindType(reflect.TypeOf((*T)(nil)).Elem(), ctx)
}

// ContextOf looks up the instantiation context bound to a runtime type.
func ContextOf(t reflect.Type) (Type, bool) {
	if t == nil {
		return nil, false
	}

	if ctx, ok := bindings.Load(t); ok {
		return ctx.(Type), true
	}

	return nil, false
}
