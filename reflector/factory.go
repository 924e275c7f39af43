package reflector

import (
	"reflect"
	"sync"
)

// Factory builds Reflectors lazily and retains them for the lifetime of
// the process. Concurrent lookups of the same type all observe a single
// entry; redundant builds of fresh entries are discarded, never
// replacing a stored one.
type Factory struct {
	cache sync.Map // reflect.Type -> *Reflector
}

// NewFactory creates an empty reflector cache.
func NewFactory() *Factory { return &Factory{} }

// For returns the Reflector for t, building it on first use. Pointer
// types share the entry of their element type.
func (f *Factory) For(t reflect.Type) *Reflector {
	if t == nil {
		panic("reflector: nil type")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if cached, ok := f.cache.Load(t); ok {
		return cached.(*Reflector)
	}
	actual, _ := f.cache.LoadOrStore(t, New(t))
	return actual.(*Reflector)
}

// ForValue returns the Reflector for v's dynamic type.
func (f *Factory) ForValue(v any) *Reflector {
	return f.For(reflect.TypeOf(v))
}
