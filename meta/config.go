package meta

import (
	"reflect"

	"metanav/factory"
	"metanav/reflector"
)

// sharedReflectors backs every navigator that does not bring its own
// cache, so repeated navigation of the same types stays cheap.
var sharedReflectors = reflector.NewFactory()

// Config carries the collaborators a navigator uses. The zero value is
// usable; nil fields fall back to the package defaults.
type Config struct {
	// Factory creates values when SetValue crosses absent
	// intermediates. Defaults to factory.Default.
	Factory factory.Factory

	// Wrappers are consulted in order before the built-in wrapper
	// selection; the first factory to claim a value wins.
	Wrappers []WrapperFactory

	// Reflectors caches per-type property metadata. Defaults to a
	// process-wide shared cache.
	Reflectors *reflector.Factory
}

// DefaultConfig returns the configuration used by For.
func DefaultConfig() Config {
	return Config{Factory: factory.Default, Reflectors: sharedReflectors}
}

func (c Config) normalized() Config {
	if c.Factory == nil {
		c.Factory = factory.Default
	}
	if c.Reflectors == nil {
		c.Reflectors = sharedReflectors
	}
	return c
}

// For wraps obj in a navigator using c. A nil or nil-valued obj yields
// the Null navigator. A value that implements Wrapper is used as its
// own wrapper; otherwise a registered WrapperFactory may claim it
// before the shape-based selection runs.
func (c Config) For(obj any) *Object {
	c = c.normalized()
	if obj == nil {
		return Null
	}
	if w, ok := obj.(Wrapper); ok {
		return &Object{cfg: c, wrapper: w}
	}
	return c.forValue(reflect.ValueOf(obj))
}

func (c Config) forValue(v reflect.Value) *Object {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	if nilish(v) {
		return Null
	}

	o := &Object{value: v, cfg: c}
	o.wrapper = c.wrapperOf(o, v)
	return o
}

func (c Config) wrapperOf(o *Object, v reflect.Value) Wrapper {
	for _, wf := range c.Wrappers {
		if w, ok := wf.Wrap(o, v); ok {
			return w
		}
	}

	switch cv := concrete(v); cv.Kind() {
	case reflect.Map:
		return &mapWrapper{obj: o, m: cv}
	case reflect.Slice, reflect.Array:
		return &sequenceWrapper{obj: o, seq: cv}
	default:
		return newBeanWrapper(o, v)
	}
}

// For wraps obj in a navigator with the default configuration.
func For(obj any) *Object {
	return DefaultConfig().For(obj)
}
