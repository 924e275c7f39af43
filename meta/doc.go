// Package meta navigates live object graphs and descriptor graphs by
// dotted property paths such as "order.items[0].price".
//
// # Live navigation
//
// For wraps any value in an Object navigator. Each step of a path is
// served by a capability wrapper chosen from the value's shape: structs
// get a bean wrapper backed by the reflector cache, maps a key-value
// wrapper, slices and arrays a positional wrapper. GetValue walks the
// path and returns nil for anything absent along the way; SetValue
// walks the same path and materializes absent intermediates through the
// object factory before writing. Writes through value-typed
// intermediates, a struct inside a map for instance, are copied out,
// mutated, and written back so that a subsequent read observes the
// write.
//
// # Wrappers
//
// The Wrapper interface is the per-shape capability surface: property
// access, introspection, instantiation, and, for sequences only,
// appending. A value may implement Wrapper itself, and a WrapperFactory
// registered in Config can claim values before the built-in selection
// runs.
//
// # Descriptor navigation
//
// ClassOf builds the same introspection surface over typeexpr
// descriptors with no live values involved. Member types are resolved
// against the navigated instantiation context, so a path into a generic
// member reports the context's concrete type, an indexed step reporting
// the element type.
//
// # Interpolation
//
// Interpolate substitutes ${path} placeholders in text with values read
// from an object graph, leaving unresolvable placeholders intact.
package meta
