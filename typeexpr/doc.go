// Package typeexpr models generic type declarations as explicit
// descriptor data and resolves declared member types against concrete
// instantiation contexts.
//
// Go's reflect package erases type parameters at runtime, so the package
// keeps the generic structure itself: a Class descriptor records type
// parameters, supertype and superinterface edges, and member
// declarations; type expressions combine classes, variables,
// parameterized applications, wildcards, arrays and ground Go types into
// immutable trees.
//
// # Resolution
//
// Resolve answers "what is this declared type, as seen through that
// instantiation": a member declared as []T inside Box[T] resolves to
// []string when accessed through Box[string]. Variables are chased
// through the supertype edge first and then the superinterface edges in
// declaration order, translating edge arguments through the context's
// actual arguments; the first successful edge wins. A variable nothing
// pins down degrades silently to its first declared bound, or to Any.
//
// # Runtime bindings
//
// Bind associates a reflect.Type with its descriptor context so that
// reflection-driven callers can hand a plain Concrete value to Resolve.
// Bindings live in a process-wide concurrent registry; entries are pure
// functions of the declaration and safe to recompute.
//
// # Building descriptors
//
// Descriptors can be hand-built, loaded from YAML schema documents, or
// extracted from Go source (see internal/schemafile and
// internal/analyze). A *Variable matches a parameter slot by pointer
// identity, so every mention of a parameter must share the declaring
// class's instance.
package typeexpr
