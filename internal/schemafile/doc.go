// Package schemafile loads class descriptors from YAML schema
// documents.
//
// Key capabilities:
//   - Ordered class declarations with type parameters and bounds
//   - extends/implements edges carrying type arguments
//   - Go-style type references: int, []T, map[K]V, *User, Pair[int, string]
//   - Structural diagnostics instead of hard failures
package schemafile
