// Package diagnostic provides structured errors, warnings, and notes
// collected while loading class descriptors.
//
// Key capabilities:
//   - Unknown type reference errors with did-you-mean suggestions
//   - Argument arity and duplicate declaration reports
//   - Severity-grouped collection, merging, and formatting
package diagnostic
