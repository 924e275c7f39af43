// Package ident provides identifier normalization and edit distance
// for matching property names against path segments.
//
// Key functions:
//   - Normalize: folds case and strips separators for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Closest: picks the nearest candidate for did-you-mean hints
package ident
