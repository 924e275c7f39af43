package ident

import "strings"

// Normalize folds an identifier for loose matching: lowercase with the
// common separators stripped, so "order_id", "OrderID" and "order-id"
// all normalize to "orderid".
func Normalize(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if !isSeparator(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// isSeparator returns true if the rune is a common separator.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
