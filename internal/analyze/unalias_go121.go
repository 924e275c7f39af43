//go:build !go1.22

package analyze

import "go/types"

// Before go1.22 the type checker resolves aliases eagerly and never
// materializes *types.Alias nodes, so unaliasing is the identity.
func unalias(t types.Type) types.Type { return t }
