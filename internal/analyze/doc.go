// Package analyze extracts class descriptors from compiled Go
// packages.
//
// It uses golang.org/x/tools/go/packages with go/types to turn named
// types into the descriptor model: type parameters become variables,
// the first embedded struct becomes the supertype edge, embedded
// interfaces become superinterface edges, and accessor-shaped methods
// contribute members under the names the runtime reflector would use.
package analyze
