package analyze

import (
	"metanav/typeexpr"
)

// Graph holds the class descriptors extracted from loaded packages.
type Graph struct {
	// Classes lists every extracted descriptor in load order.
	Classes []*typeexpr.Class
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo

	byID map[typeexpr.TypeID]*typeexpr.Class
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		Packages: make(map[string]*PackageInfo),
		byID:     make(map[typeexpr.TypeID]*typeexpr.Class),
	}
}

// add records a descriptor under its ID, keeping the first on
// duplicates.
func (g *Graph) add(cls *typeexpr.Class) {
	if _, ok := g.byID[cls.ID]; ok {
		return
	}

	g.byID[cls.ID] = cls
	g.Classes = append(g.Classes, cls)
}

// Class returns the descriptor for a given ID, or nil if not
// extracted.
func (g *Graph) Class(id typeexpr.TypeID) *typeexpr.Class {
	return g.byID[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path    string            // Import path
	Name    string            // Package name
	Classes []typeexpr.TypeID // Named types extracted from this package
}
