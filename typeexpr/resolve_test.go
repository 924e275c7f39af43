package typeexpr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairFixture builds Pair[K,V]{Left K; Right V} and IntPair extending
// Pair[int,int].
func pairFixture() (pair, intPair *Class) {
	k := NewVariable("K")
	v := NewVariable("V")

	pair = &Class{
		ID:     TypeID{PkgPath: "fixtures", Name: "Pair"},
		Params: []*Variable{k, v},
		Members: []Member{
			{Name: "Left", Type: k},
			{Name: "Right", Type: v},
		},
	}

	intPair = &Class{
		ID:    TypeID{PkgPath: "fixtures", Name: "IntPair"},
		Super: NewParameterized(pair, Of[int](), Of[int]()),
	}

	return pair, intPair
}

func TestResolveGroundIdempotent(t *testing.T) {
	pair, _ := pairFixture()

	grounds := []struct {
		name string
		expr Type
	}{
		{"basic", Of[int]()},
		{"slice", Of[[]string]()},
		{"map", Of[map[string]int]()},
		{"any", Any},
		{"parameterized over grounds", NewParameterized(pair, Of[int](), Of[string]())},
		{"array of ground class", NewArray(Of[float64]())},
	}

	// Context and declaring class must not matter for ground expressions,
	// even a context that would be rejected during variable resolution.
	contexts := []Type{pair, NewParameterized(pair, Of[int](), Of[int]()), Of[int](), nil}

	for _, tt := range grounds {
		t.Run(tt.name, func(t *testing.T) {
			for _, ctx := range contexts {
				got := Resolve(tt.expr, ctx, pair)

				switch tt.expr.(type) {
				case *Array:
					// Ground arrays collapse to the concrete slice type.
					assert.Equal(t, Of[[]float64](), got)
				default:
					assert.Equal(t, tt.expr, got)
				}
			}
		})
	}
}

func TestResolveMemberThroughSubclass(t *testing.T) {
	pair, intPair := pairFixture()

	left, ok := ResolveMember(intPair, "Left", intPair)
	require.True(t, ok)
	assert.Equal(t, Of[int](), left)

	right, ok := ResolveMember(intPair, "Right", intPair)
	require.True(t, ok)
	assert.Equal(t, Of[int](), right)

	// Against the bare generic class nothing narrows the variables.
	left, ok = ResolveMember(pair, "Left", pair)
	require.True(t, ok)
	assert.Equal(t, Any, left)

	_, ok = ResolveMember(pair, "Middle", pair)
	assert.False(t, ok)
}

func TestResolveSharedParameterization(t *testing.T) {
	// Grid[K,V]{Cells map[K]V}; Square[T] embeds Grid[T,T]. Resolving
	// Cells through Square[int64] must pin both K and V to int64.
	k := NewVariable("K")
	v := NewVariable("V")

	grid := &Class{
		ID:      TypeID{PkgPath: "fixtures", Name: "Grid"},
		Params:  []*Variable{k, v},
		Members: []Member{{Name: "Cells", Type: NewDict(k, v)}},
	}

	tv := NewVariable("T")
	square := &Class{
		ID:     TypeID{PkgPath: "fixtures", Name: "Square"},
		Params: []*Variable{tv},
		Super:  NewParameterized(grid, tv, tv),
	}

	cells, ok := ResolveMember(square, "Cells", NewParameterized(square, Of[int64]()))
	require.True(t, ok)

	want := NewDict(Of[int64](), Of[int64]())
	assert.Equal(t, want, cells)
	assert.Equal(t, "map[int64]int64", cells.String())

	rt, ok := GoTypeOf(cells)
	require.True(t, ok)
	assert.Equal(t, "map[int64]int64", rt.String())
}

func TestResolveChainLengthInvariance(t *testing.T) {
	// Base[B]{Data B} under N intermediate classes that merely
	// re-parameterize, closed by a leaf fixing string. The answer must
	// not depend on N.
	for _, n := range []int{0, 1, 2, 5} {
		t.Run(fmt.Sprintf("depth %d", n), func(t *testing.T) {
			b := NewVariable("B")
			base := &Class{
				ID:      TypeID{PkgPath: "fixtures", Name: "Base"},
				Params:  []*Variable{b},
				Members: []Member{{Name: "Data", Type: b}},
			}

			prev := base
			for i := 0; i < n; i++ {
				m := NewVariable("M")
				prev = &Class{
					ID:     TypeID{PkgPath: "fixtures", Name: fmt.Sprintf("Mid%d", i)},
					Params: []*Variable{m},
					Super:  NewParameterized(prev, m),
				}
			}

			leaf := &Class{
				ID:    TypeID{PkgPath: "fixtures", Name: "Leaf"},
				Super: NewParameterized(prev, Of[string]()),
			}

			data, ok := ResolveMember(leaf, "Data", leaf)
			require.True(t, ok)
			assert.Equal(t, Of[string](), data)
		})
	}
}

func TestResolveFirstInterfaceMatchWins(t *testing.T) {
	// A variable re-parameterized by two sibling interface edges resolves
	// through whichever edge is declared first.
	e := NewVariable("E")
	source := &Class{
		ID:      TypeID{PkgPath: "fixtures", Name: "Source"},
		Params:  []*Variable{e},
		Members: []Member{{Name: "Item", Type: e}},
	}

	build := func(first, second Type) *Class {
		return &Class{
			ID:     TypeID{PkgPath: "fixtures", Name: "Impl"},
			Ifaces: []Type{first, second},
		}
	}

	intFirst := build(NewParameterized(source, Of[int]()), NewParameterized(source, Of[string]()))
	item, ok := ResolveMember(intFirst, "Item", intFirst)
	require.True(t, ok)
	assert.Equal(t, Of[int](), item)

	stringFirst := build(NewParameterized(source, Of[string]()), NewParameterized(source, Of[int]()))
	item, ok = ResolveMember(stringFirst, "Item", stringFirst)
	require.True(t, ok)
	assert.Equal(t, Of[string](), item)
}

func TestResolveSuperclassBeforeInterfaces(t *testing.T) {
	e := NewVariable("E")
	source := &Class{
		ID:      TypeID{PkgPath: "fixtures", Name: "Source"},
		Params:  []*Variable{e},
		Members: []Member{{Name: "Item", Type: e}},
	}

	impl := &Class{
		ID:     TypeID{PkgPath: "fixtures", Name: "Impl"},
		Super:  NewParameterized(source, Of[bool]()),
		Ifaces: []Type{NewParameterized(source, Of[string]())},
	}

	item, ok := ResolveMember(impl, "Item", impl)
	require.True(t, ok)
	assert.Equal(t, Of[bool](), item)
}

func TestResolveBoundFallback(t *testing.T) {
	bounded := NewVariable("T", Of[error](), Of[fmt.Stringer]())
	unbounded := NewVariable("U")

	owner := &Class{
		ID:     TypeID{PkgPath: "fixtures", Name: "Owner"},
		Params: []*Variable{bounded, unbounded},
		Members: []Member{
			{Name: "Val", Type: bounded},
			{Name: "Extra", Type: unbounded},
		},
	}

	// Unresolvable at the declaring class: only the first bound is used.
	val, ok := ResolveMember(owner, "Val", owner)
	require.True(t, ok)
	assert.Equal(t, Of[error](), val)

	extra, ok := ResolveMember(owner, "Extra", owner)
	require.True(t, ok)
	assert.Equal(t, Any, extra)
}

func TestResolveWildcardBounds(t *testing.T) {
	e := NewVariable("E")
	collection := &Class{
		ID:     TypeID{PkgPath: "fixtures", Name: "Collection"},
		Params: []*Variable{e},
	}

	tv := NewVariable("T")
	holder := &Class{
		ID:     TypeID{PkgPath: "fixtures", Name: "Holder"},
		Params: []*Variable{tv},
		Members: []Member{
			{Name: "Values", Type: NewParameterized(collection, &Wildcard{Upper: []Type{tv}})},
			{Name: "Sink", Type: NewParameterized(collection, &Wildcard{Lower: []Type{tv}})},
		},
	}

	ctx := NewParameterized(holder, Of[int]())

	values, ok := ResolveMember(holder, "Values", ctx)
	require.True(t, ok)
	assert.Equal(t, NewParameterized(collection, &Wildcard{Upper: []Type{Of[int]()}}), values)

	sink, ok := ResolveMember(holder, "Sink", ctx)
	require.True(t, ok)
	assert.Equal(t, NewParameterized(collection, &Wildcard{Lower: []Type{Of[int]()}}), sink)
}

func TestResolveArrayMember(t *testing.T) {
	tv := NewVariable("T")
	box := &Class{
		ID:     TypeID{PkgPath: "fixtures", Name: "Box"},
		Params: []*Variable{tv},
		Members: []Member{
			{Name: "Items", Type: NewArray(tv)},
			{Name: "Grid", Type: NewArray(NewArray(tv))},
		},
	}
	stringBox := &Class{
		ID:    TypeID{PkgPath: "fixtures", Name: "StringBox"},
		Super: NewParameterized(box, Of[string]()),
	}

	items, ok := ResolveMember(stringBox, "Items", stringBox)
	require.True(t, ok)
	assert.Equal(t, Of[[]string](), items)

	grid, ok := ResolveMember(stringBox, "Grid", stringBox)
	require.True(t, ok)
	assert.Equal(t, Of[[][]string](), grid)

	// Against the bare class the element stays open and the array does
	// not collapse.
	items, ok = ResolveMember(box, "Items", box)
	require.True(t, ok)
	require.Equal(t, KindArray, items.Kind())
	assert.Equal(t, Any, items.(*Array).Elem)
}

func TestResolveInvalidContextPanics(t *testing.T) {
	pair, _ := pairFixture()
	k := pair.Params[0]

	require.Panics(t, func() {
		Resolve(k, Of[int](), pair) // unbound ground type as context
	})

	require.Panics(t, func() {
		Resolve(k, nil, pair)
	})

	require.Panics(t, func() {
		Resolve(k, NewVariable("X"), pair)
	})
}

func TestResolveDepthBounded(t *testing.T) {
	// A malformed cyclic hierarchy must terminate via the traversal
	// bound instead of recursing forever.
	a := &Class{ID: TypeID{PkgPath: "fixtures", Name: "A"}}
	b := &Class{ID: TypeID{PkgPath: "fixtures", Name: "B"}}
	a.Super = b
	b.Super = a

	v := NewVariable("V")
	elsewhere := &Class{
		ID:      TypeID{PkgPath: "fixtures", Name: "Elsewhere"},
		Params:  []*Variable{v},
		Members: []Member{{Name: "Val", Type: v}},
	}

	got := Resolve(v, a, elsewhere)
	assert.Equal(t, Any, got)
}
