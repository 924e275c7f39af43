package meta_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metanav/catalog"
	"metanav/meta"
	"metanav/typeexpr"
)

// catalogClasses is the descriptor graph for the generic catalog types.
// Navigating it needs no live values at all.
type catalogClasses struct {
	pair     *typeexpr.Class
	intPair  *typeexpr.Class
	line     *typeexpr.Class
	box      *typeexpr.Class
	grid     *typeexpr.Class
	square   *typeexpr.Class
	shipment *typeexpr.Class
	coll     *typeexpr.Class
	lineColl *typeexpr.Class
}

func newCatalogClasses() catalogClasses {
	k := typeexpr.NewVariable("K")
	v := typeexpr.NewVariable("V")
	pair := typeexpr.NewClass("metanav/catalog", "Pair")
	pair.Params = []*typeexpr.Variable{k, v}
	pair.Members = []typeexpr.Member{
		{Name: "Left", Type: k},
		{Name: "Right", Type: v},
	}

	intPair := typeexpr.NewClass("metanav/catalog", "IntPair")
	intPair.Super = typeexpr.NewParameterized(pair, typeexpr.Of[int](), typeexpr.Of[int]())
	intPair.GoType = reflect.TypeOf(catalog.IntPair{})

	line := typeexpr.NewClass("metanav/catalog", "Line")
	line.GoType = reflect.TypeOf(catalog.Line{})
	line.Members = []typeexpr.Member{
		{Name: "SKU", Type: typeexpr.Of[string]()},
		{Name: "Quantity", Type: typeexpr.Of[int]()},
		{Name: "Price", Type: typeexpr.Of[int64]()},
	}

	bt := typeexpr.NewVariable("T")
	box := typeexpr.NewClass("metanav/catalog", "Box")
	box.Params = []*typeexpr.Variable{bt}
	box.Members = []typeexpr.Member{
		{Name: "Label", Type: typeexpr.Of[string]()},
		{Name: "Items", Type: typeexpr.NewArray(bt)},
		{Name: "First", Type: bt},
	}

	gk := typeexpr.NewVariable("K")
	gv := typeexpr.NewVariable("V")
	grid := typeexpr.NewClass("metanav/catalog", "Grid")
	grid.Params = []*typeexpr.Variable{gk, gv}
	grid.Members = []typeexpr.Member{
		{Name: "Cells", Type: typeexpr.NewDict(gk, gv)},
	}

	st := typeexpr.NewVariable("T")
	square := typeexpr.NewClass("metanav/catalog", "Square")
	square.Params = []*typeexpr.Variable{st}
	square.Super = typeexpr.NewParameterized(grid, st, st)

	shipment := typeexpr.NewClass("metanav/catalog", "Shipment")
	shipment.GoType = reflect.TypeOf(catalog.Shipment{})
	shipment.Members = []typeexpr.Member{
		{Name: "Dims", Type: typeexpr.NewParameterized(pair, typeexpr.Of[int](), typeexpr.Of[int]())},
		{Name: "Contents", Type: typeexpr.NewParameterized(box, line)},
	}

	e := typeexpr.NewVariable("E")
	coll := typeexpr.NewClass("metanav/catalog", "Collection")
	coll.Params = []*typeexpr.Variable{e}
	coll.Members = []typeexpr.Member{
		{Name: "Items", Type: typeexpr.NewArray(e)},
	}

	lineColl := typeexpr.NewClass("metanav/catalog", "LineCollection")
	lineColl.Ifaces = []typeexpr.Type{typeexpr.NewParameterized(coll, line)}
	lineColl.GoType = reflect.TypeOf((*catalog.LineCollection)(nil)).Elem()

	return catalogClasses{
		pair:     pair,
		intPair:  intPair,
		line:     line,
		box:      box,
		grid:     grid,
		square:   square,
		shipment: shipment,
		coll:     coll,
		lineColl: lineColl,
	}
}

func TestClassMemberThroughSuperEdge(t *testing.T) {
	fx := newCatalogClasses()

	// IntPair's supertype edge fixes both halves of Pair to int.
	c := meta.ClassOf(fx.intPair)

	left, ok := c.GetterType("Left")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Of[int](), left)

	right, ok := c.GetterType("Right")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Of[int](), right)

	assert.True(t, c.HasGetter("Left"))
	assert.True(t, c.HasSetter("Left"))
	assert.False(t, c.HasGetter("Middle"))

	_, ok = c.GetterType("Middle")
	assert.False(t, ok)

	// The bare class narrows nothing.
	left, ok = meta.ClassOf(fx.pair).GetterType("Left")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Any, left)

	// Arguments spelled directly on the declaring class do not narrow
	// its own variables either; only a subtype edge pins them.
	direct := meta.ClassOf(typeexpr.NewParameterized(fx.pair, typeexpr.Of[int](), typeexpr.Of[int]()))
	left, ok = direct.GetterType("Left")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Any, left)
}

func TestClassSharedParameterPins(t *testing.T) {
	fx := newCatalogClasses()

	// Square[string] fixes Grid's two parameters to the one argument.
	c := meta.ClassOf(typeexpr.NewParameterized(fx.square, typeexpr.Of[string]()))

	cells, ok := c.GetterType("Cells")
	require.True(t, ok)
	assert.Equal(t, typeexpr.NewDict(typeexpr.Of[string](), typeexpr.Of[string]()), cells)

	gt, ok := typeexpr.GoTypeOf(cells)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(map[string]string(nil)), gt)

	cell, ok := c.GetterType("Cells[k]")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Of[string](), cell)
}

func TestClassInterfaceEdge(t *testing.T) {
	fx := newCatalogClasses()
	typeexpr.BindType(reflect.TypeOf(catalog.Line{}), fx.line)

	c := meta.ClassOf(fx.lineColl)

	items, ok := c.GetterType("Items")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Of[[]catalog.Line](), items)

	elem, ok := c.GetterType("Items[0]")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Of[catalog.Line](), elem)

	// The registry binding lets the drill continue below the collapsed
	// element type.
	sku, ok := c.GetterType("Items[0].SKU")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Of[string](), sku)

	assert.True(t, c.HasGetter("Items[0].SKU"))
	assert.False(t, c.HasGetter("Items[0].Bogus"))
}

func TestClassDeepPaths(t *testing.T) {
	fx := newCatalogClasses()

	c := meta.ClassOf(fx.shipment)

	label, ok := c.GetterType("Contents.Label")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Of[string](), label)

	// Below the first drill the contained instantiation is the context
	// of its own class, so its variables degrade to the top type.
	first, ok := c.GetterType("Contents.First")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Any, first)

	elem, ok := c.GetterType("Contents.Items[0]")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Any, elem)

	leftDim, ok := c.GetterType("Dims.Left")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Any, leftDim)

	assert.True(t, c.HasGetter("Contents.Label"))
	assert.False(t, c.HasGetter("Contents.Lid"))
}

func TestClassRawGenericErasure(t *testing.T) {
	fx := newCatalogClasses()

	c := meta.ClassOf(fx.box)

	items, ok := c.GetterType("Items")
	require.True(t, ok)
	assert.Equal(t, "[]any", items.String())

	elem, ok := c.GetterType("Items[0]")
	require.True(t, ok)
	assert.Equal(t, typeexpr.Any, elem)
}

func TestClassNames(t *testing.T) {
	fx := newCatalogClasses()

	assert.Equal(t, []string{"Left", "Right"}, meta.ClassOf(fx.intPair).GetterNames())
	assert.Equal(t, []string{"Dims", "Contents"}, meta.ClassOf(fx.shipment).GetterNames())
	assert.Equal(t, []string{"Items"}, meta.ClassOf(fx.lineColl).SetterNames())
}

func TestClassFindProperty(t *testing.T) {
	fx := newCatalogClasses()
	typeexpr.BindType(reflect.TypeOf(catalog.Line{}), fx.line)

	tests := []struct {
		name            string
		root            *typeexpr.Class
		path            string
		caseInsensitive bool
		want            string
		found           bool
	}{
		{"exact passthrough", fx.shipment, "Dims", false, "Dims", true},
		{"folded single step", fx.shipment, "contents", true, "Contents", true},
		{"folded dotted path", fx.shipment, "contents.label", true, "Contents.Label", true},
		{"case matters without folding", fx.shipment, "contents.label", false, "", false},
		{"index syntax dropped", fx.lineColl, "items[2].sku", true, "Items.SKU", true},
		{"unknown head", fx.shipment, "bogus.label", true, "", false},
		{"unknown tail", fx.shipment, "contents.lid", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := meta.ClassOf(tt.root).FindProperty(tt.path, tt.caseInsensitive)
			require.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassCanInstantiate(t *testing.T) {
	fx := newCatalogClasses()

	assert.True(t, meta.ClassOf(fx.intPair).CanInstantiate())

	// No runtime binding, nothing to create.
	assert.False(t, meta.ClassOf(fx.pair).CanInstantiate())

	// Interfaces have no default construction.
	assert.False(t, meta.ClassOf(fx.lineColl).CanInstantiate())
}

func TestClassOfRejectsNonClass(t *testing.T) {
	assert.PanicsWithValue(t, "meta: class navigation needs a class or parameterized type", func() {
		meta.ClassOf(typeexpr.Any)
	})
	assert.PanicsWithValue(t, "meta: class navigation needs a class or parameterized type", func() {
		meta.ClassOf(typeexpr.Of[int]())
	})
}
