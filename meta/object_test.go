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

func newOrder() *catalog.Order {
	return &catalog.Order{
		ID:       "o-1001",
		Customer: &catalog.Customer{ID: "c-7", Name: "Ada", Email: "ada@example.com"},
		Lines: []catalog.Line{
			{SKU: "A-100", Quantity: 2, Price: 1999},
			{SKU: "B-200", Quantity: 1, Price: 500},
		},
		Tags:  map[string]string{"color": "red", "priority": "high"},
		Extra: map[string]any{"note": "fragile"},
	}
}

func TestGetValue(t *testing.T) {
	o := meta.For(newOrder())

	tests := []struct {
		name string
		path string
		want any
	}{
		{"plain field", "ID", "o-1001"},
		{"through pointer", "Customer.Name", "Ada"},
		{"slice element field", "Lines[0].SKU", "A-100"},
		{"numeric leaf", "Lines[1].Price", int64(500)},
		{"map member by index", "Tags[color]", "red"},
		{"map member by dot", "Extra.note", "fragile"},
		{"map member index equivalent", "Extra[note]", "fragile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := o.GetValue(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetValueAbsent(t *testing.T) {
	o := meta.For(&catalog.Order{ID: "o-2"})

	tests := []struct {
		name string
		path string
	}{
		{"nil pointer leaf", "Customer"},
		{"through nil pointer", "Customer.Name"},
		{"nil slice element", "Lines[0]"},
		{"through nil slice", "Lines[0].SKU"},
		{"missing map key", "Tags[color]"},
		{"through missing map key", "Extra[note].X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := o.GetValue(tt.path)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestGetValueErrors(t *testing.T) {
	o := meta.For(newOrder())

	_, err := o.GetValue("Lines[9].SKU")
	assert.ErrorIs(t, err, meta.ErrIndexOutOfRange)

	_, err = o.GetValue("Lines[x]")
	assert.ErrorIs(t, err, meta.ErrIndexOutOfRange)

	_, err = o.GetValue("Bogus")
	assert.ErrorIs(t, err, meta.ErrNoSuchProperty)

	// A close miss names the canonical spelling.
	_, err = o.GetValue("customer.Name")
	require.ErrorIs(t, err, meta.ErrNoSuchProperty)
	assert.Contains(t, err.Error(), `did you mean "Customer"`)
}

func TestAccessorProperties(t *testing.T) {
	order := newOrder()
	o := meta.For(order)

	total, err := o.GetValue("Total")
	require.NoError(t, err)
	assert.Equal(t, int64(2*1999+500), total)

	paid, err := o.GetValue("Paid")
	require.NoError(t, err)
	assert.Equal(t, false, paid)

	require.NoError(t, o.SetValue("Paid", true))
	assert.True(t, order.IsPaid())

	// Total has no setter.
	err = o.SetValue("Total", int64(1))
	assert.ErrorIs(t, err, meta.ErrNoSuchProperty)
}

func TestSetValueInPlace(t *testing.T) {
	order := newOrder()
	o := meta.For(order)

	require.NoError(t, o.SetValue("ID", "o-2002"))
	assert.Equal(t, "o-2002", order.ID)

	require.NoError(t, o.SetValue("Customer.Email", "ada@corp.example"))
	assert.Equal(t, "ada@corp.example", order.Customer.Email)

	require.NoError(t, o.SetValue("Lines[1].Quantity", 5))
	assert.Equal(t, 5, order.Lines[1].Quantity)

	// Numeric kinds convert on assignment.
	require.NoError(t, o.SetValue("Lines[0].Price", 2500))
	assert.Equal(t, int64(2500), order.Lines[0].Price)

	require.NoError(t, o.SetValue("Tags[color]", "blue"))
	assert.Equal(t, "blue", order.Tags["color"])
}

func TestSetValueMaterializesIntermediates(t *testing.T) {
	order := &catalog.Order{}
	o := meta.For(order)

	require.NoError(t, o.SetValue("Customer.Name", "Grace"))
	require.NotNil(t, order.Customer)
	assert.Equal(t, "Grace", order.Customer.Name)

	// An absent any-typed map entry is filled with map[string]any.
	require.NoError(t, o.SetValue("Extra[shipping].City", "Oslo"))
	shipping, ok := order.Extra["shipping"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Oslo", shipping["City"])

	got, err := o.GetValue("Extra[shipping].City")
	require.NoError(t, err)
	assert.Equal(t, "Oslo", got)
}

func TestSetValueGrowsAbsentSlice(t *testing.T) {
	order := &catalog.Order{}
	o := meta.For(order)

	require.NoError(t, o.SetValue("Lines[2].SKU", "C-300"))
	require.Len(t, order.Lines, 3)
	assert.Equal(t, "C-300", order.Lines[2].SKU)
	assert.Equal(t, catalog.Line{}, order.Lines[0])

	// A live slice does not grow; positions beyond its length fail.
	err := o.SetValue("Lines[5].SKU", "F-600")
	assert.ErrorIs(t, err, meta.ErrIndexOutOfRange)
	assert.Len(t, order.Lines, 3)
}

func TestSetValueNilSemantics(t *testing.T) {
	// Writing nil through an absent intermediate materializes nothing.
	order := &catalog.Order{}
	o := meta.For(order)
	require.NoError(t, o.SetValue("Customer.Name", nil))
	assert.Nil(t, order.Customer)

	// Writing nil through a live intermediate zeroes the leaf.
	order = newOrder()
	o = meta.For(order)
	require.NoError(t, o.SetValue("Customer.Name", nil))
	assert.Equal(t, "", order.Customer.Name)

	require.NoError(t, o.SetValue("Tags[color]", nil))
	assert.Equal(t, "", order.Tags["color"])
}

func TestSetValueErrors(t *testing.T) {
	o := meta.For(newOrder())

	err := o.SetValue("Bogus", 1)
	assert.ErrorIs(t, err, meta.ErrNoSuchProperty)

	err = o.SetValue("ID", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot assign")

	// A terminal indexed write does not materialize its container.
	empty := meta.For(&catalog.Order{})
	err = empty.SetValue("Tags[color]", "red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holds nothing")
}

func TestUnaddressableRoot(t *testing.T) {
	o := meta.For(catalog.Order{ID: "o-3"})

	got, err := o.GetValue("ID")
	require.NoError(t, err)
	assert.Equal(t, "o-3", got)

	err = o.SetValue("ID", "o-4")
	assert.ErrorIs(t, err, meta.ErrNotWritable)
}

func TestCopiedIntermediateWriteback(t *testing.T) {
	// Map elements come out as copies; nested writes must land in the
	// map, not in a discarded temporary.
	stock := map[string]catalog.Line{"a": {SKU: "A-100", Quantity: 1}}
	o := meta.For(stock)

	require.NoError(t, o.SetValue("a.Quantity", 7))
	assert.Equal(t, 7, stock["a"].Quantity)

	// Same through an any-typed entry under a struct member.
	order := newOrder()
	order.Extra["line"] = catalog.Line{SKU: "X-1", Quantity: 1}
	oo := meta.For(order)
	require.NoError(t, oo.SetValue("Extra[line].Quantity", 9))
	assert.Equal(t, 9, order.Extra["line"].(catalog.Line).Quantity)

	// Two levels of value intermediates unwind in order.
	yard := map[string]catalog.Shipment{"s1": {}}
	so := meta.For(yard)
	require.NoError(t, so.SetValue("s1.Contents.Label", "bulk"))
	assert.Equal(t, "bulk", yard["s1"].Contents.Label)
}

func TestHasGetterAcrossAbsentValues(t *testing.T) {
	o := meta.For(&catalog.Order{})

	assert.True(t, o.HasGetter("Customer.Name"))
	assert.False(t, o.HasGetter("Customer.Bogus"))
	assert.True(t, o.HasGetter("Lines[0].SKU"))
	assert.True(t, o.HasGetter("Tags[color]"))
	assert.False(t, o.HasGetter("Bogus.X"))
	assert.False(t, o.HasGetter("ID.X"))

	assert.True(t, o.HasSetter("Customer.Name"))
	assert.True(t, o.HasSetter("Lines[0].Quantity"))
	assert.False(t, o.HasSetter("Total"))
	assert.True(t, o.HasSetter("Paid"))
}

func TestDeclaredTypes(t *testing.T) {
	o := meta.For(&catalog.Order{})

	tests := []struct {
		name string
		path string
		want reflect.Type
	}{
		{"through nil pointer", "Customer.Name", reflect.TypeOf("")},
		{"pointer member", "Customer", reflect.TypeOf((*catalog.Customer)(nil))},
		{"through nil slice", "Lines[0].Price", reflect.TypeOf(int64(0))},
		{"map member element", "Tags[color]", reflect.TypeOf("")},
		{"any map element", "Extra[x]", reflect.TypeOf((*any)(nil)).Elem()},
		{"accessor", "Total", reflect.TypeOf(int64(0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := o.GetterType(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	st, ok := o.SetterType("Paid")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(false), st)

	_, ok = o.SetterType("Total")
	assert.False(t, ok)

	_, ok = o.GetterType("Bogus")
	assert.False(t, ok)
}

func TestGenericBoxNavigation(t *testing.T) {
	b := &catalog.Box[string]{Label: "letters", Items: []string{}}
	o := meta.For(b)

	_, err := o.GetValue("Items[0]")
	assert.ErrorIs(t, err, meta.ErrIndexOutOfRange)

	b.Items = append(b.Items, "x")

	got, err := o.GetValue("Items[0]")
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	et, ok := o.GetterType("Items[0]")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(""), et)

	// First is derived from the accessor, not a field.
	first, err := o.GetValue("First")
	require.NoError(t, err)
	assert.Equal(t, "x", first)
	assert.False(t, o.HasSetter("First"))
}

func TestDescriptorRefinesAnyMembers(t *testing.T) {
	// Sack's Items field is []any; describe it as Items []T and bind the
	// string instantiation so navigation can recover the element type.
	elem := typeexpr.NewVariable("T")
	sack := typeexpr.NewClass("metanav/catalog", "Sack")
	sack.Params = []*typeexpr.Variable{elem}
	sack.Members = []typeexpr.Member{{Name: "Items", Type: typeexpr.NewArray(elem)}}
	st := reflect.TypeOf(catalog.Sack{})
	typeexpr.BindType(st, typeexpr.NewInstantiation(st, sack, typeexpr.Of[string]()))

	o := meta.For(&catalog.Sack{Items: []any{"x", "y"}})

	it, ok := o.GetterType("Items")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf([]string(nil)), it)

	et, ok := o.GetterType("Items[0]")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(""), et)

	// Live reads keep working through the coarse runtime type.
	got, err := o.GetValue("Items[1]")
	require.NoError(t, err)
	assert.Equal(t, "y", got)
}

func TestMapRootKeys(t *testing.T) {
	// The whole segment is the key: "servers[0]" is the entry named
	// "servers[0]", not entry "servers" indexed by 0.
	m := map[string]any{
		"servers[0]": map[string]any{"host": "a.example"},
		"servers":    []any{map[string]any{"host": "b.example"}},
	}
	o := meta.For(m)

	got, err := o.GetValue("servers[0].host")
	require.NoError(t, err)
	assert.Equal(t, "a.example", got)

	got, err = o.GetValue("servers[1]")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMapRootNavigation(t *testing.T) {
	stock := map[string]catalog.Line{"a": {SKU: "A-100", Price: 1999}}
	o := meta.For(stock)

	got, err := o.GetValue("a.SKU")
	require.NoError(t, err)
	assert.Equal(t, "A-100", got)

	require.NoError(t, o.SetValue("b", catalog.Line{SKU: "B-200"}))
	assert.Equal(t, "B-200", stock["b"].SKU)

	gt, ok := o.GetterType("a.Price")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(int64(0)), gt)

	assert.Equal(t, []string{"a", "b"}, o.GetterNames())

	canonical, ok := o.FindProperty("anything.at.all", true)
	assert.True(t, ok)
	assert.Equal(t, "anything.at.all", canonical)

	// An entry that exists but holds nothing is still readable, and
	// nothing below it can be contradicted.
	holes := meta.For(map[string]any{"a": nil})
	assert.True(t, holes.HasGetter("a"))
	assert.True(t, holes.HasGetter("a.X"))
	assert.False(t, holes.HasGetter("b"))
}

func TestSequenceRoot(t *testing.T) {
	lines := []catalog.Line{{SKU: "A-100"}, {SKU: "B-200"}}
	o := meta.For(lines)

	got, err := o.GetValue("[1].SKU")
	require.NoError(t, err)
	assert.Equal(t, "B-200", got)

	// Slice elements share the backing array, so writes are visible
	// through the original value.
	require.NoError(t, o.SetValue("[0].Quantity", 3))
	assert.Equal(t, 3, lines[0].Quantity)

	_, err = o.GetValue("[5]")
	assert.ErrorIs(t, err, meta.ErrIndexOutOfRange)

	_, err = o.GetValue("SKU")
	assert.ErrorIs(t, err, meta.ErrNoSuchProperty)

	// Array copies cannot be written; arrays behind a pointer can.
	arr := [2]int{1, 2}
	err = meta.For(arr).SetValue("[0]", 9)
	assert.ErrorIs(t, err, meta.ErrNotWritable)

	require.NoError(t, meta.For(&arr).SetValue("[0]", 9))
	assert.Equal(t, 9, arr[0])
}

func TestCollectionAppend(t *testing.T) {
	s := []string{"a"}
	o := meta.For(&s)

	require.True(t, o.IsCollection())
	o.Add("b")
	o.AddAll([]any{"c", "d"})
	assert.Equal(t, []string{"a", "b", "c", "d"}, s)

	assert.False(t, meta.For(&catalog.Order{}).IsCollection())
	assert.False(t, meta.For(map[string]int{}).IsCollection())

	// Appending needs the slice itself to be replaceable.
	assert.Panics(t, func() { meta.For([]string{"a"}).Add("b") })

	arr := [1]int{}
	assert.Panics(t, func() { meta.For(&arr).Add(1) })

	assert.PanicsWithValue(t, "meta: Add on non-collection catalog.Order", func() {
		meta.For(&catalog.Order{}).Add("x")
	})

	n := []int{1}
	assert.Panics(t, func() { meta.For(&n).Add("not a number") })
}

func TestNullNavigator(t *testing.T) {
	assert.Same(t, meta.Null, meta.For(nil))
	assert.Same(t, meta.Null, meta.For((*catalog.Order)(nil)))
	assert.Same(t, meta.Null, meta.For([]catalog.Line(nil)))

	got, err := meta.Null.GetValue("a.b.c")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, meta.Null.SetValue("a", 1), meta.ErrNotWritable)
	assert.ErrorIs(t, meta.Null.SetValue("a.b", 1), meta.ErrNotWritable)

	assert.False(t, meta.Null.HasGetter("a"))
	assert.False(t, meta.Null.IsCollection())
	assert.Nil(t, meta.Null.Value())
	assert.PanicsWithValue(t, "meta: Add on a null value", func() { meta.Null.Add(1) })
}

func TestPropertyNames(t *testing.T) {
	o := meta.For(&catalog.Order{})

	assert.Equal(t,
		[]string{"CreatedAt", "Customer", "Extra", "ID", "Lines", "Paid", "Tags", "Total"},
		o.GetterNames())
	assert.Equal(t,
		[]string{"CreatedAt", "Customer", "Extra", "ID", "Lines", "Paid", "Tags"},
		o.SetterNames())
}

func TestFindProperty(t *testing.T) {
	o := meta.For(&catalog.Order{})

	tests := []struct {
		name   string
		path   string
		ci     bool
		want   string
		wantOK bool
	}{
		{"exact", "Customer.Name", false, "Customer.Name", true},
		{"exact miss", "customer.name", false, "", false},
		{"folded", "customer.name", true, "Customer.Name", true},
		{"folded with separators", "created_at", true, "CreatedAt", true},
		{"index dropped", "lines[0].sku", true, "Lines.SKU", true},
		{"accessor", "total", true, "Total", true},
		{"map step passes through", "tags.color", true, "Tags.color", true},
		{"unknown", "nope", true, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := o.FindProperty(tt.path, tt.ci)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
