package catalog

// Pair couples two values of independent types.
type Pair[K, V any] struct {
	Left  K `json:"left"`
	Right V `json:"right"`
}

// IntPair is a Pair fixed to integer halves.
type IntPair struct {
	Pair[int, int]
}

// Box is a labeled container of homogeneous items.
type Box[T any] struct {
	Label string `json:"label"`
	Items []T    `json:"items"`
}

// GetFirst returns the first item, or T's zero value for an empty box.
func (b Box[T]) GetFirst() T {
	if len(b.Items) == 0 {
		var zero T
		return zero
	}

	return b.Items[0]
}

// Grid is a keyed table of cells.
type Grid[K comparable, V any] struct {
	Cells map[K]V `json:"cells"`
}

// Square is a Grid whose keys and cells share one type.
type Square[T comparable] struct {
	Grid[T, T]
}

// Shipment groups instantiated generic members under one root.
type Shipment struct {
	Dims     Pair[int, int] `json:"dims"`
	Contents Box[Line]      `json:"contents"`
}

// Sack holds items its static type no longer describes. A descriptor
// binding can restore the element type hidden behind any.
type Sack struct {
	Items []any `json:"items"`
}

// Identified is satisfied by values that expose a stable identifier.
type Identified interface {
	GetID() string
}

// Keyed extends Identified with a secondary lookup key.
type Keyed interface {
	Identified
	GetKey() string
}

// Collection is implemented by containers that expose their elements.
type Collection[E any] interface {
	GetItems() []E
}

// LineCollection narrows Collection to order lines.
type LineCollection interface {
	Collection[Line]
}

// Entity carries identity through an embedded interface plus its own
// display name.
type Entity struct {
	Identified
	Name string `json:"name"`
}
