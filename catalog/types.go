// Package catalog holds the sample domain the tests and examples
// navigate: a small commerce model plus generic container types whose
// descriptors exercise type resolution.
package catalog

import (
	"time"
)

// Customer is the party an order belongs to.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Line is one priced position inside an order.
type Line struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"` // in cents (minor currency unit)
}

// Order is the root most navigation tests walk: nested struct, pointer,
// slice, and map members in one value.
type Order struct {
	ID        string            `json:"id"`
	Customer  *Customer         `json:"customer,omitempty"`
	Lines     []Line            `json:"lines"`
	Tags      map[string]string `json:"tags,omitempty"`
	Extra     map[string]any    `json:"extra,omitempty"`
	CreatedAt time.Time         `json:"created_at"`

	paid bool
}

// GetTotal derives the order total, a read-only accessor property.
func (o *Order) GetTotal() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.Price * int64(l.Quantity)
	}
	return total
}

// IsPaid reports settled orders; backed by an unexported field so the
// property exists only through its accessors.
func (o *Order) IsPaid() bool { return o.paid }

// SetPaid marks the order settled.
func (o *Order) SetPaid(v bool) { o.paid = v }

// Category is a self-referential tree node.
type Category struct {
	Name     string     `json:"name"`
	Parent   *Category  `json:"parent,omitempty"`
	Children []Category `json:"children,omitempty"`
}
