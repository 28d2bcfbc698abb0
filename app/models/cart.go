package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartLine is one (product, quantity) pair within a Cart.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns quantity × unit price as an exact decimal.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered collection of CartLines, scoped to one visitor session.
// Line order is the insertion order of the first-seen product; adding more of
// a product already in the cart accumulates onto its existing line without
// moving it.
//
// A Cart is owned by exactly one session and must not be shared between
// goroutines; it carries no internal locking. The session layer loads a
// fresh Cart per request.
type Cart struct {
	lines []*CartLine
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem adds quantity units of product to the cart. If a line for the
// product already exists its quantity is incremented in place; otherwise a
// new line is appended. Quantities below 1 are ignored.
func (c *Cart) AddItem(product Product, quantity int) {
	if quantity < 1 {
		return
	}
	for _, line := range c.lines {
		if line.Product.ID == product.ID {
			line.Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, &CartLine{Product: product, Quantity: quantity})
}

// RemoveLine deletes the line for the given product ID. Removing a product
// that is not in the cart is a no-op.
func (c *Cart) RemoveLine(productID uint) {
	for i, line := range c.lines {
		if line.Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a snapshot of the cart's lines in insertion order.
// Mutation goes through AddItem/RemoveLine/Clear only.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	for i, line := range c.lines {
		out[i] = *line
	}
	return out
}

// Total returns the sum of quantity × price over all lines.
// An empty cart totals exactly zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Clear removes every line. The cart stays usable afterwards.
func (c *Cart) Clear() {
	c.lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// ─── Session serialisation ────────────────────────────────────────────────────
// Carts live inside the session store as JSON; the unexported lines slice
// needs explicit (un)marshalling.

type cartJSON struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartJSON{Lines: c.Lines()})
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw cartJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.lines = make([]*CartLine, len(raw.Lines))
	for i := range raw.Lines {
		line := raw.Lines[i]
		c.lines[i] = &line
	}
	return nil
}
