// Package cart aggregates product selections before checkout.
package cart

import (
	"restaurante/internal/model"

	"github.com/shopspring/decimal"
)

// Cart holds at most one line per product, in insertion order. It is not safe for
// concurrent use.
type Cart struct {
	lines []model.CartLine
}

// New returns a cart holding a copy of lines. Lines with a non-positive quantity are dropped.
func New(lines ...model.CartLine) *Cart {
	c := &Cart{}
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i := c.index(l.Product.ID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

func (c *Cart) index(productID int64) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts quantity units of product in the cart. An existing line is incremented;
// its note is replaced only when note is non-nil.
func (c *Cart) Add(product model.Product, quantity int, note *string) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	if i := c.index(product.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		if note != nil {
			c.lines[i].Note = *note
		}
		return nil
	}

	line := model.CartLine{Product: product, Quantity: quantity}
	if note != nil {
		line.Note = *note
	}
	c.lines = append(c.lines, line)
	return nil
}

// Remove deletes the line for productID, if any.
func (c *Cart) Remove(productID int64) {
	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero or less
// removes the line. Unknown products are ignored.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

// Subtract takes the quantities of lines out of the cart. Lines that reach zero are
// removed; products added after lines were taken are left in place.
func (c *Cart) Subtract(lines []model.CartLine) {
	for _, l := range lines {
		i := c.index(l.Product.ID)
		if i < 0 {
			continue
		}
		c.lines[i].Quantity -= l.Quantity
		if c.lines[i].Quantity <= 0 {
			c.Remove(l.Product.ID)
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []model.CartLine {
	return append([]model.CartLine(nil), c.lines...)
}

// Len is the number of distinct products.
func (c *Cart) Len() int {
	return len(c.lines)
}

// View returns the API representation of the cart.
func (c *Cart) View() model.CartView {
	lines := c.Lines()
	if lines == nil {
		lines = []model.CartLine{}
	}
	return model.CartView{
		Lines:     lines,
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
}
