package models

// CartLine is one product entry in a cart. A cart holds at most one line per
// ProductID; Quantity is always >= 1 for a retained line (a quantity of zero
// means removal).
type CartLine struct {
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Cart is an ordered set of lines plus derived totals.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Subtotal is the pre-tax sum over all lines.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// Count is the total number of units across all lines.
func (c Cart) Count() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Find returns the index of the line for productID, or -1.
func (c Cart) Find(productID uint) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
