// Package cart holds the point-of-sale cart engine. Every operation takes the
// current cart value and returns a new one; nothing here touches the network
// or the database. Quantities are bounded by the stock snapshot taken when a
// line was created, and a line never survives with quantity zero.
package cart

// Product is the catalog view the engine needs to open a line. Stock is the
// sellable quantity at add time (the display-rack count), snapshotted into the
// line as its ceiling.
type Product struct {
	ID         string
	Name       string
	PriceCents int
	Stock      int
}

type Line struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int    `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	StockLimit     int    `json:"stock_limit"`
}

// Cart is a value: operations return a fresh Cart and leave the receiver
// untouched, so callers can swap the new snapshot in for the old one.
// Lines keep insertion order and are unique per product.
type Cart struct {
	Lines []Line `json:"lines"`
}

func (c Cart) clone() Cart {
	out := Cart{Lines: make([]Line, len(c.Lines))}
	copy(out.Lines, c.Lines)
	return out
}

func (c Cart) index(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Get returns the line for productID, if present.
func (c Cart) Get(productID string) (Line, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// Add opens a line with quantity 1 for p, or behaves as Increase when a line
// already exists. It reports false, with the cart unchanged, when p is out of
// stock or the existing line already sits at its ceiling.
func (c Cart) Add(p Product) (Cart, bool) {
	if c.index(p.ID) >= 0 {
		return c.Increase(p.ID)
	}
	if p.Stock <= 0 {
		return c, false
	}
	out := c.clone()
	out.Lines = append(out.Lines, Line{
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPriceCents: p.PriceCents,
		Quantity:       1,
		StockLimit:     p.Stock,
	})
	return out, true
}

// Increase bumps the line's quantity by one. It reports false when the line
// does not exist or its stock ceiling is already reached.
func (c Cart) Increase(productID string) (Cart, bool) {
	i := c.index(productID)
	if i < 0 {
		return c, false
	}
	if c.Lines[i].Quantity >= c.Lines[i].StockLimit {
		return c, false
	}
	out := c.clone()
	out.Lines[i].Quantity++
	return out, true
}

// Decrease lowers the line's quantity by one, removing the line when it would
// drop to zero. Absent lines are a no-op; Decrease never fails.
func (c Cart) Decrease(productID string) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	out := c.clone()
	out.Lines[i].Quantity--
	if out.Lines[i].Quantity <= 0 {
		out.Lines = append(out.Lines[:i], out.Lines[i+1:]...)
	}
	return out
}

// Remove drops the line unconditionally if present.
func (c Cart) Remove(productID string) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	out := c.clone()
	out.Lines = append(out.Lines[:i], out.Lines[i+1:]...)
	return out
}

// Clear empties the cart. Called after a sale is confirmed.
func (c Cart) Clear() Cart { return Cart{} }

func (c Cart) TotalCents() int {
	total := 0
	for _, l := range c.Lines {
		total += l.UnitPriceCents * l.Quantity
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
