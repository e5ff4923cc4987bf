package domain

// CartItem is one cart line. A line is identified by the product id together
// with the selected size and color; empty strings mean "not selected".
type CartItem struct {
	Product       Product `json:"product"`
	Quantity      int     `json:"quantity"`
	SelectedSize  string  `json:"selected_size,omitempty"`
	SelectedColor string  `json:"selected_color,omitempty"`
}

// Matches reports whether the line has the given identity.
func (i CartItem) Matches(productID int, size, color string) bool {
	return i.Product.ID == productID && i.SelectedSize == size && i.SelectedColor == color
}

// Cart is the ordered list of cart lines. Operations return a new slice and
// never modify the receiver's backing array.
type Cart []CartItem

// Add merges one unit of product into the matching line, or appends a new
// line with quantity 1.
func (c Cart) Add(product Product, size, color string) Cart {
	out := c.clone()
	for i := range out {
		if out[i].Matches(product.ID, size, color) {
			out[i].Quantity++
			return out
		}
	}
	return append(out, CartItem{
		Product:       product,
		Quantity:      1,
		SelectedSize:  size,
		SelectedColor: color,
	})
}

// Remove deletes every line matching the identity.
func (c Cart) Remove(productID int, size, color string) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if !item.Matches(productID, size, color) {
			out = append(out, item)
		}
	}
	return out
}

// SetQuantity overwrites the quantity of every line of productID. A quantity
// of zero or below removes those lines.
func (c Cart) SetQuantity(productID, quantity int) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.Product.ID != productID {
			out = append(out, item)
			continue
		}
		if quantity > 0 {
			item.Quantity = quantity
			out = append(out, item)
		}
	}
	return out
}

// Has reports whether any line references productID.
func (c Cart) Has(productID int) bool {
	for _, item := range c {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// Line returns the line with the given identity.
func (c Cart) Line(productID int, size, color string) (CartItem, bool) {
	for _, item := range c {
		if item.Matches(productID, size, color) {
			return item, true
		}
	}
	return CartItem{}, false
}

// Count is the sum of all line quantities.
func (c Cart) Count() int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}

func (c Cart) clone() Cart {
	out := make(Cart, len(c), len(c)+1)
	copy(out, c)
	return out
}
