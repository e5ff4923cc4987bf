package domain

import "time"

// WishlistItem is a saved product. The product id is the identity.
type WishlistItem struct {
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at"`
}

// Wishlist is the ordered list of saved products, oldest first.
type Wishlist []WishlistItem

// Add appends product unless it is already saved. The bool reports whether
// the wishlist changed.
func (w Wishlist) Add(product Product, at time.Time) (Wishlist, bool) {
	if w.Contains(product.ID) {
		return w, false
	}
	out := make(Wishlist, len(w), len(w)+1)
	copy(out, w)
	return append(out, WishlistItem{Product: product, AddedAt: at}), true
}

// Remove drops productID. The bool reports whether the wishlist changed.
func (w Wishlist) Remove(productID int) (Wishlist, bool) {
	out := make(Wishlist, 0, len(w))
	for _, item := range w {
		if item.Product.ID != productID {
			out = append(out, item)
		}
	}
	return out, len(out) != len(w)
}

// Contains reports whether productID is saved.
func (w Wishlist) Contains(productID int) bool {
	for _, item := range w {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// Count is the number of saved products.
func (w Wishlist) Count() int { return len(w) }
