package http

import (
	"context"
	"time"

	"github.com/mhasan0505/sanslibyzebin/internal/cart"
	"github.com/mhasan0505/sanslibyzebin/internal/catalog"
	"github.com/mhasan0505/sanslibyzebin/internal/domain"
)

// summaryLength caps the description excerpt shown on product cards.
const summaryLength = 100

// ProductView is a product as the storefront renders it.
type ProductView struct {
	domain.Product
	FormattedPrice string `json:"formatted_price"`
	Image          string `json:"image"`
	Summary        string `json:"summary"`
}

func productView(ctx context.Context, f *catalog.Formatter, p domain.Product) ProductView {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	return ProductView{
		Product:        p,
		FormattedPrice: f.Format(catalog.ParsePriceSafe(ctx, p.Price, 0)),
		Image:          catalog.ImageURL(image),
		Summary:        catalog.TruncateText(p.Description, summaryLength),
	}
}

func productViews(ctx context.Context, f *catalog.Formatter, products []domain.Product) []ProductView {
	out := make([]ProductView, len(products))
	for i, p := range products {
		out[i] = productView(ctx, f, p)
	}
	return out
}

// CartLineView is one cart line with its line total.
type CartLineView struct {
	Product        ProductView `json:"product"`
	Quantity       int         `json:"quantity"`
	SelectedSize   string      `json:"selected_size,omitempty"`
	SelectedColor  string      `json:"selected_color,omitempty"`
	LineTotal      int64       `json:"line_total"`
	FormattedTotal string      `json:"formatted_line_total"`
}

// CartView is the cart drawer payload.
type CartView struct {
	Items          []CartLineView `json:"items"`
	Count          int            `json:"count"`
	Total          int64          `json:"total"`
	FormattedTotal string         `json:"formatted_total"`
	Currency       string         `json:"currency"`
	UnpricedLines  int            `json:"unpriced_lines,omitempty"`
}

func cartView(ctx context.Context, f *catalog.Formatter, s cart.Summary) CartView {
	lines := make([]CartLineView, len(s.Items))
	for i, item := range s.Items {
		pv := productView(ctx, f, item.Product)
		unit, err := catalog.ParsePriceStrict(item.Product.Price)
		if err != nil {
			unit = 0
		}
		total := unit * int64(item.Quantity)
		lines[i] = CartLineView{
			Product:        pv,
			Quantity:       item.Quantity,
			SelectedSize:   item.SelectedSize,
			SelectedColor:  item.SelectedColor,
			LineTotal:      total,
			FormattedTotal: f.Format(total),
		}
	}
	return CartView{
		Items:          lines,
		Count:          s.Count,
		Total:          s.Total,
		FormattedTotal: f.Format(s.Total),
		Currency:       catalog.CurrencyCode,
		UnpricedLines:  s.UnpricedLines,
	}
}

// WishlistItemView is one saved product.
type WishlistItemView struct {
	Product ProductView `json:"product"`
	AddedAt time.Time   `json:"added_at"`
}

// WishlistView is the wishlist page payload.
type WishlistView struct {
	Items []WishlistItemView `json:"items"`
	Count int                `json:"count"`
}

func wishlistView(ctx context.Context, f *catalog.Formatter, items domain.Wishlist) WishlistView {
	out := make([]WishlistItemView, len(items))
	for i, item := range items {
		out[i] = WishlistItemView{Product: productView(ctx, f, item.Product), AddedAt: item.AddedAt}
	}
	return WishlistView{Items: out, Count: len(out)}
}
