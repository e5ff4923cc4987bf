// Package event publishes storefront domain events. Cart and wishlist
// mutations announce their new state so downstream consumers (analytics,
// abandoned-cart mail) can follow along without touching the session store.
package event

import (
	"context"

	"github.com/mhasan0505/sanslibyzebin/internal/domain"
)

// Event types.
const (
	TypeCartUpdated     = "cart.updated"
	TypeCartCleared     = "cart.cleared"
	TypeWishlistUpdated = "wishlist.updated"
)

// Aggregate types, also used as the topic segment.
const (
	AggregateCart     = "cart"
	AggregateWishlist = "wishlist"
)

// Source identifies this service in the event envelope.
const Source = "storefront"

// Publisher announces state changes. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishCartUpdated(ctx context.Context, sessionID string, cart domain.Cart, total int64) error
	PublishCartCleared(ctx context.Context, sessionID string) error
	PublishWishlistUpdated(ctx context.Context, sessionID string, wishlist domain.Wishlist) error
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID   string         `json:"session_id"`
	Items       []CartItemData `json:"items"`
	ItemCount   int            `json:"item_count"`
	TotalAmount int64          `json:"total_amount"`
	Currency    string         `json:"currency"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	SessionID  string `json:"session_id"`
	ProductIDs []int  `json:"product_ids"`
	Count      int    `json:"count"`
}

// Noop drops every event. It is used when Kafka is disabled.
type Noop struct{}

func (Noop) PublishCartUpdated(context.Context, string, domain.Cart, int64) error { return nil }
func (Noop) PublishCartCleared(context.Context, string) error                     { return nil }
func (Noop) PublishWishlistUpdated(context.Context, string, domain.Wishlist) error {
	return nil
}
