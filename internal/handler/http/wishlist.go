package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhasan0505/sanslibyzebin/internal/catalog"
	"github.com/mhasan0505/sanslibyzebin/internal/wishlist"
	"github.com/mhasan0505/sanslibyzebin/pkg/httputil"
)

// WishlistHandler handles HTTP requests for wishlist endpoints. Routes must
// be mounted behind wishlist.Middleware.
type WishlistHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(c *catalog.Catalog, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{catalog: c, logger: logger}
}

type membershipResponse struct {
	ProductID  int  `json:"product_id"`
	InWishlist bool `json:"in_wishlist"`
	Count      int  `json:"count"`
}

// List handles GET /api/v1/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	wl := wishlist.FromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: wishlistView(r.Context(), h.catalog.Formatter(), wl.Items()),
	})
}

// Clear handles DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	wl := wishlist.FromContext(r.Context())
	if err := wl.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: wishlistView(r.Context(), h.catalog.Formatter(), wl.Items()),
	})
}

// Add handles POST /api/v1/wishlist/{productId}. Adding a saved product
// succeeds with 200; a new one is 201.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	product, err := h.catalog.ByID(id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	wl := wishlist.FromContext(r.Context())
	added, err := wl.Add(r.Context(), product)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, httputil.Response{
		Data: membershipResponse{ProductID: id, InWishlist: true, Count: wl.Count()},
	})
}

// Remove handles DELETE /api/v1/wishlist/{productId}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	wl := wishlist.FromContext(r.Context())
	if _, err := wl.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: membershipResponse{ProductID: id, InWishlist: false, Count: wl.Count()},
	})
}

// Toggle handles POST /api/v1/wishlist/{productId}/toggle, the heart button
// on the product page.
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	product, err := h.catalog.ByID(id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	wl := wishlist.FromContext(r.Context())
	saved, err := wl.Toggle(r.Context(), product)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: membershipResponse{ProductID: id, InWishlist: saved, Count: wl.Count()},
	})
}

// Contains handles GET /api/v1/wishlist/{productId}
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	wl := wishlist.FromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: membershipResponse{ProductID: id, InWishlist: wl.Contains(id), Count: wl.Count()},
	})
}
