package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhasan0505/sanslibyzebin/internal/cart"
	"github.com/mhasan0505/sanslibyzebin/internal/catalog"
	"github.com/mhasan0505/sanslibyzebin/pkg/httputil"
	"github.com/mhasan0505/sanslibyzebin/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints. Every handler reads
// the session's cart from the request context, so the routes must be
// mounted behind cart.Middleware.
type CartHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(c *catalog.Catalog, logger *slog.Logger) *CartHandler {
	return &CartHandler{catalog: c, logger: logger}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID int    `json:"product_id" validate:"required,gt=0"`
	Size      string `json:"size" validate:"max=32"`
	Color     string `json:"color" validate:"max=64"`
}

// UpdateQuantityRequest is the JSON request body for updating a quantity.
// Zero or a negative quantity removes the product.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, http.StatusOK)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := cart.FromContext(r.Context()).Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeCart(w, r, http.StatusOK)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.ByID(req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := cart.FromContext(r.Context()).Add(r.Context(), product, req.Size, req.Color); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeCart(w, r, http.StatusCreated)
}

// UpdateItem handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := cart.FromContext(r.Context()).UpdateQuantity(r.Context(), id, *req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeCart(w, r, http.StatusOK)
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}?size=&color=
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	q := r.URL.Query()
	if err := cart.FromContext(r.Context()).Remove(r.Context(), id, q.Get("size"), q.Get("color")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeCart(w, r, http.StatusOK)
}

func (h *CartHandler) writeCart(w http.ResponseWriter, r *http.Request, status int) {
	s := cart.FromContext(r.Context()).Summary(r.Context())
	httputil.WriteJSON(w, status, httputil.Response{
		Data: cartView(r.Context(), h.catalog.Formatter(), s),
	})
}
