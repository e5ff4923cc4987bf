package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mhasan0505/sanslibyzebin/internal/catalog"
	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
	"github.com/mhasan0505/sanslibyzebin/pkg/httputil"
	"github.com/mhasan0505/sanslibyzebin/pkg/pagination"
)

// collectionsPath is where a shopper is sent when a product does not exist.
const collectionsPath = "/collections"

// CatalogHandler serves the read-only catalog endpoints.
type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(c *catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, logger: logger}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortBy, err := catalog.ParseSortKey(q.Get("sort_by"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	f := catalog.Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		SortBy:   sortBy,
		Page:     pagination.FromRequest(r),
	}
	if f.MinPrice, err = optionalInt(q.Get("min_price")); err != nil {
		httputil.WriteAppError(w, r, apperrors.InvalidParameter("min_price", q.Get("min_price"), "an integer"))
		return
	}
	if f.MaxPrice, err = optionalInt(q.Get("max_price")); err != nil {
		httputil.WriteAppError(w, r, apperrors.InvalidParameter("max_price", q.Get("max_price"), "an integer"))
		return
	}
	if v := q.Get("in_stock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteAppError(w, r, apperrors.InvalidParameter("in_stock", v, "a boolean"))
			return
		}
		f.InStock = &b
	}

	page := h.catalog.Query(f)
	result := pagination.Convert(page, productViews(r.Context(), h.catalog.Formatter(), page.Data))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Featured handles GET /api/v1/products/featured
func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Featured()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: productViews(r.Context(), h.catalog.Formatter(), products),
	})
}

// productDetail is the product page payload.
type productDetail struct {
	Product ProductView   `json:"product"`
	Related []ProductView `json:"related"`
}

// GetProduct handles GET /api/v1/products/{id}. An id that matches no
// product, well-formed or not, is a 404 pointing back to the collections.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "id")
	id, err := strconv.Atoi(param)
	if err != nil || id < 1 {
		httputil.WriteErrorWithRedirect(w, r, apperrors.NotFound("product", param), h.logger, collectionsPath)
		return
	}

	p, err := h.catalog.ByID(id)
	if err != nil {
		httputil.WriteErrorWithRedirect(w, r, err, h.logger, collectionsPath)
		return
	}

	f := h.catalog.Formatter()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: productDetail{
		Product: productView(r.Context(), f, p),
		Related: productViews(r.Context(), f, h.catalog.Related(p, catalog.DefaultRelatedLimit)),
	}})
}

type categoriesResponse struct {
	Categories  []string             `json:"categories"`
	SortOptions []catalog.SortOption `json:"sort_options"`
}

// Categories handles GET /api/v1/categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categoriesResponse{
		Categories:  h.catalog.Categories(),
		SortOptions: catalog.SortOptions,
	}})
}

type collectionResponse struct {
	Slug     string        `json:"slug"`
	Title    string        `json:"title"`
	Products []ProductView `json:"products"`
	Count    int           `json:"count"`
}

// Collection handles GET /api/v1/collections/{slug}
func (h *CatalogHandler) Collection(w http.ResponseWriter, r *http.Request) {
	col, err := h.catalog.Collection(chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: collectionResponse{
		Slug:     col.Slug,
		Title:    col.Title,
		Products: productViews(r.Context(), h.catalog.Formatter(), col.Products),
		Count:    len(col.Products),
	}})
}

type searchResponse struct {
	Query   string        `json:"query"`
	Results []ProductView `json:"results"`
	Count   int           `json:"count"`
}

// Search handles GET /api/v1/search. An empty query lists every product.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results := catalog.Search(h.catalog.All(), q)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: searchResponse{
		Query:   q,
		Results: productViews(r.Context(), h.catalog.Formatter(), results),
		Count:   len(results),
	}})
}

func optionalInt(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
