package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhasan0505/sanslibyzebin/internal/cart"
	"github.com/mhasan0505/sanslibyzebin/internal/catalog"
	"github.com/mhasan0505/sanslibyzebin/internal/fixture"
	"github.com/mhasan0505/sanslibyzebin/internal/store/memory"
	"github.com/mhasan0505/sanslibyzebin/internal/wishlist"
	"github.com/mhasan0505/sanslibyzebin/pkg/health"
	"github.com/mhasan0505/sanslibyzebin/pkg/middleware"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testServer struct {
	handler http.Handler
	session string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	products, err := fixture.Default()
	require.NoError(t, err)

	logger := testLogger()
	st := memory.New()
	deps := Dependencies{
		Catalog:   catalog.New(products, catalog.WithFormatter(catalog.MustFormatter("bn-BD", catalog.CurrencySymbol))),
		Carts:     cart.NewProvider(st, nil, logger),
		Wishlists: wishlist.NewProvider(st, nil, logger),
		Health:    health.NewHandler(),
		Logger:    logger,
	}
	cfg := RouterConfig{
		ServiceName:   "storefront-test",
		CatalogMaxAge: time.Minute,
		CORS:          middleware.DefaultCORSConfig(),
	}
	return &testServer{handler: NewRouter(cfg, deps), session: uuid.NewString()}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.SessionHeader, s.session)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code     string            `json:"code"`
		Message  string            `json:"message"`
		Fields   map[string]string `json:"fields"`
		Redirect string            `json:"redirect"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Nil(t, env.Error, rec.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.NotNil(t, env.Error, rec.Body.String())
	return env
}

func ids(views []ProductView) []int {
	out := make([]int, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

type listResult struct {
	Data       []ProductView `json:"data"`
	TotalCount int           `json:"total_count"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// ============================================================================
// Catalog
// ============================================================================

func TestListProducts_DefaultsToNewest(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/products", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
	res := decode[listResult](t, rec)
	assert.Equal(t, []int{4, 3, 2, 1}, ids(res.Data))
	assert.Equal(t, 4, res.TotalCount)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, "৳ 1,85,000", res.Data[0].FormattedPrice)
}

func TestListProducts_Filters(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		query string
		want  []int
	}{
		{"sort_by=price-asc", []int{4, 2, 3, 1}},
		{"sort_by=price-desc", []int{1, 3, 2, 4}},
		{"sort_by=name", []int{3, 4, 2, 1}},
		{"search=blue", []int{4, 2}},
		{"category=Sarees", []int{2}},
		{"category=All", []int{4, 3, 2, 1}},
		{"min_price=200000&max_price=400000", []int{3, 2}},
		{"in_stock=false", []int{}},
		{"per_page=2&page=2", []int{2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/products?"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, ids(decode[listResult](t, rec).Data))
		})
	}
}

func TestListProducts_BadParameters(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/products?sort_by=popular", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Error.Code)

	for _, q := range []string{"min_price=cheap", "max_price=1.5", "in_stock=maybe"} {
		rec := s.do(t, http.MethodGet, "/api/v1/products?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rec).Error.Code, q)
	}
}

func TestFeatured(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/products/featured", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1, 3}, ids(decode[[]ProductView](t, rec)))
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decode[productDetail](t, rec)
	assert.Equal(t, "Sunshine Yellow Set", detail.Product.Name)
	assert.Equal(t, "৳ 4,50,000", detail.Product.FormattedPrice)
	assert.Equal(t, "/image01_yellow.png", detail.Product.Image)
	assert.LessOrEqual(t, len([]rune(detail.Product.Summary)), summaryLength+3)
	assert.Equal(t, []string{"S", "M", "L", "XL"}, detail.Product.Sizes)
	assert.Empty(t, detail.Related)
}

func TestGetProduct_NotFoundRedirectsToCollections(t *testing.T) {
	s := newTestServer(t)

	for _, id := range []string{"99", "0", "-3", "abc"} {
		t.Run(id, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/products/"+id, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			env := decodeError(t, rec)
			assert.Equal(t, "NOT_FOUND", env.Error.Code)
			assert.Equal(t, "/collections", env.Error.Redirect)
		})
	}
}

func TestCart_InvalidProductID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodDelete, "/api/v1/cart/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "INVALID_PARAMETER", env.Error.Code)
	assert.Empty(t, env.Error.Redirect)
}

func TestCategories(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[categoriesResponse](t, rec)
	assert.Equal(t, catalog.DefaultCategories, res.Categories)
	assert.Len(t, res.SortOptions, 4)
	assert.Equal(t, catalog.SortNewest, res.SortOptions[0].Value)
}

func TestCollection(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/collections/gowns", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	col := decode[collectionResponse](t, rec)
	assert.Equal(t, "Gowns", col.Title)
	assert.Equal(t, []int{4}, ids(col.Products))
	assert.Equal(t, 1, col.Count)

	rec = s.do(t, http.MethodGet, "/api/v1/collections/new-arrivals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	col = decode[collectionResponse](t, rec)
	assert.Equal(t, "New Arrivals", col.Title)
	assert.Equal(t, []int{4, 3, 2, 1}, ids(col.Products))

	rec = s.do(t, http.MethodGet, "/api/v1/collections/kurtis", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[collectionResponse](t, rec).Products)
}

func TestSearch(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/search?q=golden", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[searchResponse](t, rec)
	assert.Equal(t, "golden", res.Query)
	assert.Equal(t, []int{3}, ids(res.Results))

	rec = s.do(t, http.MethodGet, "/api/v1/search", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decode[searchResponse](t, rec).Count)
}

// ============================================================================
// Cart
// ============================================================================

func TestCart_Flow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "private, no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, 0, decode[CartView](t, rec).Count)

	add := AddItemRequest{ProductID: 1, Size: "M", Color: "Yellow"}
	rec = s.do(t, http.MethodPost, "/api/v1/cart/items", add)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/cart/items", add)
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decode[CartView](t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, int64(900000), view.Total)
	assert.Equal(t, "৳ 9,00,000", view.FormattedTotal)
	assert.Equal(t, "BDT", view.Currency)
	assert.Equal(t, int64(900000), view.Items[0].LineTotal)

	rec = s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: 4})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/cart/items/1", map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[CartView](t, rec)
	assert.Equal(t, 6, view.Count)
	assert.Equal(t, int64(5*450000+185000), view.Total)

	rec = s.do(t, http.MethodDelete, "/api/v1/cart/items/1?size=M&color=Yellow", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[CartView](t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Product.ID)

	rec = s.do(t, http.MethodPut, "/api/v1/cart/items/4", map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[CartView](t, rec).Items)
}

func TestCart_Clear(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: 2, Size: "One Size"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[CartView](t, rec).Count)
}

func TestCart_AddErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"missing product", map[string]string{}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown product", AddItemRequest{ProductID: 42}, http.StatusNotFound, "NOT_FOUND"},
		{"unknown size", AddItemRequest{ProductID: 1, Size: "XXS"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown color", AddItemRequest{ProductID: 1, Color: "Green"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"misspelled field", map[string]int{"product_id": 1, "quantiy": 2}, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/cart/items", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Error.Code)
		})
	}
}

func TestCart_UpdateRequiresQuantity(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/v1/cart/items/1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "is required", env.Error.Fields["quantity"])
}

func TestCart_UpdateOverwritesLargeQuantity(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/cart/items/3", map[string]int{"quantity": 150})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 150, decode[CartView](t, rec).Count)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	other := &testServer{handler: s.handler, session: uuid.NewString()}
	rec = other.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[CartView](t, rec).Count)

	rec = s.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, 1, decode[CartView](t, rec).Count)
}

func TestCart_NewSessionIsIssued(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	sid := rec.Header().Get(middleware.SessionHeader)
	_, err := uuid.Parse(sid)
	assert.NoError(t, err)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			found = true
			assert.Equal(t, sid, c.Value)
		}
	}
	assert.True(t, found)
}

func TestCart_RejectsNonJSONBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("product_id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// ============================================================================
// Wishlist
// ============================================================================

func TestWishlist_Flow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/wishlist/2", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/wishlist/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[membershipResponse](t, rec).Count)

	rec = s.do(t, http.MethodGet, "/api/v1/wishlist/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[membershipResponse](t, rec).InWishlist)

	rec = s.do(t, http.MethodGet, "/api/v1/wishlist/3", nil)
	assert.False(t, decode[membershipResponse](t, rec).InWishlist)

	rec = s.do(t, http.MethodGet, "/api/v1/wishlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[WishlistView](t, rec)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "৳ 2,80,000", list.Items[0].Product.FormattedPrice)
	assert.False(t, list.Items[0].AddedAt.IsZero())

	rec = s.do(t, http.MethodDelete, "/api/v1/wishlist/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[membershipResponse](t, rec).Count)
}

func TestWishlist_Toggle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/wishlist/1/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[membershipResponse](t, rec).InWishlist)

	rec = s.do(t, http.MethodPost, "/api/v1/wishlist/1/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[membershipResponse](t, rec).InWishlist)
}

func TestWishlist_ClearAndErrors(t *testing.T) {
	s := newTestServer(t)

	for _, id := range []int{1, 3} {
		rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/wishlist/%d", id), nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodDelete, "/api/v1/wishlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[WishlistView](t, rec).Count)

	rec = s.do(t, http.MethodPost, "/api/v1/wishlist/77", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/wishlist/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// Newsletter and ambient routes
// ============================================================================

func TestNewsletter(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/newsletter", SubscribeRequest{Email: "shopper@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[subscribeResponse](t, rec)
	assert.True(t, res.Subscribed)
	assert.Equal(t, MsgSubscribed, res.Message)

	for _, email := range []string{"", "not-an-email", "a@"} {
		rec := s.do(t, http.MethodPost, "/api/v1/newsletter", SubscribeRequest{Email: email})
		assert.Equal(t, http.StatusBadRequest, rec.Code, email)
		env := decodeError(t, rec)
		assert.Equal(t, "INVALID_EMAIL", env.Error.Code)
		assert.Equal(t, MsgInvalidEmail, env.Error.Message)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestPprof_DeniedForRemoteClients(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
