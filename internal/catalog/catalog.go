// Package catalog holds the read side of the storefront: price parsing and
// formatting, search, category filtering, sorting and the lookups the
// listing and product pages need.
package catalog

import (
	"slices"
	"strconv"
	"strings"

	"github.com/mhasan0505/sanslibyzebin/internal/domain"
	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
	"github.com/mhasan0505/sanslibyzebin/pkg/pagination"
	"github.com/mhasan0505/sanslibyzebin/pkg/slug"
)

// NewArrivalsSlug is the collection that lists every product, newest first.
const NewArrivalsSlug = "new-arrivals"

// DefaultRelatedLimit caps the "you may also like" list.
const DefaultRelatedLimit = 3

// DefaultCategories is the navigation category list, led by AllCategories.
var DefaultCategories = []string{
	AllCategories,
	"Salwar Kameez",
	"Sarees",
	"Kurtis",
	"Gowns",
	"Modest Wear",
}

// Catalog is an immutable read model over the loaded products. It is safe
// for concurrent use.
type Catalog struct {
	products   []domain.Product
	byID       map[int]int
	categories []string
	formatter  *Formatter
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithFormatter sets the currency formatter; its locale also drives name
// collation.
func WithFormatter(f *Formatter) Option {
	return func(c *Catalog) { c.formatter = f }
}

// WithCategories overrides the navigation category list.
func WithCategories(categories []string) Option {
	return func(c *Catalog) { c.categories = slices.Clone(categories) }
}

// New builds a catalog. products must already be validated; see the fixture
// package.
func New(products []domain.Product, opts ...Option) *Catalog {
	c := &Catalog{
		products:   slices.Clone(products),
		byID:       make(map[int]int, len(products)),
		categories: slices.Clone(DefaultCategories),
		formatter:  defaultFormatter,
	}
	for _, opt := range opts {
		opt(c)
	}
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// Formatter returns the catalog's currency formatter.
func (c *Catalog) Formatter() *Formatter { return c.formatter }

// All returns every product in fixture order.
func (c *Catalog) All() []domain.Product {
	return slices.Clone(c.products)
}

// ByID returns the product with id or a NotFound error.
func (c *Catalog) ByID(id int) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", strconv.Itoa(id))
	}
	return c.products[i], nil
}

// Featured returns the products flagged for the home page.
func (c *Catalog) Featured() []domain.Product {
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the navigation categories.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// Related returns up to limit other products from product's category.
// A limit below one selects DefaultRelatedLimit.
func (c *Catalog) Related(product domain.Product, limit int) []domain.Product {
	if limit < 1 {
		limit = DefaultRelatedLimit
	}
	out := make([]domain.Product, 0, limit)
	for _, p := range c.products {
		if len(out) == limit {
			break
		}
		if p.Category == product.Category && p.ID != product.ID {
			out = append(out, p)
		}
	}
	return out
}

// Collection is a category landing page.
type Collection struct {
	Slug     string           `json:"slug"`
	Title    string           `json:"title"`
	Products []domain.Product `json:"products"`
}

// Collection resolves a category slug such as "salwar-kameez". A product
// belongs when its lower-cased category contains the humanized slug.
// NewArrivalsSlug returns every product, newest first.
func (c *Catalog) Collection(s string) (Collection, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	name := slug.Humanize(s)
	if name == "" {
		return Collection{}, apperrors.InvalidInput("collection slug is required")
	}

	col := Collection{Slug: s, Title: slug.Title(s)}
	if s == NewArrivalsSlug {
		col.Products = SortLocale(c.products, SortNewest, c.formatter.Tag())
		return col, nil
	}

	col.Products = make([]domain.Product, 0)
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Category), name) {
			col.Products = append(col.Products, p)
		}
	}
	return col, nil
}

// Filter narrows a listing. Zero values disable each criterion.
type Filter struct {
	Search   string
	Category string
	SortBy   SortKey
	MinPrice *int64
	MaxPrice *int64
	InStock  *bool
	Page     pagination.Params
}

// Query applies search, category, price and stock filters, sorts, and
// returns the requested page.
func (c *Catalog) Query(f Filter) pagination.Result[domain.Product] {
	items := Search(c.products, f.Search)
	if f.Category != "" {
		items = FilterByCategory(items, f.Category)
	}
	if f.MinPrice != nil || f.MaxPrice != nil || f.InStock != nil {
		items = filterAttributes(items, f)
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = SortNewest
	}
	items = SortLocale(items, sortBy, c.formatter.Tag())

	return pagination.Paginate(items, f.Page)
}

func filterAttributes(products []domain.Product, f Filter) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.InStock != nil && p.InStock != *f.InStock {
			continue
		}
		if f.MinPrice != nil || f.MaxPrice != nil {
			price, err := ParsePriceStrict(p.Price)
			if err != nil {
				continue
			}
			if f.MinPrice != nil && price < *f.MinPrice {
				continue
			}
			if f.MaxPrice != nil && price > *f.MaxPrice {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
