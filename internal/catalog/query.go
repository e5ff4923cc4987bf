package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mhasan0505/sanslibyzebin/internal/domain"
	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
)

// AllCategories is the category sentinel that disables filtering.
const AllCategories = "All"

// SortKey selects one of the catalog orderings.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// SortOption is a labelled sort key for listing pages.
type SortOption struct {
	Label string  `json:"label"`
	Value SortKey `json:"value"`
}

// SortOptions lists the orderings in the order the storefront offers them.
var SortOptions = []SortOption{
	{Label: "Newest First", Value: SortNewest},
	{Label: "Name (A-Z)", Value: SortName},
	{Label: "Price (Low to High)", Value: SortPriceAsc},
	{Label: "Price (High to Low)", Value: SortPriceDesc},
}

// ParseSortKey validates s. An empty string selects SortNewest.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNewest, nil
	}
	for _, o := range SortOptions {
		if string(o.Value) == s {
			return o.Value, nil
		}
	}
	return "", apperrors.InvalidInput(fmt.Sprintf("unknown sort_by %q", s))
}

// Search returns the products whose name, description or category contains
// query, ignoring case. A blank query returns products unchanged.
func Search(products []domain.Product, query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByCategory keeps products whose category equals category exactly.
// AllCategories returns products unchanged.
func FilterByCategory(products []domain.Product, category string) []domain.Product {
	if category == AllCategories {
		return products
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy of products using English collation for names.
func Sort(products []domain.Product, key SortKey) []domain.Product {
	return SortLocale(products, key, language.English)
}

// SortLocale returns a sorted copy of products. Names are compared with the
// collation rules of tag. Prices that do not parse sort as zero. The sort is
// stable; an unknown key returns the copy in input order.
func SortLocale(products []domain.Product, key SortKey, tag language.Tag) []domain.Product {
	out := slices.Clone(products)
	if out == nil {
		out = []domain.Product{}
	}

	switch key {
	case SortName:
		col := collate.New(tag)
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(sortPrice(a), sortPrice(b))
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(sortPrice(b), sortPrice(a))
		})
	case SortNewest:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(b.ID, a.ID)
		})
	}
	return out
}

func sortPrice(p domain.Product) int64 {
	v, err := ParsePriceStrict(p.Price)
	if err != nil {
		return 0
	}
	return v
}
