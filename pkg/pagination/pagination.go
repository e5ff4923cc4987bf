package pagination

import (
	"net/http"
	"strconv"
)

// Limits for the per_page query parameter.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params selects one page of a listing. Page is 1-based.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// DefaultParams returns the first page with the default page size.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: DefaultPerPage}
}

// Offset is the index of the page's first item.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// normalize replaces values a caller could not have meant with defaults.
func (p Params) normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 || p.PerPage > MaxPerPage {
		p.PerPage = DefaultPerPage
	}
	return p
}

// FromRequest reads ?page= and ?per_page=. Listings are browsed by shoppers
// following links, so malformed values fall back to defaults rather than
// failing the request.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	p := Params{Page: atoi(q.Get("page")), PerPage: atoi(q.Get("per_page"))}
	return p.normalize()
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// Result is one page of a listing plus the navigation metadata a product
// grid needs.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate copies the requested page out of items. Pages past the end yield
// an empty, non-nil Data slice.
func Paginate[T any](items []T, params Params) Result[T] {
	params = params.normalize()
	total := len(items)
	start := min(params.Offset(), total)
	end := min(start+params.PerPage, total)

	pages := (total + params.PerPage - 1) / params.PerPage
	return Result[T]{
		Data:       append(make([]T, 0, end-start), items[start:end]...),
		TotalCount: total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: pages,
		HasNext:    params.Page < pages,
		HasPrev:    params.Page > 1,
	}
}

// Convert keeps r's navigation metadata around data, typically r.Data
// rendered into view models.
func Convert[T, U any](r Result[T], data []U) Result[U] {
	if data == nil {
		data = []U{}
	}
	return Result[U]{
		Data:       data,
		TotalCount: r.TotalCount,
		Page:       r.Page,
		PerPage:    r.PerPage,
		TotalPages: r.TotalPages,
		HasNext:    r.HasNext,
		HasPrev:    r.HasPrev,
	}
}
