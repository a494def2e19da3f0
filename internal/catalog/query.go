package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const PageSize = 6

type Sort string

const (
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
	SortTitleAsc  Sort = "title-asc"
	SortTitleDesc Sort = "title-desc"
)

// ParseSort maps unknown values to the default ordering.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortPriceDesc, SortTitleAsc, SortTitleDesc:
		return Sort(s)
	default:
		return SortPriceAsc
	}
}

type Filter struct {
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
}

func (f Filter) matches(p Product) bool {
	if f.Category != "" && f.Category != p.Category {
		return false
	}
	return p.Price.GreaterThanOrEqual(f.MinPrice) && p.Price.LessThanOrEqual(f.MaxPrice)
}

type Query struct {
	Filter   Filter
	Sort     Sort
	Page     int
	PageSize int
}

type View struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	Total      int       `json:"total"`
	Pages      []int     `json:"pages,omitempty"`
}

// DeriveView filters, sorts and paginates in that fixed order. A page past
// the end yields an empty slice, never an error.
func DeriveView(products []Product, q Query) View {
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Filter.matches(p) {
			filtered = append(filtered, p)
		}
	}

	sortProducts(filtered, q.Sort)

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = PageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	totalPages := (len(filtered) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return View{
		Items:      filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      len(filtered),
		Pages:      PageWindow(page, totalPages),
	}
}

func sortProducts(ps []Product, s Sort) {
	var less func(a, b Product) bool
	switch s {
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortTitleAsc:
		c := collate.New(language.English)
		less = func(a, b Product) bool { return c.CompareString(a.Title, b.Title) < 0 }
	case SortTitleDesc:
		c := collate.New(language.English)
		less = func(a, b Product) bool { return c.CompareString(b.Title, a.Title) < 0 }
	default:
		less = func(a, b Product) bool { return a.Price.LessThan(b.Price) }
	}

	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}

// CeilingPrice returns the rounded-up highest product price, used as the
// default upper bound of the price filter. The fallback applies to an empty
// catalog.
func CeilingPrice(products []Product, fallback decimal.Decimal) decimal.Decimal {
	if len(products) == 0 {
		return fallback
	}
	max := products[0].Price
	for _, p := range products[1:] {
		if p.Price.GreaterThan(max) {
			max = p.Price
		}
	}
	return max.Ceil()
}

const maxVisiblePages = 5

// PageWindow returns the page numbers a pagination control should show:
// up to maxVisiblePages, centered on current, clamped to [1, total].
// Nil when there is nothing to page through.
func PageWindow(current, total int) []int {
	if total <= 1 {
		return nil
	}

	start := current - maxVisiblePages/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisiblePages - 1
	if end > total {
		end = total
	}
	if end-start+1 < maxVisiblePages {
		start = end - maxVisiblePages + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
