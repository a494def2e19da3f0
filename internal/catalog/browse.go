package catalog

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Browse is the per-session browsing state: filter, sort and page. Changing
// the filter or the sort resets the page to 1, so a stale page can never
// outlive the view it was computed for.
//
// Until a session picks an explicit price range, the upper bound tracks the
// catalog's live ceiling. A session created before the load joins therefore
// sees the real ceiling once products arrive, not the pre-load default.
type Browse struct {
	mu       sync.Mutex
	state    *State
	category string
	min, max decimal.Decimal
	rangeSet bool
	sort     Sort
	page     int
}

func NewBrowse(state *State) *Browse {
	return &Browse{
		state: state,
		sort:  SortPriceAsc,
		page:  1,
	}
}

// bounds must be called with the lock held.
func (b *Browse) bounds() (decimal.Decimal, decimal.Decimal) {
	if b.rangeSet {
		return b.min, b.max
	}
	return decimal.Zero, b.state.Ceiling()
}

func (b *Browse) SetCategory(category string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.category == category {
		return
	}
	b.category = category
	b.page = 1
}

func (b *Browse) SetPriceRange(min, max decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	curMin, curMax := b.bounds()
	b.min = min
	b.max = max
	b.rangeSet = true
	if curMin.Equal(min) && curMax.Equal(max) {
		return
	}
	b.page = 1
}

func (b *Browse) SetSort(s Sort) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sort == s {
		return
	}
	b.sort = s
	b.page = 1
}

func (b *Browse) SetPage(page int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if page < 1 {
		page = 1
	}
	b.page = page
}

// Reset restores the defaults in one step: no category, price-asc,
// [0, ceiling], page 1.
func (b *Browse) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.category = ""
	b.min = decimal.Zero
	b.max = decimal.Zero
	b.rangeSet = false
	b.sort = SortPriceAsc
	b.page = 1
}

func (b *Browse) Query() Query {
	b.mu.Lock()
	defer b.mu.Unlock()

	min, max := b.bounds()
	return Query{
		Filter: Filter{
			Category: b.category,
			MinPrice: min,
			MaxPrice: max,
		},
		Sort:     b.sort,
		Page:     b.page,
		PageSize: PageSize,
	}
}
