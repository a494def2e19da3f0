package catalog

import (
	"sync"

	"github.com/shopspring/decimal"
)

// State holds the loaded catalog. Products and categories are set once after
// the initial load and read-only afterwards.
type State struct {
	mu         sync.RWMutex
	products   []Product
	categories []string
	ceiling    decimal.Decimal
	loaded     bool
}

func NewState(defaultCeiling decimal.Decimal) *State {
	return &State{ceiling: defaultCeiling}
}

func (s *State) SetCatalog(products []Product, categories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return
	}
	s.products = products
	s.categories = categories
	s.loaded = true

	if len(products) > 0 {
		s.ceiling = CeilingPrice(products, s.ceiling)
	}
}

func (s *State) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *State) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *State) Product(id int) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s *State) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *State) Ceiling() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ceiling
}

// View derives the current page for the given browse state.
func (s *State) View(b *Browse) View {
	s.mu.RLock()
	products := s.products
	s.mu.RUnlock()

	return DeriveView(products, b.Query())
}
