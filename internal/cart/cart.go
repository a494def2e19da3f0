package cart

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"cartsavvy/internal/catalog"
)

type LineItem struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Store owns one session's cart: an insertion-ordered list of line items
// with at most one line per product id, and the slide-over visibility flag.
// Totals are derived on every read, never cached.
type Store struct {
	mu       sync.Mutex
	items    []LineItem
	open     bool
	notifier Notifier
}

// New panics on a nil notifier: a store must be fully provisioned before
// any mutation runs.
func New(n Notifier) *Store {
	if n == nil {
		panic("cart: nil notifier")
	}
	return &Store{notifier: n}
}

// Add increments the quantity of an existing line item or appends a new one
// with quantity 1. The cart opens unconditionally.
func (s *Store) Add(p catalog.Product) {
	s.mu.Lock()

	var n Notification
	if i := s.index(p.ID); i >= 0 {
		s.items[i].Quantity++
		n = Notification{
			Title:       "Updated cart",
			Description: fmt.Sprintf("Increased %s quantity to %d", truncate(p.Title, updateTitleBudget), s.items[i].Quantity),
		}
	} else {
		s.items = append(s.items, LineItem{Product: p, Quantity: 1})
		n = Notification{
			Title:       "Added to cart",
			Description: truncate(p.Title, addTitleBudget) + " added to your cart",
		}
	}
	s.open = true

	s.mu.Unlock()
	s.notifier.Notify(n)
}

// Remove deletes the line item with the given product id. Unknown ids are a
// silent no-op; a notification fires only when something was removed.
func (s *Store) Remove(productID int) {
	s.mu.Lock()

	i := s.index(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	title := s.items[i].Title
	s.items = append(s.items[:i], s.items[i+1:]...)

	s.mu.Unlock()
	s.notifier.Notify(Notification{
		Title:       "Removed from cart",
		Description: truncate(title, addTitleBudget) + " removed from your cart",
	})
}

// UpdateQuantity sets the quantity directly. Zero or less removes the line
// item; that is the only path to quantity zero.
func (s *Store) UpdateQuantity(productID, quantity int) {
	if quantity <= 0 {
		s.Remove(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(productID); i >= 0 {
		s.items[i].Quantity = quantity
	}
}

// Clear empties the cart and always notifies, even when it already was empty.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.notifier.Notify(Notification{
		Title:       "Cart cleared",
		Description: "All items have been removed from your cart",
	})
}

func (s *Store) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
}

func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// index must be called with the lock held.
func (s *Store) index(productID int) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}
