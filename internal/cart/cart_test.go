package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"cartsavvy/internal/cart"
	"cartsavvy/internal/catalog"
)

type recorder struct {
	got []cart.Notification
}

func (r *recorder) Notify(n cart.Notification) { r.got = append(r.got, n) }

func (r *recorder) last(t *testing.T) cart.Notification {
	t.Helper()
	if len(r.got) == 0 {
		t.Fatal("no notifications emitted")
	}
	return r.got[len(r.got)-1]
}

func product(id int, title, price string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Category: "electronics",
	}
}

func newStore(t *testing.T) (*cart.Store, *recorder) {
	t.Helper()
	r := &recorder{}
	return cart.New(r), r
}

func TestNew_NilNotifierPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil notifier")
		}
	}()
	cart.New(nil)
}

func TestAdd_SameProductAccumulates(t *testing.T) {
	s, _ := newStore(t)
	p := product(1, "Keyboard", "49.90")

	for i := 0; i < 5; i++ {
		s.Add(p)
	}

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("want 1 line item, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("want quantity 5, got %d", items[0].Quantity)
	}
	if s.TotalItems() != 5 {
		t.Fatalf("want total items 5, got %d", s.TotalItems())
	}
}

func TestAdd_OpensCart(t *testing.T) {
	s, _ := newStore(t)

	s.Close()
	s.Add(product(1, "Keyboard", "49.90"))

	if !s.IsOpen() {
		t.Fatal("cart should open on add")
	}
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	s, _ := newStore(t)

	s.Add(product(3, "Monitor", "199.00"))
	s.Add(product(1, "Keyboard", "49.90"))
	s.Add(product(3, "Monitor", "199.00"))
	s.Add(product(2, "Mouse", "19.90"))

	items := s.Items()
	want := []int{3, 1, 2}
	if len(items) != len(want) {
		t.Fatalf("want %d items, got %d", len(want), len(items))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("item %d: want id %d, got %d", i, id, items[i].ID)
		}
	}
}

func TestAdd_NotificationText(t *testing.T) {
	s, r := newStore(t)
	title := "Mens Casual Premium Slim Fit T-Shirts"
	p := product(1, title, "22.30")

	s.Add(p)

	n := r.last(t)
	if n.Title != "Added to cart" {
		t.Fatalf("want title %q, got %q", "Added to cart", n.Title)
	}
	wantDesc := string([]rune(title)[:25]) + "... added to your cart"
	if n.Description != wantDesc {
		t.Fatalf("want description %q, got %q", wantDesc, n.Description)
	}

	s.Add(p)

	n = r.last(t)
	if n.Title != "Updated cart" {
		t.Fatalf("want title %q, got %q", "Updated cart", n.Title)
	}
	wantDesc = "Increased " + string([]rune(title)[:20]) + "... quantity to 2"
	if n.Description != wantDesc {
		t.Fatalf("want description %q, got %q", wantDesc, n.Description)
	}
}

func TestAdd_ShortTitleStillGetsEllipsis(t *testing.T) {
	s, r := newStore(t)

	s.Add(product(1, "Mouse", "19.90"))

	want := "Mouse... added to your cart"
	if got := r.last(t).Description; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRemove(t *testing.T) {
	s, r := newStore(t)
	s.Add(product(1, "Keyboard", "49.90"))
	s.Add(product(2, "Mouse", "19.90"))

	s.Remove(1)

	items := s.Items()
	if len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("unexpected items after remove: %+v", items)
	}
	n := r.last(t)
	if n.Title != "Removed from cart" {
		t.Fatalf("want removal notification, got %+v", n)
	}
	if want := "Keyboard... removed from your cart"; n.Description != want {
		t.Fatalf("want %q, got %q", want, n.Description)
	}
}

func TestRemove_UnknownIDIsSilent(t *testing.T) {
	s, r := newStore(t)
	s.Add(product(1, "Keyboard", "49.90"))
	before := len(r.got)

	s.Remove(99)

	if len(r.got) != before {
		t.Fatal("no notification expected for unknown id")
	}
	if len(s.Items()) != 1 {
		t.Fatal("cart changed on unknown remove")
	}
}

func TestUpdateQuantity_SetsDirectly(t *testing.T) {
	s, _ := newStore(t)
	s.Add(product(1, "Keyboard", "49.90"))

	s.UpdateQuantity(1, 7)

	if got := s.Items()[0].Quantity; got != 7 {
		t.Fatalf("want quantity 7, got %d", got)
	}
}

func TestUpdateQuantity_ZeroEqualsRemove(t *testing.T) {
	p := product(1, "Keyboard", "49.90")

	viaUpdate, _ := newStore(t)
	viaUpdate.Add(p)
	viaUpdate.UpdateQuantity(1, 0)

	viaRemove, _ := newStore(t)
	viaRemove.Add(p)
	viaRemove.Remove(1)

	if len(viaUpdate.Items()) != 0 || len(viaRemove.Items()) != 0 {
		t.Fatal("both paths should leave the cart empty")
	}
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	s, _ := newStore(t)
	s.Add(product(1, "Keyboard", "49.90"))

	s.UpdateQuantity(99, 5)

	items := s.Items()
	if len(items) != 1 || items[0].ID != 1 || items[0].Quantity != 1 {
		t.Fatalf("cart changed on unknown update: %+v", items)
	}
}

func TestTotals(t *testing.T) {
	s, _ := newStore(t)
	p := product(1, "Keyboard", "10.00")

	s.Add(p)
	s.Add(p)

	if s.TotalItems() != 2 {
		t.Fatalf("want total items 2, got %d", s.TotalItems())
	}
	if want := decimal.RequireFromString("20.00"); !s.TotalPrice().Equal(want) {
		t.Fatalf("want total price %s, got %s", want, s.TotalPrice())
	}

	s.Add(product(2, "Mouse", "19.95"))
	if want := decimal.RequireFromString("39.95"); !s.TotalPrice().Equal(want) {
		t.Fatalf("want total price %s, got %s", want, s.TotalPrice())
	}

	s.UpdateQuantity(2, 3)
	if s.TotalItems() != 5 {
		t.Fatalf("want total items 5, got %d", s.TotalItems())
	}
	if want := decimal.RequireFromString("79.85"); !s.TotalPrice().Equal(want) {
		t.Fatalf("want total price %s, got %s", want, s.TotalPrice())
	}
}

func TestClear(t *testing.T) {
	s, r := newStore(t)
	s.Add(product(1, "Keyboard", "49.90"))

	s.Clear()

	if len(s.Items()) != 0 || s.TotalItems() != 0 || !s.TotalPrice().IsZero() {
		t.Fatal("cart not empty after clear")
	}
	if got := r.last(t).Title; got != "Cart cleared" {
		t.Fatalf("want clear notification, got %q", got)
	}

	// Clearing an already empty cart still notifies.
	before := len(r.got)
	s.Clear()
	if len(r.got) != before+1 {
		t.Fatal("clear on empty cart should notify")
	}

	// Follow-up mutations stay no-ops.
	s.Remove(1)
	s.UpdateQuantity(1, 4)
	if len(s.Items()) != 0 {
		t.Fatal("mutations after clear should leave cart empty")
	}
}

func TestToggleAndClose(t *testing.T) {
	s, _ := newStore(t)

	if s.IsOpen() {
		t.Fatal("new cart should be closed")
	}
	s.Toggle()
	if !s.IsOpen() {
		t.Fatal("toggle should open")
	}
	s.Toggle()
	if s.IsOpen() {
		t.Fatal("toggle should close")
	}
	s.Toggle()
	s.Close()
	if s.IsOpen() {
		t.Fatal("close should force-close")
	}
	s.Close()
	if s.IsOpen() {
		t.Fatal("close is idempotent")
	}
}
