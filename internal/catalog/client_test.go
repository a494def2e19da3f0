package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

const productsBody = `[
	{"id":1,"title":"Backpack","price":109.95,"category":"men's clothing","image":"https://img.test/1.jpg","rating":{"rate":3.9,"count":120}},
	{"id":2,"title":"T-Shirt","price":22.3,"category":"men's clothing","image":"https://img.test/2.jpg","rating":{"rate":4.1,"count":259}}
]`

func newFakeStore(t *testing.T, products, categories http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/products", products)
	mux.HandleFunc("/products/categories", categories)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func serveStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}

func TestClient_FetchProducts(t *testing.T) {
	ts := newFakeStore(t, serveJSON(productsBody), serveJSON(`[]`))
	c := NewClient(ts.URL, zap.NewNop())

	got := c.FetchProducts(context.Background())

	if len(got) != 2 {
		t.Fatalf("want 2 products, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Title != "Backpack" {
		t.Fatalf("unexpected first product: %+v", got[0])
	}
	if !got[0].Price.Equal(dec("109.95")) {
		t.Fatalf("want price 109.95, got %s", got[0].Price)
	}
	if got[1].Rating.Count != 259 {
		t.Fatalf("want rating count 259, got %d", got[1].Rating.Count)
	}
}

func TestClient_FetchCategories(t *testing.T) {
	ts := newFakeStore(t, serveJSON(`[]`), serveJSON(`["electronics","jewelery"]`))
	c := NewClient(ts.URL, zap.NewNop())

	got := c.FetchCategories(context.Background())

	if len(got) != 2 || got[0] != "electronics" {
		t.Fatalf("unexpected categories: %v", got)
	}
}

func TestClient_FailuresDegradeToEmpty(t *testing.T) {
	cases := []struct {
		name     string
		products http.HandlerFunc
	}{
		{"server error", serveStatus(http.StatusInternalServerError)},
		{"not found", serveStatus(http.StatusNotFound)},
		{"bad json", serveJSON(`{"not":"an array"`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newFakeStore(t, tc.products, serveJSON(`[]`))
			c := NewClient(ts.URL, zap.NewNop())

			got := c.FetchProducts(context.Background())
			if got == nil || len(got) != 0 {
				t.Fatalf("want empty non-nil slice, got %v", got)
			}
		})
	}
}

func TestClient_TransportErrorDegradesToEmpty(t *testing.T) {
	ts := newFakeStore(t, serveJSON(`[]`), serveJSON(`[]`))
	url := ts.URL
	ts.Close()

	c := NewClient(url, zap.NewNop())

	if got := c.FetchProducts(context.Background()); len(got) != 0 {
		t.Fatalf("want empty products on transport error, got %v", got)
	}
	if got := c.FetchCategories(context.Background()); len(got) != 0 {
		t.Fatalf("want empty categories on transport error, got %v", got)
	}
}

func TestClient_LoadJoinsIndependentFailures(t *testing.T) {
	// Products endpoint fails, categories endpoint works: the failed fetch
	// must not block or empty the other.
	ts := newFakeStore(t, serveStatus(http.StatusBadGateway), serveJSON(`["electronics"]`))
	c := NewClient(ts.URL, zap.NewNop())

	products, categories := c.Load(context.Background())

	if len(products) != 0 {
		t.Fatalf("want no products, got %d", len(products))
	}
	if len(categories) != 1 || categories[0] != "electronics" {
		t.Fatalf("unexpected categories: %v", categories)
	}
}

func TestClient_Load(t *testing.T) {
	ts := newFakeStore(t, serveJSON(productsBody), serveJSON(`["men's clothing"]`))
	c := NewClient(ts.URL, zap.NewNop())

	products, categories := c.Load(context.Background())

	if len(products) != 2 || len(categories) != 1 {
		t.Fatalf("want 2 products / 1 category, got %d / %d", len(products), len(categories))
	}
}
