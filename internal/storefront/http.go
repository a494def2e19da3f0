package storefront

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cartsavvy/internal/cart"
	"cartsavvy/internal/catalog"
	"cartsavvy/pkg/kit"
)

const sessionHeader = "X-Session-ID"

const maxBodyBytes = 1 << 20

type Server struct {
	Catalog  *catalog.State
	Sessions *Sessions
	Log      *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	// The derived view is never computed before the catalog load has joined.
	r.Group(func(gr chi.Router) {
		gr.Use(s.requireCatalog)
		gr.Get("/products", s.listProducts)
		gr.Get("/products/{id}", s.getProduct)
		gr.Get("/categories", s.listCategories)
		gr.Get("/filters", s.getFilters)
		gr.Post("/filters/reset", s.resetFilters)
	})

	r.Route("/cart", func(cr chi.Router) {
		cr.Get("/", s.getCart)
		cr.Delete("/", s.clearCart)
		cr.Post("/items", s.addItem)
		cr.Patch("/items/{id}", s.updateItem)
		cr.Delete("/items/{id}", s.removeItem)
		cr.Post("/open", s.toggleCart)
		cr.Post("/close", s.closeCart)
		cr.Post("/checkout", s.checkout)
	})

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if !s.Catalog.Loaded() {
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not loaded", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) requireCatalog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Catalog.Loaded() {
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not loaded", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// session resolves the caller's session from the X-Session-ID header,
// creating one on demand, and echoes the id on the response so clients can
// carry it forward.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	sess := s.Sessions.Resolve(r.Header.Get(sessionHeader))
	w.Header().Set(sessionHeader, sess.ID)
	return sess
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	q := r.URL.Query()

	if q.Has("category") {
		sess.Browse.SetCategory(q.Get("category"))
	}
	if q.Has("min_price") || q.Has("max_price") {
		cur := sess.Browse.Query().Filter
		min, err := parsePrice(q.Get("min_price"), cur.MinPrice)
		if err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad min_price", nil)
			return
		}
		max, err := parsePrice(q.Get("max_price"), cur.MaxPrice)
		if err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad max_price", nil)
			return
		}
		sess.Browse.SetPriceRange(min, max)
	}
	if q.Has("sort") {
		sess.Browse.SetSort(catalog.ParseSort(q.Get("sort")))
	}
	if q.Has("page") {
		page, err := strconv.Atoi(q.Get("page"))
		if err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad page", nil)
			return
		}
		sess.Browse.SetPage(page)
	}

	kit.WriteJSON(w, http.StatusOK, s.Catalog.View(sess.Browse))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", nil)
		return
	}

	p, ok := s.Catalog.Product(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Categories())
}

type filtersResponse struct {
	Categories []string        `json:"categories"`
	Category   string          `json:"category"`
	MinPrice   decimal.Decimal `json:"min_price"`
	MaxPrice   decimal.Decimal `json:"max_price"`
	Ceiling    decimal.Decimal `json:"ceiling"`
	Sort       catalog.Sort    `json:"sort"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

func (s *Server) getFilters(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	kit.WriteJSON(w, http.StatusOK, s.filtersPayload(sess))
}

func (s *Server) resetFilters(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Browse.Reset()
	kit.WriteJSON(w, http.StatusOK, s.filtersPayload(sess))
}

func (s *Server) filtersPayload(sess *Session) filtersResponse {
	q := sess.Browse.Query()
	return filtersResponse{
		Categories: s.Catalog.Categories(),
		Category:   q.Filter.Category,
		MinPrice:   q.Filter.MinPrice,
		MaxPrice:   q.Filter.MaxPrice,
		Ceiling:    s.Catalog.Ceiling(),
		Sort:       q.Sort,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
}

type cartResponse struct {
	Items         []cart.LineItem     `json:"items"`
	TotalItems    int                 `json:"total_items"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	Open          bool                `json:"open"`
	Notifications []cart.Notification `json:"notifications,omitempty"`
}

func (s *Server) writeCart(w http.ResponseWriter, sess *Session) {
	kit.WriteJSON(w, http.StatusOK, cartResponse{
		Items:         sess.Cart.Items(),
		TotalItems:    sess.Cart.TotalItems(),
		TotalPrice:    sess.Cart.TotalPrice(),
		Open:          sess.Cart.IsOpen(),
		Notifications: sess.Feed.Drain(),
	})
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	s.writeCart(w, s.session(w, r))
}

type addItemReq struct {
	ProductID int `json:"product_id"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var req addItemReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	p, ok := s.Catalog.Product(req.ProductID)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown product", map[string]any{"id": req.ProductID})
		return
	}

	sess.Cart.Add(p)
	s.writeCart(w, sess)
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", nil)
		return
	}

	var req updateItemReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	sess.Cart.UpdateQuantity(id, req.Quantity)
	s.writeCart(w, sess)
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", nil)
		return
	}

	sess.Cart.Remove(id)
	s.writeCart(w, sess)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Cart.Clear()
	s.writeCart(w, sess)
}

func (s *Server) toggleCart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Cart.Toggle()
	kit.WriteJSON(w, http.StatusOK, map[string]bool{"open": sess.Cart.IsOpen()})
}

func (s *Server) closeCart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Cart.Close()
	kit.WriteJSON(w, http.StatusOK, map[string]bool{"open": sess.Cart.IsOpen()})
}

// checkout is a placeholder: it acknowledges the request and changes
// nothing.
func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	kit.WriteJSON(w, http.StatusAccepted, map[string]any{
		"status":      "pending",
		"total_items": sess.Cart.TotalItems(),
		"total_price": sess.Cart.TotalPrice(),
	})
}

func parsePrice(v string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if v == "" {
		return fallback, nil
	}
	return decimal.NewFromString(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}
