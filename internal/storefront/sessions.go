package storefront

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cartsavvy/internal/cart"
	"cartsavvy/internal/catalog"
)

// Session bundles one visitor's in-memory state: their cart, its
// notification feed and their catalog browsing state. Nothing here survives
// a process restart.
type Session struct {
	ID     string
	Cart   *cart.Store
	Feed   *Feed
	Browse *catalog.Browse
}

// maxSessions caps the registry; once full, the oldest session is evicted
// and that visitor starts over with a fresh cart.
const maxSessions = 10000

type Sessions struct {
	mu      sync.RWMutex
	m       map[string]*Session
	order   []string
	catalog *catalog.State
	log     *zap.Logger
}

func NewSessions(cat *catalog.State, log *zap.Logger) *Sessions {
	return &Sessions{
		m:       map[string]*Session{},
		catalog: cat,
		log:     log,
	}
}

func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.m[id]
	return sess, ok
}

func (s *Sessions) Create() *Session {
	feed := NewFeed(s.log)
	sess := &Session{
		ID:     "s_" + uuid.NewString(),
		Cart:   cart.New(feed),
		Feed:   feed,
		Browse: catalog.NewBrowse(s.catalog),
	}

	s.mu.Lock()
	for len(s.m) >= maxSessions && len(s.order) > 0 {
		delete(s.m, s.order[0])
		s.order = s.order[1:]
	}
	s.m[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	s.mu.Unlock()

	return sess
}

// Resolve returns the session for id, or a fresh one when the id is unknown
// or empty.
func (s *Sessions) Resolve(id string) *Session {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess
		}
	}
	return s.Create()
}
