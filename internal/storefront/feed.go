package storefront

import (
	"sync"

	"go.uber.org/zap"

	"cartsavvy/internal/cart"
)

// Feed is the notification sink for one session. It logs every notification
// and retains it until the next response drains the buffer.
type Feed struct {
	mu      sync.Mutex
	pending []cart.Notification
	log     *zap.Logger
}

func NewFeed(log *zap.Logger) *Feed {
	return &Feed{log: log}
}

func (f *Feed) Notify(n cart.Notification) {
	f.mu.Lock()
	f.pending = append(f.pending, n)
	f.mu.Unlock()

	if f.log != nil {
		f.log.Info("cart notification",
			zap.String("title", n.Title),
			zap.String("description", n.Description),
		)
	}
}

func (f *Feed) Drain() []cart.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.pending
	f.pending = nil
	return out
}
