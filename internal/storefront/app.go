package storefront

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cartsavvy/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// Mutating requests per minute per IP; 0 disables limiting.
	WriteLimit int
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	metricsOn := deps.MetricsEnabled && deps.Registry != nil
	if deps.MetricsEnabled && deps.Registry == nil && deps.Log != nil {
		deps.Log.Warn("metrics enabled but Registry is nil")
	}

	setupMiddleware(r, deps, metricsOn)

	if deps.WriteLimit > 0 {
		limiter := kit.NewIPRateLimiter(deps.WriteLimit, 60)
		r.With(limiterFor(limiter)).Mount("/", s.Routes())
	} else {
		r.Mount("/", s.Routes())
	}

	if metricsOn {
		r.With(kit.MetricsAuth(deps.MetricsToken)).Handle(
			"/metrics",
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
		)
	}

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps, metricsOn bool) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))

	if metricsOn {
		metrics := kit.NewMetrics(deps.Registry)
		r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))
	}
}

// limiterFor rate-limits POST/PATCH/DELETE across the API; reads stay
// unthrottled.
func limiterFor(l *kit.IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := l.Middleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPatch, http.MethodDelete:
				limited.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
