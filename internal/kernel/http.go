// Package kernel assembles the HTTP handler: the global middleware stack
// plus every registered API route.
package kernel

import (
	"net/http"
	"time"

	"github.com/daliaibrahim58/greenmart/app/routes"
	"github.com/daliaibrahim58/greenmart/pkg/cache"
	"github.com/daliaibrahim58/greenmart/pkg/metrics"
	"github.com/daliaibrahim58/greenmart/pkg/middleware"
	"github.com/daliaibrahim58/greenmart/pkg/orm"
	"github.com/daliaibrahim58/greenmart/pkg/reqid"
	"github.com/daliaibrahim58/greenmart/pkg/router"
	"github.com/daliaibrahim58/greenmart/pkg/session"
)

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the router with the global middleware stack,
// outermost to innermost:
//
//	1. Prometheus metrics (outermost, so it sees total latency)
//	2. Recovery           (catches panics before they kill the goroutine)
//	3. Request ID         (injected before anything logs)
//	4. Logger             (logs request_id from context)
//	5. Session            (load/create session cookie via Redis)
//	6. CORS
//	7. Rate limiter
func NewHTTPKernel() *HTTPKernel {
	// Bridge the cache into the ORM without an import cycle.
	orm.CacheStore = &ormCache{}

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	routes.RegisterAPI(r)

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Router() *router.Router { return k.router }

// ormCache adapts pkg/cache to the orm.Cacher interface.
type ormCache struct{}

func (c *ormCache) Get(key string, dest interface{}) bool {
	return cache.Get(key, dest)
}

func (c *ormCache) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}
