// Package api wires the storefront services to their HTTP surface: the
// chi router, the entity handlers, and the admin cache-control endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"storefront/pkg/service"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router creates and configures the HTTP router
type Router struct {
	customers *service.CustomerService
	orders    *service.OrderService
	products  *service.ProductService
	admin     *service.AdminService
	db        Pinger
	cache     Pinger
	logger    zerolog.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	customers *service.CustomerService,
	orders *service.OrderService,
	products *service.ProductService,
	admin *service.AdminService,
	db Pinger,
	cache Pinger,
	logger zerolog.Logger,
) *Router {
	return &Router{
		customers: customers,
		orders:    orders,
		products:  products,
		admin:     admin,
		db:        db,
		cache:     cache,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(rt.logger))

	// Operational endpoints
	router.Get("/healthz", rt.healthCheck)
	router.Get("/readyz", rt.readinessCheck)
	router.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			customerHandler := NewCustomerHandler(rt.customers, rt.orders, rt.logger)
			r.Get("/", customerHandler.List)
			r.Post("/", customerHandler.Create)
			r.Get("/{id}", customerHandler.Get)
			r.Put("/{id}", customerHandler.Update)
			r.Delete("/{id}", customerHandler.Delete)
			r.Get("/{id}/orders", customerHandler.Orders)
		})

		r.Route("/orders", func(r chi.Router) {
			orderHandler := NewOrderHandler(rt.orders, rt.logger)
			r.Get("/", orderHandler.List)
			r.Post("/", orderHandler.Create)
			r.Get("/{id}", orderHandler.Get)
			r.Put("/{id}", orderHandler.Update)
			r.Delete("/{id}", orderHandler.Delete)
		})

		r.Route("/products", func(r chi.Router) {
			productHandler := NewProductHandler(rt.products, rt.logger)
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Get("/{id}", productHandler.Get)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})

		r.Route("/admin/cache", func(r chi.Router) {
			adminHandler := NewAdminHandler(rt.admin, rt.logger)
			r.Delete("/customers/{id}", adminHandler.EvictCustomer)
			r.Delete("/customers/{id}/orders", adminHandler.EvictCustomerOrders)
			r.Delete("/orders/{id}", adminHandler.EvictOrder)
			r.Delete("/products/{id}", adminHandler.EvictProduct)
			r.Delete("/namespaces/{name}", adminHandler.ClearNamespace)
			r.Delete("/all", adminHandler.FlushAll)
			r.Post("/warmup", adminHandler.Warmup)
			r.Get("/stats", adminHandler.Stats)
		})
	})

	return router
}

// healthCheck reports process liveness
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports whether the backing stores are reachable. The
// cache being down does not fail readiness: reads degrade to the database.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	if err := rt.db.Ping(ctx); err != nil {
		rt.logger.Warn().Err(err).Msg("readiness check: database unreachable")
		respondError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	if err := rt.cache.Ping(ctx); err != nil {
		rt.logger.Warn().Err(err).Msg("readiness check: cache unreachable")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// requestLogger emits one structured log line per handled request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request handled")
		})
	}
}
