package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/pkg/cache"
	"storefront/pkg/redis"
)

// StatsProvider exposes cache store performance counters; *redis.Manager
// satisfies it.
type StatsProvider interface {
	GetMetrics() redis.MetricsSnapshot
}

// AdminService provides manual cache management: targeted eviction, full
// flush, warmup and statistics. It is a thin collaborator over the policy
// engine, not part of the caching policy itself.
type AdminService struct {
	cache     *cache.Engine
	stats     StatsProvider
	customers CustomerGateway
	products  ProductGateway
	logger    zerolog.Logger
}

// NewAdminService creates the administrative cache control service.
func NewAdminService(engine *cache.Engine, stats StatsProvider, customers CustomerGateway, products ProductGateway, logger zerolog.Logger) *AdminService {
	return &AdminService{
		cache:     engine,
		stats:     stats,
		customers: customers,
		products:  products,
		logger:    logger,
	}
}

// EvictCustomer evicts a specific customer from cache.
func (s *AdminService) EvictCustomer(ctx context.Context, customerID int64) {
	s.cache.Invalidate(ctx, cache.NamespaceCustomers, cache.EntityKey(customerID))
	s.logger.Debug().Int64("customer_id", customerID).Msg("evicted customer from cache")
}

// EvictCustomerOrders evicts the order-list view of one customer.
func (s *AdminService) EvictCustomerOrders(ctx context.Context, customerID int64) {
	s.cache.Invalidate(ctx, cache.NamespaceOrdersByCustomer, cache.EntityKey(customerID))
	s.logger.Debug().Int64("customer_id", customerID).Msg("evicted orders cache for customer")
}

// EvictOrder evicts a specific order from cache.
func (s *AdminService) EvictOrder(ctx context.Context, orderID int64) {
	s.cache.Invalidate(ctx, cache.NamespaceOrders, cache.EntityKey(orderID))
	s.logger.Debug().Int64("order_id", orderID).Msg("evicted order from cache")
}

// EvictProduct evicts a specific product from cache.
func (s *AdminService) EvictProduct(ctx context.Context, productID int64) {
	s.cache.Invalidate(ctx, cache.NamespaceProducts, cache.EntityKey(productID))
	s.logger.Debug().Int64("product_id", productID).Msg("evicted product from cache")
}

// ClearNamespace clears an entire cache region by name.
func (s *AdminService) ClearNamespace(ctx context.Context, name string) error {
	ns, ok := cache.ParseNamespace(name)
	if !ok {
		return fmt.Errorf("unknown cache namespace: %s", name)
	}
	s.cache.InvalidateNamespace(ctx, ns)
	s.logger.Info().Str("namespace", name).Msg("cleared cache namespace")
	return nil
}

// FlushAll clears every cache. The store is a disposable projection, so
// this costs only rebuild latency, but use with caution in production.
func (s *AdminService) FlushAll(ctx context.Context) error {
	if err := s.cache.FlushAll(ctx); err != nil {
		return err
	}
	s.logger.Warn().Msg("all caches have been cleared")
	return nil
}

// Warmup preloads frequently accessed data: the first pages of customers
// and products are read from the gateway and primed into their entity
// namespaces so the first real reads after a deploy or flush are hits.
func (s *AdminService) Warmup(ctx context.Context) error {
	const warmupPageSize = 100

	s.logger.Info().Msg("cache warmup initiated")

	customers, err := s.customers.FindPageWithOrders(ctx, 1, warmupPageSize)
	if err != nil {
		return fmt.Errorf("warmup customers: %w", err)
	}
	for i := range customers {
		dto := customerToDTO(&customers[i])
		s.cache.Prime(ctx, cache.NamespaceCustomers, cache.EntityKey(dto.ID), dto)
	}

	products, err := s.products.FindPage(ctx, 1, warmupPageSize)
	if err != nil {
		return fmt.Errorf("warmup products: %w", err)
	}
	for i := range products {
		dto := productToDTO(&products[i])
		s.cache.Prime(ctx, cache.NamespaceProducts, cache.EntityKey(dto.ID), dto)
	}

	s.logger.Info().
		Int("customers", len(customers)).
		Int("products", len(products)).
		Msg("cache warmup completed")
	return nil
}

// CacheStats describes the cache store counters and registered namespaces.
type CacheStats struct {
	Namespaces []string              `json:"namespaces"`
	Store      redis.MetricsSnapshot `json:"store"`
}

// Stats returns cache statistics for monitoring.
func (s *AdminService) Stats() CacheStats {
	namespaces := make([]string, 0)
	for _, ns := range cache.AllNamespaces() {
		namespaces = append(namespaces, string(ns))
	}
	return CacheStats{
		Namespaces: namespaces,
		Store:      s.stats.GetMetrics(),
	}
}
