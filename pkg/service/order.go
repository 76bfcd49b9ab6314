package service

import (
	"context"

	"github.com/rs/zerolog"

	"storefront/pkg/cache"
	"storefront/pkg/store"
)

// OrderGateway is the persistence surface the order service uses.
type OrderGateway interface {
	FindByID(ctx context.Context, id int64) (*store.Order, error)
	FindByIDEager(ctx context.Context, id int64) (*store.Order, error)
	FindByCustomerID(ctx context.Context, customerID int64) ([]store.Order, error)
	FindPageEager(ctx context.Context, page, size int) ([]store.Order, error)
	Save(ctx context.Context, order *store.Order) error
	DeleteByID(ctx context.Context, id int64) error
}

// OrderResolver resolves customer references for orders; the customer
// gateway satisfies it.
type OrderResolver interface {
	FindByID(ctx context.Context, id int64) (*store.Customer, error)
}

// OrderService orchestrates order reads and writes. It carries the one
// genuinely relationship-aware invalidation in the system: reassigning an
// order's customer must stale-bust both the old and the new customer's
// order-list view.
type OrderService struct {
	gateway   OrderGateway
	customers OrderResolver
	cache     *cache.Engine
	logger    zerolog.Logger
}

// NewOrderService creates an order service.
func NewOrderService(gateway OrderGateway, customers OrderResolver, engine *cache.Engine, logger zerolog.Logger) *OrderService {
	return &OrderService{gateway: gateway, customers: customers, cache: engine, logger: logger}
}

// GetByID returns an order with its owning customer and product snapshots,
// read through the cache; the loader pulls the customer in the same query.
// Returns (nil, nil) when the id does not exist.
func (s *OrderService) GetByID(ctx context.Context, id int64) (*OrderDTO, error) {
	return cache.CachedRead(ctx, s.cache, cache.NamespaceOrders, cache.EntityKey(id),
		func(ctx context.Context) (*OrderDTO, error) {
			order, err := s.gateway.FindByIDEager(ctx, id)
			if err != nil {
				return nil, err
			}
			return orderToDTO(order), nil
		})
}

// GetByCustomerID returns every order owned by one customer, read through
// the relationship-list cache. An unknown customer yields an empty list.
func (s *OrderService) GetByCustomerID(ctx context.Context, customerID int64) ([]OrderDTO, error) {
	return cache.CachedRead(ctx, s.cache, cache.NamespaceOrdersByCustomer, cache.EntityKey(customerID),
		func(ctx context.Context) ([]OrderDTO, error) {
			orders, err := s.gateway.FindByCustomerID(ctx, customerID)
			if err != nil {
				return nil, err
			}
			return ordersToDTOs(orders), nil
		})
}

// List returns one page of orders with relations eagerly loaded. Not cached.
func (s *OrderService) List(ctx context.Context, page, size int) ([]OrderDTO, error) {
	orders, err := s.gateway.FindPageEager(ctx, page, size)
	if err != nil {
		return nil, err
	}
	return ordersToDTOs(orders), nil
}

// Create persists a new order for an existing customer, primes its entry,
// and evicts that customer's order-list view. Fails NotFound when the
// customer does not exist.
func (s *OrderService) Create(ctx context.Context, description string, customerID int64) (*OrderDTO, error) {
	s.logger.Info().Int64("customer_id", customerID).Msg("creating order")

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, NewNotFound("Customer", customerID)
	}

	order := &store.Order{Description: description, CustomerID: customerID, Customer: customer}
	if err := s.gateway.Save(ctx, order); err != nil {
		return nil, err
	}

	dto := orderToDTO(order)
	s.cache.Prime(ctx, cache.NamespaceOrders, cache.EntityKey(order.ID), dto)
	s.cache.Invalidate(ctx, cache.NamespaceOrdersByCustomer, cache.EntityKey(customerID))

	s.logger.Info().Int64("order_id", order.ID).Int64("customer_id", customerID).Msg("order created")
	return dto, nil
}

// Update mutates an order's description and customer reference. When the
// order moves between customers, both the old and the new customer's
// order-list entries are evicted; evicting only one leaves the other
// serving a list the order is wrongly present in (or absent from) for a
// full TTL.
func (s *OrderService) Update(ctx context.Context, id int64, description string, customerID int64) (*OrderDTO, error) {
	s.logger.Info().Int64("order_id", id).Msg("updating order")

	order, err := s.gateway.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, NewNotFound("Order", id)
	}
	oldCustomerID := order.CustomerID

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, NewNotFound("Customer", customerID)
	}

	order.Description = description
	order.CustomerID = customerID
	order.Customer = customer
	if err := s.gateway.Save(ctx, order); err != nil {
		return nil, err
	}

	// The mutation is durable from here on, so every eviction it owes runs
	// now, before anything else can fail. A reader may see a miss and
	// rebuild; it must never see the pre-mutation lists past this point.
	s.cache.Invalidate(ctx, cache.NamespaceOrders, cache.EntityKey(id))
	s.cache.Invalidate(ctx, cache.NamespaceOrdersByCustomer, cache.EntityKey(oldCustomerID))
	if customerID != oldCustomerID {
		s.logger.Debug().
			Int64("order_id", id).
			Int64("old_customer_id", oldCustomerID).
			Int64("new_customer_id", customerID).
			Msg("order reassigned, evicting both customer order lists")
		s.cache.Invalidate(ctx, cache.NamespaceOrdersByCustomer, cache.EntityKey(customerID))
	}

	// Reload eagerly so the primed value carries the product snapshots.
	// Priming is an optimization on top of the evictions above; a failed
	// reload surfaces the error but leaves the cache already consistent.
	updated, err := s.gateway.FindByIDEager(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, NewNotFound("Order", id)
	}
	dto := orderToDTO(updated)
	s.cache.Prime(ctx, cache.NamespaceOrders, cache.EntityKey(id), dto)

	return dto, nil
}

// Delete removes an order. The row is loaded first to learn which
// customer's order-list view must be evicted. Fails NotFound when the id
// does not exist.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	s.logger.Info().Int64("order_id", id).Msg("deleting order")

	order, err := s.gateway.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return NewNotFound("Order", id)
	}

	if err := s.gateway.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.NamespaceOrders, cache.EntityKey(id))
	s.cache.Invalidate(ctx, cache.NamespaceOrdersByCustomer, cache.EntityKey(order.CustomerID))

	s.logger.Info().Int64("order_id", id).Msg("order deleted")
	return nil
}
