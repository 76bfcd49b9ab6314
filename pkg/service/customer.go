// Package service holds the stateless domain services for the storefront.
// Reads go through the cache policy engine; writes hit the persistence
// gateway first, then issue the mutation's invalidation set. Within one
// write the persistence mutation always completes before any cache
// invalidation or priming, so a racing reader can observe at worst a stale
// entry, never one ahead of the durable store.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"storefront/pkg/cache"
	"storefront/pkg/store"
)

// CustomerGateway is the persistence surface the customer service uses.
// *store.CustomerGateway satisfies it; tests inject fakes.
type CustomerGateway interface {
	FindByID(ctx context.Context, id int64) (*store.Customer, error)
	FindByIDWithOrders(ctx context.Context, id int64) (*store.Customer, error)
	FindPageWithOrders(ctx context.Context, page, size int) ([]store.Customer, error)
	SearchByNameWithOrders(ctx context.Context, name string) ([]store.Customer, error)
	Save(ctx context.Context, customer *store.Customer) error
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// CustomerService orchestrates customer reads and writes.
type CustomerService struct {
	gateway CustomerGateway
	cache   *cache.Engine
	logger  zerolog.Logger
}

// NewCustomerService creates a customer service.
func NewCustomerService(gateway CustomerGateway, engine *cache.Engine, logger zerolog.Logger) *CustomerService {
	return &CustomerService{gateway: gateway, cache: engine, logger: logger}
}

// GetByID returns a customer with order summaries, read through the cache.
// Returns (nil, nil) when the id does not exist.
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*CustomerDTO, error) {
	return cache.CachedRead(ctx, s.cache, cache.NamespaceCustomers, cache.EntityKey(id),
		func(ctx context.Context) (*CustomerDTO, error) {
			customer, err := s.gateway.FindByIDWithOrders(ctx, id)
			if err != nil {
				return nil, err
			}
			return customerToDTO(customer), nil
		})
}

// List returns one page of customers with order summaries. Pages are not
// cached: their membership shifts with every write and the page/size key
// space multiplies poorly against the TTL window.
func (s *CustomerService) List(ctx context.Context, page, size int) ([]CustomerDTO, error) {
	customers, err := s.gateway.FindPageWithOrders(ctx, page, size)
	if err != nil {
		return nil, err
	}
	return customersToDTOs(customers), nil
}

// Search returns customers whose name contains the given substring,
// case-insensitive, read through the search cache. Blank-substring
// handling ("no filter") belongs to the caller.
func (s *CustomerService) Search(ctx context.Context, name string) ([]CustomerDTO, error) {
	return cache.CachedRead(ctx, s.cache, cache.NamespaceCustomerSearch, cache.SearchKey(name),
		func(ctx context.Context) ([]CustomerDTO, error) {
			customers, err := s.gateway.SearchByNameWithOrders(ctx, name)
			if err != nil {
				return nil, err
			}
			return customersToDTOs(customers), nil
		})
}

// Create persists a new customer, primes its entry, and clears the search
// namespace (the new row can appear in any cached search result).
func (s *CustomerService) Create(ctx context.Context, name string) (*CustomerDTO, error) {
	s.logger.Info().Str("name", name).Msg("creating customer")

	customer := &store.Customer{Name: name}
	if err := s.gateway.Save(ctx, customer); err != nil {
		return nil, err
	}

	dto := customerToDTO(customer)
	s.cache.Prime(ctx, cache.NamespaceCustomers, cache.EntityKey(customer.ID), dto)
	s.cache.InvalidateNamespace(ctx, cache.NamespaceCustomerSearch)

	s.logger.Info().Int64("customer_id", customer.ID).Msg("customer created")
	return dto, nil
}

// Update renames a customer. The current row is loaded from the gateway,
// not the cache, to avoid acting on stale data. Fails NotFound when the id
// does not exist.
func (s *CustomerService) Update(ctx context.Context, id int64, name string) (*CustomerDTO, error) {
	s.logger.Info().Int64("customer_id", id).Msg("updating customer")

	customer, err := s.gateway.FindByIDWithOrders(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, NewNotFound("Customer", id)
	}

	customer.Name = name
	if err := s.gateway.Save(ctx, customer); err != nil {
		return nil, err
	}

	dto := customerToDTO(customer)
	s.cache.Prime(ctx, cache.NamespaceCustomers, cache.EntityKey(id), dto)
	s.cache.InvalidateNamespace(ctx, cache.NamespaceCustomerSearch)

	return dto, nil
}

// Delete removes a customer, cascading deletion of its orders at the
// persistence layer, then evicts every entry keyed by this customer's
// identity: its own entry, the search namespace, and the summary of its
// orders. Fails NotFound when the id does not exist; a concurrent delete
// of the same id makes the loser also see NotFound, which is acceptable.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	s.logger.Info().Int64("customer_id", id).Msg("deleting customer")

	exists, err := s.gateway.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return NewNotFound("Customer", id)
	}

	if err := s.gateway.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.NamespaceCustomers, cache.EntityKey(id))
	s.cache.InvalidateNamespace(ctx, cache.NamespaceCustomerSearch)
	s.cache.Invalidate(ctx, cache.NamespaceOrdersByCustomer, cache.EntityKey(id))

	s.logger.Info().Int64("customer_id", id).Msg("customer deleted")
	return nil
}
