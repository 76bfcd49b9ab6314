package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"storefront/pkg/cache"
	"storefront/pkg/redis"
	"storefront/pkg/store"
)

// memStore is an in-memory cache.Store. failing simulates a store outage.
type memStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	failing bool
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, redis.ErrConnectionFailed
	}
	data, ok := m.entries[key]
	if !ok {
		return nil, redis.ErrKeyNotFound
	}
	return data, nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return redis.ErrConnectionFailed
	}
	m.entries[key] = value
	return nil
}

func (m *memStore) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return redis.ErrConnectionFailed
	}
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *memStore) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return redis.ErrConnectionFailed
	}
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memStore) FlushAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return redis.ErrConnectionFailed
	}
	m.entries = make(map[string][]byte)
	return nil
}

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func newTestEngine(s cache.Store) *cache.Engine {
	return cache.NewEngine(s, zerolog.Nop())
}

// fakeCustomerGateway is an in-memory CustomerGateway with call counters.
type fakeCustomerGateway struct {
	customers map[int64]*store.Customer
	nextID    int64

	findCalls      int
	findEagerCalls int
	searchCalls    int
	saveCalls      int
	deleteCalls    int
}

func newFakeCustomerGateway() *fakeCustomerGateway {
	return &fakeCustomerGateway{customers: make(map[int64]*store.Customer), nextID: 1}
}

func (f *fakeCustomerGateway) add(name string, orders ...store.Order) *store.Customer {
	c := &store.Customer{ID: f.nextID, Name: name, Orders: orders}
	f.customers[c.ID] = c
	f.nextID++
	return c
}

func (f *fakeCustomerGateway) FindByID(ctx context.Context, id int64) (*store.Customer, error) {
	f.findCalls++
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	copied.Orders = nil
	return &copied, nil
}

func (f *fakeCustomerGateway) FindByIDWithOrders(ctx context.Context, id int64) (*store.Customer, error) {
	f.findEagerCalls++
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerGateway) FindPageWithOrders(ctx context.Context, page, size int) ([]store.Customer, error) {
	result := make([]store.Customer, 0, len(f.customers))
	for id := int64(1); id < f.nextID; id++ {
		if c, ok := f.customers[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (f *fakeCustomerGateway) SearchByNameWithOrders(ctx context.Context, name string) ([]store.Customer, error) {
	f.searchCalls++
	result := make([]store.Customer, 0)
	for id := int64(1); id < f.nextID; id++ {
		c, ok := f.customers[id]
		if ok && strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (f *fakeCustomerGateway) Save(ctx context.Context, customer *store.Customer) error {
	f.saveCalls++
	if customer.ID == 0 {
		customer.ID = f.nextID
		f.nextID++
	}
	copied := *customer
	f.customers[customer.ID] = &copied
	return nil
}

func (f *fakeCustomerGateway) DeleteByID(ctx context.Context, id int64) error {
	f.deleteCalls++
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerGateway) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := f.customers[id]
	return ok, nil
}

// fakeOrderGateway is an in-memory OrderGateway with call counters.
type fakeOrderGateway struct {
	orders    map[int64]*store.Order
	customers *fakeCustomerGateway
	nextID    int64

	findCalls       int
	findEagerCalls  int
	byCustomerCalls int
	saveCalls       int
	deleteCalls     int
}

func newFakeOrderGateway(customers *fakeCustomerGateway) *fakeOrderGateway {
	return &fakeOrderGateway{orders: make(map[int64]*store.Order), customers: customers, nextID: 1}
}

func (f *fakeOrderGateway) add(description string, customerID int64, products ...store.Product) *store.Order {
	o := &store.Order{ID: f.nextID, Description: description, CustomerID: customerID, Products: products}
	f.orders[o.ID] = o
	f.nextID++
	return o
}

func (f *fakeOrderGateway) FindByID(ctx context.Context, id int64) (*store.Order, error) {
	f.findCalls++
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	copied.Customer = nil
	copied.Products = nil
	return &copied, nil
}

func (f *fakeOrderGateway) FindByIDEager(ctx context.Context, id int64) (*store.Order, error) {
	f.findEagerCalls++
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	if c, ok := f.customers.customers[o.CustomerID]; ok {
		owner := *c
		copied.Customer = &owner
	}
	return &copied, nil
}

func (f *fakeOrderGateway) FindByCustomerID(ctx context.Context, customerID int64) ([]store.Order, error) {
	f.byCustomerCalls++
	result := make([]store.Order, 0)
	for id := int64(1); id < f.nextID; id++ {
		o, ok := f.orders[id]
		if ok && o.CustomerID == customerID {
			copied := *o
			if c, ok := f.customers.customers[o.CustomerID]; ok {
				owner := *c
				copied.Customer = &owner
			}
			result = append(result, copied)
		}
	}
	return result, nil
}

func (f *fakeOrderGateway) FindPageEager(ctx context.Context, page, size int) ([]store.Order, error) {
	result := make([]store.Order, 0, len(f.orders))
	for id := int64(1); id < f.nextID; id++ {
		if o, ok := f.orders[id]; ok {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (f *fakeOrderGateway) Save(ctx context.Context, order *store.Order) error {
	f.saveCalls++
	if order.ID == 0 {
		order.ID = f.nextID
		f.nextID++
	}
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderGateway) DeleteByID(ctx context.Context, id int64) error {
	f.deleteCalls++
	delete(f.orders, id)
	return nil
}

// fakeProductGateway is an in-memory ProductGateway with call counters.
type fakeProductGateway struct {
	products map[int64]*store.Product
	nextID   int64

	findCalls   int
	searchCalls int
	saveCalls   int
	deleteCalls int
}

func newFakeProductGateway() *fakeProductGateway {
	return &fakeProductGateway{products: make(map[int64]*store.Product), nextID: 1}
}

func (f *fakeProductGateway) add(description string) *store.Product {
	p := &store.Product{ID: f.nextID, Description: description}
	f.products[p.ID] = p
	f.nextID++
	return p
}

func (f *fakeProductGateway) FindByID(ctx context.Context, id int64) (*store.Product, error) {
	f.findCalls++
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProductGateway) SearchByDescription(ctx context.Context, description string) ([]store.Product, error) {
	f.searchCalls++
	result := make([]store.Product, 0)
	for id := int64(1); id < f.nextID; id++ {
		p, ok := f.products[id]
		if ok && strings.Contains(strings.ToLower(p.Description), strings.ToLower(description)) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakeProductGateway) FindPage(ctx context.Context, page, size int) ([]store.Product, error) {
	result := make([]store.Product, 0, len(f.products))
	for id := int64(1); id < f.nextID; id++ {
		if p, ok := f.products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakeProductGateway) Save(ctx context.Context, product *store.Product) error {
	f.saveCalls++
	if product.ID == 0 {
		product.ID = f.nextID
		f.nextID++
	}
	copied := *product
	f.products[product.ID] = &copied
	return nil
}

func (f *fakeProductGateway) DeleteByID(ctx context.Context, id int64) error {
	f.deleteCalls++
	delete(f.products, id)
	return nil
}

func (f *fakeProductGateway) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := f.products[id]
	return ok, nil
}
