package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/redis"
)

type fakeStats struct {
	snapshot redis.MetricsSnapshot
}

func (f *fakeStats) GetMetrics() redis.MetricsSnapshot {
	return f.snapshot
}

func newAdminFixture() (*AdminService, *fakeCustomerGateway, *fakeProductGateway, *memStore) {
	customers := newFakeCustomerGateway()
	products := newFakeProductGateway()
	storeFake := newMemStore()
	svc := NewAdminService(newTestEngine(storeFake), &fakeStats{}, customers, products, zerolog.Nop())
	return svc, customers, products, storeFake
}

func TestAdminEvictions_TargetSingleEntries(t *testing.T) {
	ctx := context.Background()
	svc, _, _, storeFake := newAdminFixture()

	storeFake.entries["store:customers:1"] = []byte{0x90}
	storeFake.entries["store:orders-by-customer:1"] = []byte{0x90}
	storeFake.entries["store:orders:2"] = []byte{0x90}
	storeFake.entries["store:products:3"] = []byte{0x90}

	svc.EvictCustomer(ctx, 1)
	assert.False(t, storeFake.has("store:customers:1"))
	assert.True(t, storeFake.has("store:orders-by-customer:1"))

	svc.EvictCustomerOrders(ctx, 1)
	assert.False(t, storeFake.has("store:orders-by-customer:1"))

	svc.EvictOrder(ctx, 2)
	assert.False(t, storeFake.has("store:orders:2"))

	svc.EvictProduct(ctx, 3)
	assert.False(t, storeFake.has("store:products:3"))
}

func TestAdminClearNamespace(t *testing.T) {
	ctx := context.Background()
	svc, _, _, storeFake := newAdminFixture()

	storeFake.entries["store:customer-search:abc"] = []byte{0x90}
	storeFake.entries["store:customer-search:def"] = []byte{0x90}
	storeFake.entries["store:customers:1"] = []byte{0x90}

	require.NoError(t, svc.ClearNamespace(ctx, "customer-search"))
	assert.False(t, storeFake.has("store:customer-search:abc"))
	assert.False(t, storeFake.has("store:customer-search:def"))
	assert.True(t, storeFake.has("store:customers:1"))
}

func TestAdminClearNamespace_UnknownName(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newAdminFixture()

	err := svc.ClearNamespace(ctx, "invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache namespace")
}

func TestAdminFlushAll(t *testing.T) {
	ctx := context.Background()
	svc, _, _, storeFake := newAdminFixture()

	storeFake.entries["store:customers:1"] = []byte{0x90}
	storeFake.entries["store:products:2"] = []byte{0x90}

	require.NoError(t, svc.FlushAll(ctx))
	assert.Equal(t, 0, storeFake.len())
}

func TestAdminFlushAll_SurfacesStoreError(t *testing.T) {
	ctx := context.Background()
	svc, _, _, storeFake := newAdminFixture()
	storeFake.failing = true

	assert.Error(t, svc.FlushAll(ctx))
}

func TestAdminWarmup_PrimesEntityNamespaces(t *testing.T) {
	ctx := context.Background()
	svc, customers, products, storeFake := newAdminFixture()
	customers.add("Ada")
	customers.add("Grace")
	products.add("Widget")

	require.NoError(t, svc.Warmup(ctx))

	assert.True(t, storeFake.has("store:customers:1"))
	assert.True(t, storeFake.has("store:customers:2"))
	assert.True(t, storeFake.has("store:products:1"))
}

func TestAdminStats_ListsEveryNamespace(t *testing.T) {
	svc, _, _, _ := newAdminFixture()

	stats := svc.Stats()
	assert.Contains(t, stats.Namespaces, "customers")
	assert.Contains(t, stats.Namespaces, "orders")
	assert.Contains(t, stats.Namespaces, "products")
	assert.Contains(t, stats.Namespaces, "customer-search")
	assert.Contains(t, stats.Namespaces, "product-search")
	assert.Contains(t, stats.Namespaces, "orders-by-customer")
}
