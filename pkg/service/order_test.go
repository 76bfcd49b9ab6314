package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/store"
)

func newOrderFixture() (*OrderService, *fakeOrderGateway, *fakeCustomerGateway, *memStore) {
	customers := newFakeCustomerGateway()
	gateway := newFakeOrderGateway(customers)
	storeFake := newMemStore()
	svc := NewOrderService(gateway, customers, newTestEngine(storeFake), zerolog.Nop())
	return svc, gateway, customers, storeFake
}

func TestOrderGetByID_EagerAndCached(t *testing.T) {
	ctx := context.Background()
	svc, gateway, customers, _ := newOrderFixture()
	customers.add("Ada")
	gateway.add("Analytical engine parts", 1, store.Product{ID: 5, Description: "Widget"})

	order, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "Analytical engine parts", order.Description)
	assert.Equal(t, "Ada", order.Customer.Name)
	require.Len(t, order.Products, 1)
	assert.Equal(t, "Widget", order.Products[0].Description)
	// Customer and products arrived in the one eager load.
	assert.Equal(t, 1, gateway.findEagerCalls)
	assert.Equal(t, 0, customers.findCalls)

	_, err = svc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.findEagerCalls)
}

func TestOrderGetByCustomerID_CachesList(t *testing.T) {
	ctx := context.Background()
	svc, gateway, customers, _ := newOrderFixture()
	customers.add("Ada")
	gateway.add("First order here", 1)
	gateway.add("Second order here", 1)

	orders, err := svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 1, gateway.byCustomerCalls)

	_, err = svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.byCustomerCalls)
}

func TestOrderGetByCustomerID_UnknownCustomerIsEmptyList(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newOrderFixture()

	orders, err := svc.GetByCustomerID(ctx, 404)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderCreate_EvictsOwnerListAndPrimes(t *testing.T) {
	ctx := context.Background()
	svc, gateway, customers, _ := newOrderFixture()
	customers.add("Ada")

	// Warm Ada's order-list view while it is empty.
	orders, err := svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders)

	created, err := svc.Create(ctx, "Analytical engine parts", 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", created.Customer.Name)

	// The warmed list was evicted; the reload sees the new order.
	orders, err = svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, orders[0].ID)

	// The order entry itself was primed by the create.
	eagerCallsBefore := gateway.findEagerCalls
	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, eagerCallsBefore, gateway.findEagerCalls)
}

func TestOrderCreate_UnknownCustomerFailsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, gateway, _, storeFake := newOrderFixture()

	_, err := svc.Create(ctx, "Orphan order here", 404)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 0, gateway.saveCalls)
	assert.Equal(t, 0, storeFake.len())
}

func TestOrderReassignment_EvictsBothCustomerLists(t *testing.T) {
	ctx := context.Background()
	svc, gateway, customers, storeFake := newOrderFixture()
	customers.add("Ada")   // id 1
	customers.add("Grace") // id 2
	order := gateway.add("Shared project order", 1)

	// Warm both customers' order-list views.
	adaOrders, err := svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, adaOrders, 1)

	graceOrders, err := svc.GetByCustomerID(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, graceOrders)

	require.True(t, storeFake.has("store:orders-by-customer:1"))
	require.True(t, storeFake.has("store:orders-by-customer:2"))

	// Reassign the order from Ada to Grace.
	updated, err := svc.Update(ctx, order.ID, "Shared project order", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Customer.ID)

	// Both stale list views are gone, not just one.
	assert.False(t, storeFake.has("store:orders-by-customer:1"))
	assert.False(t, storeFake.has("store:orders-by-customer:2"))

	// Fresh reads reflect the move.
	adaOrders, err = svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, adaOrders)

	graceOrders, err = svc.GetByCustomerID(ctx, 2)
	require.NoError(t, err)
	require.Len(t, graceOrders, 1)
	assert.Equal(t, order.ID, graceOrders[0].ID)
}

// reloadFailingOrderGateway errors the eager reload once a save has gone
// through, leaving the persisted reassignment without a primed value.
type reloadFailingOrderGateway struct {
	*fakeOrderGateway
}

func (g *reloadFailingOrderGateway) FindByIDEager(ctx context.Context, id int64) (*store.Order, error) {
	if g.saveCalls > 0 {
		return nil, errors.New("connection reset")
	}
	return g.fakeOrderGateway.FindByIDEager(ctx, id)
}

func TestOrderReassignment_ReloadFailureStillEvictsBothLists(t *testing.T) {
	ctx := context.Background()
	customers := newFakeCustomerGateway()
	gateway := &reloadFailingOrderGateway{fakeOrderGateway: newFakeOrderGateway(customers)}
	storeFake := newMemStore()
	svc := NewOrderService(gateway, customers, newTestEngine(storeFake), zerolog.Nop())

	customers.add("Ada")   // id 1
	customers.add("Grace") // id 2
	order := gateway.add("Shared project order", 1)

	// Warm the order entry and both customers' list views.
	_, err := svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	_, err = svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)
	_, err = svc.GetByCustomerID(ctx, 2)
	require.NoError(t, err)
	require.True(t, storeFake.has("store:orders:1"))
	require.True(t, storeFake.has("store:orders-by-customer:1"))
	require.True(t, storeFake.has("store:orders-by-customer:2"))

	// The save persists the reassignment; the reload after it fails.
	_, err = svc.Update(ctx, order.ID, "Shared project order", 2)
	require.Error(t, err)
	assert.Equal(t, int64(2), gateway.orders[order.ID].CustomerID)

	// The durable mutation already ran, so every eviction it owes ran too.
	assert.False(t, storeFake.has("store:orders:1"))
	assert.False(t, storeFake.has("store:orders-by-customer:1"))
	assert.False(t, storeFake.has("store:orders-by-customer:2"))

	// A follow-up read rebuilds from the database, not a stale entry.
	adaOrders, err := svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, adaOrders)

	graceOrders, err := svc.GetByCustomerID(ctx, 2)
	require.NoError(t, err)
	require.Len(t, graceOrders, 1)
	assert.Equal(t, order.ID, graceOrders[0].ID)
}

func TestOrderUpdate_SameCustomerEvictsOneList(t *testing.T) {
	ctx := context.Background()
	svc, gateway, customers, storeFake := newOrderFixture()
	customers.add("Ada")
	order := gateway.add("Original order text", 1)

	_, err := svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)
	require.True(t, storeFake.has("store:orders-by-customer:1"))

	_, err = svc.Update(ctx, order.ID, "Corrected order text", 1)
	require.NoError(t, err)
	assert.False(t, storeFake.has("store:orders-by-customer:1"))
}

func TestOrderUpdate_UnknownOrderFailsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, customers, _ := newOrderFixture()
	customers.add("Ada")

	_, err := svc.Update(ctx, 404, "Ghost order text", 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestOrderUpdate_UnknownTargetCustomerFailsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, gateway, customers, _ := newOrderFixture()
	customers.add("Ada")
	order := gateway.add("Order to move", 1)

	_, err := svc.Update(ctx, order.ID, "Order to move", 404)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 0, gateway.saveCalls)
}

func TestOrderDelete_EvictsEntryAndOwnerList(t *testing.T) {
	ctx := context.Background()
	svc, gateway, customers, storeFake := newOrderFixture()
	customers.add("Ada")
	order := gateway.add("Order to remove", 1)

	_, err := svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	_, err = svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, order.ID))

	assert.False(t, storeFake.has("store:orders:1"))
	assert.False(t, storeFake.has("store:orders-by-customer:1"))
	assert.Equal(t, 1, gateway.deleteCalls)
}

func TestOrderDelete_UnknownIDFailsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, gateway, _, _ := newOrderFixture()

	err := svc.Delete(ctx, 404)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 0, gateway.deleteCalls)
}

func TestOrderService_CacheOutageFailsOpen(t *testing.T) {
	ctx := context.Background()
	svc, gateway, customers, storeFake := newOrderFixture()
	customers.add("Ada")
	gateway.add("Order under outage", 1)
	storeFake.failing = true

	order, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "Order under outage", order.Description)

	orders, err := svc.GetByCustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = svc.Create(ctx, "Created under outage", 1)
	require.NoError(t, err)
}
