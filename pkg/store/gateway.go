// Package store is the persistence gateway: entity-shaped read/write
// operations against the relational store, executed with GORM.
//
// Reads come in two shapes. Plain variants fetch the entity alone; eager
// variants pull one hop of the relationship in the same round trip
// (Preload), so a response that embeds related rows costs O(1) queries
// instead of one query per row. The caller decides fetch cost at the call
// site; nothing here loads lazily.
package store

import (
	"context"

	"storefront/pkg/db"
)

// Gateway bundles the per-entity gateways over one database manager.
type Gateway struct {
	Customers *CustomerGateway
	Orders    *OrderGateway
	Products  *ProductGateway
}

// NewGateway creates the persistence gateway over the given manager.
func NewGateway(manager *db.Manager) *Gateway {
	return &Gateway{
		Customers: &CustomerGateway{manager: manager},
		Orders:    &OrderGateway{manager: manager},
		Products:  &ProductGateway{manager: manager},
	}
}

// withQueryTimeout wraps a context with the configured query timeout
func withQueryTimeout(ctx context.Context, manager *db.Manager) (context.Context, context.CancelFunc) {
	if manager != nil && manager.Config() != nil {
		timeout := manager.Config().QueryTimeout
		if timeout > 0 {
			return context.WithTimeout(ctx, timeout)
		}
	}
	return ctx, func() {}
}

// pageBounds normalizes 1-based page parameters into limit/offset.
func pageBounds(page, size int) (limit, offset int) {
	if size < 1 {
		size = 20
	}
	if page < 1 {
		page = 1
	}
	return size, (page - 1) * size
}
