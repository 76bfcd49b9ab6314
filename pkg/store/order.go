package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/pkg/db"
)

// OrderGateway executes order queries against the relational store.
type OrderGateway struct {
	manager *db.Manager
}

// FindByID finds an order by id without loading relations.
// Returns (nil, nil) when absent.
func (g *OrderGateway) FindByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	var order Order
	result := g.manager.DB().WithContext(ctx).First(&order, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return &order, nil
}

// FindByIDEager finds an order with its owning customer and products
// fetched in the same logical round trip. Returns (nil, nil) when absent.
func (g *OrderGateway) FindByIDEager(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	var order Order
	result := g.manager.DB().WithContext(ctx).
		Preload("Customer").
		Preload("Products").
		First(&order, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return &order, nil
}

// FindByCustomerID returns every order owned by one customer, customer and
// products eagerly loaded. An unknown customer yields an empty result.
func (g *OrderGateway) FindByCustomerID(ctx context.Context, customerID int64) ([]Order, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	var orders []Order
	result := g.manager.DB().WithContext(ctx).
		Preload("Customer").
		Preload("Products").
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&orders)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return orders, nil
}

// FindPageEager returns one page of orders with customer and products
// eagerly loaded.
func (g *OrderGateway) FindPageEager(ctx context.Context, page, size int) ([]Order, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	limit, offset := pageBounds(page, size)

	var orders []Order
	result := g.manager.DB().WithContext(ctx).
		Preload("Customer").
		Preload("Products").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&orders)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return orders, nil
}

// Save persists an order; inserts when the id is zero, updates otherwise.
// Only the row itself is written; customer reassignment goes through
// CustomerID, never through the association.
func (g *OrderGateway) Save(ctx context.Context, order *Order) error {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	if err := g.manager.DB().WithContext(ctx).Omit(clause.Associations).Save(order).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

// DeleteByID deletes an order and its join rows in one transaction.
func (g *OrderGateway) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	err := g.manager.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM order_product WHERE order_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Order{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}
