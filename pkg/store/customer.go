package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/pkg/db"
)

// CustomerGateway executes customer queries against the relational store.
type CustomerGateway struct {
	manager *db.Manager
}

// FindByID finds a customer by id. Returns (nil, nil) when absent.
func (g *CustomerGateway) FindByID(ctx context.Context, id int64) (*Customer, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	var customer Customer
	result := g.manager.DB().WithContext(ctx).First(&customer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return &customer, nil
}

// FindByIDWithOrders finds a customer with its orders fetched in the same
// round trip. Returns (nil, nil) when absent.
func (g *CustomerGateway) FindByIDWithOrders(ctx context.Context, id int64) (*Customer, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	var customer Customer
	result := g.manager.DB().WithContext(ctx).Preload("Orders").First(&customer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return &customer, nil
}

// FindPageWithOrders returns one page of customers with orders eagerly
// loaded, keeping the page-sized cost at O(1) queries.
func (g *CustomerGateway) FindPageWithOrders(ctx context.Context, page, size int) ([]Customer, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	limit, offset := pageBounds(page, size)

	var customers []Customer
	result := g.manager.DB().WithContext(ctx).
		Preload("Orders").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&customers)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return customers, nil
}

// SearchByNameWithOrders finds customers whose name contains the given
// substring (case-insensitive), orders eagerly loaded.
func (g *CustomerGateway) SearchByNameWithOrders(ctx context.Context, name string) ([]Customer, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	var customers []Customer
	result := g.manager.DB().WithContext(ctx).
		Preload("Orders").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("id").
		Find(&customers)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return customers, nil
}

// Save persists a customer; inserts when the id is zero, updates otherwise.
// Associations are never written through Save.
func (g *CustomerGateway) Save(ctx context.Context, customer *Customer) error {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	if err := g.manager.DB().WithContext(ctx).Omit(clause.Associations).Save(customer).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

// DeleteByID deletes a customer, cascading deletion of its orders and
// their join rows in one transaction.
func (g *CustomerGateway) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	err := g.manager.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderIDs []int64
		if err := tx.Model(&Order{}).Where("customer_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Exec("DELETE FROM order_product WHERE order_id IN ?", orderIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("customer_id = ?", id).Delete(&Order{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&Customer{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

// ExistsByID checks whether a customer with the given id exists.
func (g *CustomerGateway) ExistsByID(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	var count int64
	result := g.manager.DB().WithContext(ctx).Model(&Customer{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("database error: %w", result.Error)
	}
	return count > 0, nil
}
