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

// ProductGateway executes product queries against the relational store.
type ProductGateway struct {
	manager *db.Manager
}

// FindByID finds a product by id. Returns (nil, nil) when absent.
func (g *ProductGateway) FindByID(ctx context.Context, id int64) (*Product, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	var product Product
	result := g.manager.DB().WithContext(ctx).First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return &product, nil
}

// SearchByDescription finds products whose description contains the given
// substring (case-insensitive). Product responses embed no relations, so
// the plain shape is the cheap and correct one here.
func (g *ProductGateway) SearchByDescription(ctx context.Context, description string) ([]Product, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	var products []Product
	result := g.manager.DB().WithContext(ctx).
		Where("LOWER(description) LIKE ?", "%"+strings.ToLower(description)+"%").
		Order("id").
		Find(&products)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return products, nil
}

// FindPage returns one page of products.
func (g *ProductGateway) FindPage(ctx context.Context, page, size int) ([]Product, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	limit, offset := pageBounds(page, size)

	var products []Product
	result := g.manager.DB().WithContext(ctx).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&products)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	return products, nil
}

// Save persists a product; inserts when the id is zero, updates otherwise.
func (g *ProductGateway) Save(ctx context.Context, product *Product) error {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	if err := g.manager.DB().WithContext(ctx).Omit(clause.Associations).Save(product).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

// DeleteByID deletes a product, removing it from the join relation first.
func (g *ProductGateway) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	err := g.manager.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM order_product WHERE product_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Product{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

// ExistsByID checks whether a product with the given id exists.
func (g *ProductGateway) ExistsByID(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := withQueryTimeout(ctx, g.manager)
	defer cancel()

	var count int64
	result := g.manager.DB().WithContext(ctx).Model(&Product{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("database error: %w", result.Error)
	}
	return count > 0, nil
}
