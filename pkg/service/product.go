package service

import (
	"context"

	"github.com/rs/zerolog"

	"storefront/pkg/cache"
	"storefront/pkg/store"
)

// ProductGateway is the persistence surface the product service uses.
type ProductGateway interface {
	FindByID(ctx context.Context, id int64) (*store.Product, error)
	SearchByDescription(ctx context.Context, description string) ([]store.Product, error)
	FindPage(ctx context.Context, page, size int) ([]store.Product, error)
	Save(ctx context.Context, product *store.Product) error
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// ProductService orchestrates product reads and writes. Structurally the
// customer service without relationships: product mutations never touch
// order caches, so an order embedding a product snapshot may serve the old
// description until its TTL runs out. Callers needing strict freshness
// should read the product itself.
type ProductService struct {
	gateway ProductGateway
	cache   *cache.Engine
	logger  zerolog.Logger
}

// NewProductService creates a product service.
func NewProductService(gateway ProductGateway, engine *cache.Engine, logger zerolog.Logger) *ProductService {
	return &ProductService{gateway: gateway, cache: engine, logger: logger}
}

// GetByID returns a product, read through the cache.
// Returns (nil, nil) when the id does not exist.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductDTO, error) {
	return cache.CachedRead(ctx, s.cache, cache.NamespaceProducts, cache.EntityKey(id),
		func(ctx context.Context) (*ProductDTO, error) {
			product, err := s.gateway.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return productToDTO(product), nil
		})
}

// Search returns products whose description contains the given substring,
// case-insensitive, read through the search cache.
func (s *ProductService) Search(ctx context.Context, description string) ([]ProductDTO, error) {
	return cache.CachedRead(ctx, s.cache, cache.NamespaceProductSearch, cache.SearchKey(description),
		func(ctx context.Context) ([]ProductDTO, error) {
			products, err := s.gateway.SearchByDescription(ctx, description)
			if err != nil {
				return nil, err
			}
			return productsToDTOs(products), nil
		})
}

// List returns one page of products. Not cached.
func (s *ProductService) List(ctx context.Context, page, size int) ([]ProductDTO, error) {
	products, err := s.gateway.FindPage(ctx, page, size)
	if err != nil {
		return nil, err
	}
	return productsToDTOs(products), nil
}

// Create persists a new product, primes its entry, and clears the search
// namespace.
func (s *ProductService) Create(ctx context.Context, description string) (*ProductDTO, error) {
	s.logger.Info().Str("description", description).Msg("creating product")

	product := &store.Product{Description: description}
	if err := s.gateway.Save(ctx, product); err != nil {
		return nil, err
	}

	dto := productToDTO(product)
	s.cache.Prime(ctx, cache.NamespaceProducts, cache.EntityKey(product.ID), dto)
	s.cache.InvalidateNamespace(ctx, cache.NamespaceProductSearch)

	s.logger.Info().Int64("product_id", product.ID).Msg("product created")
	return dto, nil
}

// Update changes a product's description, loaded from the gateway to avoid
// acting on stale data. Fails NotFound when the id does not exist.
func (s *ProductService) Update(ctx context.Context, id int64, description string) (*ProductDTO, error) {
	s.logger.Info().Int64("product_id", id).Msg("updating product")

	product, err := s.gateway.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, NewNotFound("Product", id)
	}

	product.Description = description
	if err := s.gateway.Save(ctx, product); err != nil {
		return nil, err
	}

	dto := productToDTO(product)
	s.cache.Prime(ctx, cache.NamespaceProducts, cache.EntityKey(id), dto)
	s.cache.InvalidateNamespace(ctx, cache.NamespaceProductSearch)

	return dto, nil
}

// Delete removes a product; the gateway also clears its join rows. Evicts
// the product entry and the search namespace; order caches embedding this
// product are left to their TTL (accepted trade-off). Fails NotFound when
// the id does not exist.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	s.logger.Info().Int64("product_id", id).Msg("deleting product")

	exists, err := s.gateway.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return NewNotFound("Product", id)
	}

	if err := s.gateway.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.NamespaceProducts, cache.EntityKey(id))
	s.cache.InvalidateNamespace(ctx, cache.NamespaceProductSearch)

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}
