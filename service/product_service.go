// file: service/product_service.go

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Lawrence9908/ecommerce-backend-api/cache"
	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/metrics"
	"github.com/Lawrence9908/ecommerce-backend-api/model"
	"github.com/Lawrence9908/ecommerce-backend-api/repository"
	"github.com/Lawrence9908/ecommerce-backend-api/storage"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrNoFeaturedProducts = errors.New("no featured products found")
	ErrInvalidImage       = errors.New("invalid product image")
)

// RecommendedSize is how many products the recommendations endpoint samples.
const RecommendedSize = 4

// ProductService owns the product catalogue and the featured products cache.
// The cache entry has no expiration; it is filled on the first read miss and
// overwritten after every change to a product's featured flag.
type ProductService struct {
	repo   repository.IProductRepository
	cache  ICacheClient
	assets storage.AssetStore
}

func NewProductService(repo repository.IProductRepository, cacheClient ICacheClient, assets storage.AssetStore) *ProductService {
	return &ProductService{
		repo:   repo,
		cache:  cacheClient,
		assets: assets,
	}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.repo.GetAllProducts(ctx)
}

func (s *ProductService) ListProductsByCategory(ctx context.Context, category string) ([]*model.Product, error) {
	return s.repo.GetProductsByCategory(ctx, category)
}

// CreateProduct uploads the optional image first and stores its URL with the product.
func (s *ProductService) CreateProduct(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.Image != "" {
		url, err := s.assets.Upload(ctx, req.Image)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedImage) || errors.Is(err, storage.ErrImageTooLarge) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
			}
			return nil, fmt.Errorf("could not upload image: %w", err)
		}
		product.Image = url
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if product.Image != "" {
			s.deleteAsset(ctx, product)
		}
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes the product and, best effort, its image.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return err
	}

	if product.Image != "" {
		s.deleteAsset(ctx, product)
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("could not delete product: %w", err)
	}

	if product.IsFeatured {
		if err := s.refreshFeaturedCache(ctx); err != nil {
			return err
		}
	}
	return nil
}

// GetFeaturedProducts is a read-through over the featured_products cache key.
func (s *ProductService) GetFeaturedProducts(ctx context.Context) ([]*model.Product, error) {
	cached, err := s.cache.Get(ctx, cache.FeaturedProductsKey).Result()
	switch {
	case err == nil:
		var products []*model.Product
		if jsonErr := json.Unmarshal([]byte(cached), &products); jsonErr == nil {
			metrics.FeaturedCacheHit()
			if products == nil {
				products = []*model.Product{}
			}
			return products, nil
		}
		logger.Log.Warn("Discarding undecodable featured products cache entry")
	case !errors.Is(err, redis.Nil):
		logger.Log.WithError(err).Warn("Featured products cache read failed, falling back to the database")
	}
	metrics.FeaturedCacheMiss()

	products, err := s.repo.GetFeaturedProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNoFeaturedProducts
	}

	if err := s.storeFeatured(ctx, products); err != nil {
		logger.Log.WithError(err).Warn("Could not cache featured products")
	}
	return products, nil
}

func (s *ProductService) GetRecommendedProducts(ctx context.Context) ([]model.RecommendedProduct, error) {
	return s.repo.GetRandomProducts(ctx, RecommendedSize)
}

// ToggleFeatured flips the featured flag and rewrites the featured cache
// before returning, so readers never see the previous state.
func (s *ProductService) ToggleFeatured(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.IsFeatured = !product.IsFeatured
	if err := s.repo.UpdateFeatured(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("could not update product: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"product_id":  product.ID,
		"is_featured": product.IsFeatured,
	}).Info("Product featured flag toggled")

	if err := s.refreshFeaturedCache(ctx); err != nil {
		return nil, err
	}
	return product, nil
}

// refreshFeaturedCache re-reads every featured product and overwrites the
// cache entry. When that is not possible the entry is dropped so the next
// read goes to the database; it only fails if the stale entry may survive.
func (s *ProductService) refreshFeaturedCache(ctx context.Context) error {
	products, err := s.repo.GetFeaturedProducts(ctx)
	if err == nil {
		err = s.storeFeatured(ctx, products)
	}
	if err == nil {
		return nil
	}

	logger.Log.WithError(err).Error("Error updating featured products cache")
	if delErr := s.cache.Del(ctx, cache.FeaturedProductsKey).Err(); delErr != nil {
		return fmt.Errorf("featured products cache is stale: %w", errors.Join(err, delErr))
	}
	return nil
}

func (s *ProductService) storeFeatured(ctx context.Context, products []*model.Product) error {
	if products == nil {
		products = []*model.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, cache.FeaturedProductsKey, data, 0).Err()
}

func (s *ProductService) getProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) deleteAsset(ctx context.Context, product *model.Product) {
	if !s.assets.Owns(product.Image) {
		logger.Log.WithField("product_id", product.ID).Debug("Product image is hosted elsewhere, leaving it in place")
		return
	}
	publicID := storage.PublicIDFromURL(product.Image)
	log := logger.Log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"public_id":  publicID,
	})
	if err := s.assets.Delete(ctx, publicID); err != nil {
		log.WithError(err).Error("Failed to delete product image")
		return
	}
	log.Info("Deleted product image")
}
