package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"stockledger/internal/caching"
	"stockledger/internal/models"
	"stockledger/internal/repositories"

	"github.com/google/uuid"
)

const productCacheTTL = 10 * time.Minute

// ProductResolver maps an opaque product reference (internal id or SKU) to
// the canonical product. The movement engine depends on this narrow surface.
type ProductResolver interface {
	Resolve(ctx context.Context, ref string) (*models.Product, error)
}

type ProductService interface {
	ProductResolver
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	Count(ctx context.Context) (int, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	cacheService caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, cacheService caching.CacheService) ProductService {
	return &productService{
		productRepo:  productRepo,
		cacheService: cacheService,
	}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheService.GetProduct(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("cache error for product %s: %v", id.String(), err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if product == nil {
		return nil, nil
	}

	if cacheErr := s.cacheService.SetProduct(ctx, product, productCacheTTL); cacheErr != nil {
		log.Printf("failed to cache product %s: %v", product.ID.String(), cacheErr)
	}
	return product, nil
}

// Resolve tries the reference as an internal id first, then falls back to a
// SKU lookup. A reference that is not a well-formed id is simply treated as a
// SKU, never as an error. No row either way yields ErrProductNotFound.
func (s *productService) Resolve(ctx context.Context, ref string) (*models.Product, error) {
	if ref == "" {
		return nil, ErrProductNotFound
	}

	if id, err := uuid.Parse(ref); err == nil {
		product, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
	}

	product, err := s.productRepo.GetBySKU(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if cacheErr := s.cacheService.SetProduct(ctx, product, productCacheTTL); cacheErr != nil {
		log.Printf("failed to cache product %s: %v", product.ID.String(), cacheErr)
	}
	return product, nil
}

func (s *productService) List(ctx context.Context) ([]*models.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return products, nil
}

func (s *productService) Count(ctx context.Context) (int, error) {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return count, nil
}
