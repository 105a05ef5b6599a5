package caching

import (
	"context"
	"time"

	"stockledger/internal/models"

	"github.com/google/uuid"
)

// noopCacheService misses on every read and discards every write. Used when
// caching is disabled and in tests that exercise the database paths directly.
type noopCacheService struct{}

func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetProduct(context.Context, uuid.UUID) (*models.Product, error) {
	return nil, nil
}

func (noopCacheService) SetProduct(context.Context, *models.Product, time.Duration) error {
	return nil
}

func (noopCacheService) DeleteProduct(context.Context, uuid.UUID) error { return nil }

func (noopCacheService) GetStockLevels(context.Context) ([]*models.StockLevel, error) {
	return nil, nil
}

func (noopCacheService) SetStockLevels(context.Context, []*models.StockLevel, time.Duration) error {
	return nil
}

func (noopCacheService) InvalidateStockLevels(context.Context) error { return nil }

func (noopCacheService) Ping(context.Context) error { return nil }
