package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockledger/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService fronts hot read paths. Misses and failures fall through to the
// database; a broken cache never fails a request.
type CacheService interface {
	// Product caching
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	// Stock-level list caching
	GetStockLevels(ctx context.Context) ([]*models.StockLevel, error)
	SetStockLevels(ctx context.Context, levels []*models.StockLevel, ttl time.Duration) error
	InvalidateStockLevels(ctx context.Context) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port URLs as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	return &redisCacheService{client: client}
}

const stockLevelsKey = "stockledger:stock_levels"

func productKey(productID uuid.UUID) string {
	return fmt.Sprintf("stockledger:product:%s", productID.String())
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	data, err := r.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productKey(product.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return r.client.Del(ctx, productKey(productID)).Err()
}

func (r *redisCacheService) GetStockLevels(ctx context.Context) ([]*models.StockLevel, error) {
	data, err := r.client.Get(ctx, stockLevelsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var levels []*models.StockLevel
	if err := json.Unmarshal(data, &levels); err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *redisCacheService) SetStockLevels(ctx context.Context, levels []*models.StockLevel, ttl time.Duration) error {
	data, err := json.Marshal(levels)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, stockLevelsKey, data, ttl).Err()
}

func (r *redisCacheService) InvalidateStockLevels(ctx context.Context) error {
	return r.client.Del(ctx, stockLevelsKey).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
