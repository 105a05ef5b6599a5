package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"stockledger/internal/caching"
	"stockledger/internal/models"
	"stockledger/internal/repositories"

	"github.com/google/uuid"
)

const stockLevelsCacheTTL = time.Minute

// MovementService is the stock-movement ledger engine. ApplyMovement validates
// a requested transaction, checks feasibility against the projection, and
// commits the ledger append together with the projection update as one
// transaction.
type MovementService interface {
	ApplyMovement(ctx context.Context, req *models.MovementRequest) (*models.StockMovement, error)
	ListRecentMovements(ctx context.Context, filter *models.MovementFilter) ([]*models.MovementDetail, error)
	ListStockLevels(ctx context.Context) ([]*models.StockLevel, error)
}

type movementService struct {
	resolver     ProductResolver
	txRunner     repositories.TxRunner
	movementRepo repositories.MovementRepository
	stockRepo    repositories.StockItemRepository
	cacheService caching.CacheService
}

func NewMovementService(
	resolver ProductResolver,
	txRunner repositories.TxRunner,
	movementRepo repositories.MovementRepository,
	stockRepo repositories.StockItemRepository,
	cacheService caching.CacheService,
) MovementService {
	return &movementService{
		resolver:     resolver,
		txRunner:     txRunner,
		movementRepo: movementRepo,
		stockRepo:    stockRepo,
		cacheService: cacheService,
	}
}

// normalizeRequest applies the locationId shorthand before validation: for IN
// it fills the destination, for OUT the source, when the explicit field is
// absent.
func normalizeRequest(req *models.MovementRequest) {
	if req.LocationID == nil {
		return
	}
	if req.Type == models.MovementIn && req.ToLocationID == nil {
		req.ToLocationID = req.LocationID
	}
	if req.Type == models.MovementOut && req.FromLocationID == nil {
		req.FromLocationID = req.LocationID
	}
}

// validateRequest enforces the per-type shape rules. Product resolution
// happens separately so a storage miss is distinguishable from a malformed
// request.
func validateRequest(req *models.MovementRequest) error {
	if !models.ValidMovementType(req.Type) {
		return ErrInvalidType
	}
	if req.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	switch req.Type {
	case models.MovementIn:
		if req.ToLocationID == nil {
			return ErrMissingLocation
		}
	case models.MovementOut:
		if req.FromLocationID == nil {
			return ErrMissingLocation
		}
	case models.MovementTransfer:
		if req.FromLocationID == nil || req.ToLocationID == nil {
			return ErrMissingLocation
		}
		if *req.FromLocationID == *req.ToLocationID {
			return ErrMissingLocation
		}
	}
	return nil
}

// ApplyMovement commits one movement or rejects it with a distinguishable
// reason. Rejections leave both the ledger and the projection untouched.
func (s *movementService) ApplyMovement(ctx context.Context, req *models.MovementRequest) (*models.StockMovement, error) {
	normalizeRequest(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product, err := s.resolver.Resolve(ctx, req.ProductRef)
	if err != nil {
		return nil, err
	}

	movement := &models.StockMovement{
		ID:        uuid.New(),
		Type:      req.Type,
		ProductID: product.ID,
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Partner:   req.Partner,
	}

	err = s.txRunner.Run(ctx, func(movements repositories.MovementRepository, stock repositories.StockItemRepository) error {
		switch req.Type {
		case models.MovementIn:
			movement.ToLocationID = req.ToLocationID
			if err := movements.Create(ctx, movement); err != nil {
				return err
			}
			return stock.AddQuantity(ctx, product.ID, *req.ToLocationID, req.Quantity)

		case models.MovementOut:
			movement.FromLocationID = req.FromLocationID
			// Debit before appending: an infeasible request must never
			// write a ledger row.
			ok, err := stock.TryDebit(ctx, product.ID, *req.FromLocationID, req.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientStock
			}
			return movements.Create(ctx, movement)

		case models.MovementTransfer:
			movement.FromLocationID = req.FromLocationID
			movement.ToLocationID = req.ToLocationID
			ok, err := stock.TryDebit(ctx, product.ID, *req.FromLocationID, req.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientStock
			}
			if err := movements.Create(ctx, movement); err != nil {
				return err
			}
			return stock.AddQuantity(ctx, product.ID, *req.ToLocationID, req.Quantity)
		}
		return ErrInvalidType
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if cacheErr := s.cacheService.InvalidateStockLevels(ctx); cacheErr != nil {
		log.Printf("failed to invalidate stock levels cache: %v", cacheErr)
	}

	return movement, nil
}

func (s *movementService) ListRecentMovements(ctx context.Context, filter *models.MovementFilter) ([]*models.MovementDetail, error) {
	if filter == nil {
		filter = &models.MovementFilter{}
	}
	movements, err := s.movementRepo.ListRecent(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return movements, nil
}

func (s *movementService) ListStockLevels(ctx context.Context) ([]*models.StockLevel, error) {
	if cached, err := s.cacheService.GetStockLevels(ctx); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("cache error for stock levels: %v", err)
	}

	levels, err := s.stockRepo.ListLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if cacheErr := s.cacheService.SetStockLevels(ctx, levels, stockLevelsCacheTTL); cacheErr != nil {
		log.Printf("failed to cache stock levels: %v", cacheErr)
	}
	return levels, nil
}

// StockKey identifies one projection cell.
type StockKey struct {
	ProductID  uuid.UUID
	LocationID uuid.UUID
}

// ReplayProjection folds a movement sequence, in commit order, into the
// quantities the projection should hold. Every pair a movement ever touched
// is present in the result, including pairs that net to zero.
func ReplayProjection(movements []*models.StockMovement) map[StockKey]int {
	quantities := make(map[StockKey]int)
	for _, m := range movements {
		switch m.Type {
		case models.MovementIn:
			if m.ToLocationID != nil {
				quantities[StockKey{m.ProductID, *m.ToLocationID}] += m.Quantity
			}
		case models.MovementOut:
			if m.FromLocationID != nil {
				quantities[StockKey{m.ProductID, *m.FromLocationID}] -= m.Quantity
			}
		case models.MovementTransfer:
			if m.FromLocationID != nil {
				quantities[StockKey{m.ProductID, *m.FromLocationID}] -= m.Quantity
			}
			if m.ToLocationID != nil {
				quantities[StockKey{m.ProductID, *m.ToLocationID}] += m.Quantity
			}
		}
	}
	return quantities
}
