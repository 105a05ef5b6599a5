package repositories

import (
	"context"
	"errors"

	"stockledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StockItemRepository maintains the (product, location) quantity projection.
// Rows are created lazily by AddQuantity and never deleted; TryDebit is the
// only path that decreases a quantity and it refuses to go below zero.
type StockItemRepository interface {
	Get(ctx context.Context, productID, locationID uuid.UUID) (*models.StockItem, error)
	AddQuantity(ctx context.Context, productID, locationID uuid.UUID, delta int) error
	TryDebit(ctx context.Context, productID, locationID uuid.UUID, quantity int) (bool, error)
	ListAll(ctx context.Context) ([]*models.StockItem, error)
	ListLevels(ctx context.Context) ([]*models.StockLevel, error)
}

type stockItemRepo struct {
	db Database
}

func NewStockItemRepo(db Database) StockItemRepository {
	return &stockItemRepo{db: db}
}

// Get returns the projection row, or nil when no movement has touched the
// pair yet (treated as quantity zero by callers).
func (r *stockItemRepo) Get(ctx context.Context, productID, locationID uuid.UUID) (*models.StockItem, error) {
	item := &models.StockItem{}
	query := `
		SELECT id, product_id, location_id, quantity, updated_at
		FROM stock_items
		WHERE product_id = $1 AND location_id = $2
	`
	err := r.db.QueryRow(ctx, query, productID, locationID).Scan(&item.ID, &item.ProductID, &item.LocationID, &item.Quantity, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

// AddQuantity credits the pair, creating the row on first touch. Callers only
// use it with a non-negative delta; debits go through TryDebit.
func (r *stockItemRepo) AddQuantity(ctx context.Context, productID, locationID uuid.UUID, delta int) error {
	query := `
		INSERT INTO stock_items (id, product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id, location_id) DO UPDATE SET quantity = stock_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, uuid.New(), productID, locationID, delta)
	return err
}

// TryDebit atomically decrements the pair when enough stock is on hand. The
// conditional UPDATE takes a row lock, so concurrent debits against the same
// pair serialize and at most the feasible number succeed. Returns false when
// the row is absent or the balance is short.
func (r *stockItemRepo) TryDebit(ctx context.Context, productID, locationID uuid.UUID, quantity int) (bool, error) {
	query := `
		UPDATE stock_items
		SET quantity = quantity - $3, updated_at = NOW()
		WHERE product_id = $1 AND location_id = $2 AND quantity >= $3
	`
	tag, err := r.db.Exec(ctx, query, productID, locationID, quantity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *stockItemRepo) ListAll(ctx context.Context) ([]*models.StockItem, error) {
	query := `
		SELECT id, product_id, location_id, quantity, updated_at
		FROM stock_items
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.StockItem
	for rows.Next() {
		item := &models.StockItem{}
		if err := rows.Scan(&item.ID, &item.ProductID, &item.LocationID, &item.Quantity, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *stockItemRepo) ListLevels(ctx context.Context) ([]*models.StockLevel, error) {
	query := `
		SELECT s.id, s.product_id, s.location_id, s.quantity, s.updated_at, p.name, p.sku, l.name
		FROM stock_items s
		JOIN products p ON p.id = s.product_id
		JOIN locations l ON l.id = s.location_id
		ORDER BY p.name ASC, l.name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []*models.StockLevel
	for rows.Next() {
		level := &models.StockLevel{}
		if err := rows.Scan(&level.ID, &level.ProductID, &level.LocationID, &level.Quantity, &level.UpdatedAt, &level.ProductName, &level.ProductSKU, &level.LocationName); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}
