package repositories

import (
	"context"
	"fmt"

	"stockledger/internal/models"

	"github.com/google/uuid"
)

// MovementRepository is the append-only ledger. There is deliberately no
// update or delete method.
type MovementRepository interface {
	Create(ctx context.Context, movement *models.StockMovement) error
	ListRecent(ctx context.Context, filter *models.MovementFilter) ([]*models.MovementDetail, error)
	ListAllAscending(ctx context.Context) ([]*models.StockMovement, error)
}

type movementRepo struct {
	db Database
}

func NewMovementRepo(db Database) MovementRepository {
	return &movementRepo{db: db}
}

// Create appends one ledger entry, assigning id and commit timestamp when the
// caller has not set them.
func (r *movementRepo) Create(ctx context.Context, movement *models.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	query := `
		INSERT INTO stock_movements (id, type, product_id, quantity, from_location_id, to_location_id, reference, partner, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		movement.ID, movement.Type, movement.ProductID, movement.Quantity,
		movement.FromLocationID, movement.ToLocationID, movement.Reference, movement.Partner,
	).Scan(&movement.CreatedAt)
}

func (r *movementRepo) ListRecent(ctx context.Context, filter *models.MovementFilter) ([]*models.MovementDetail, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT m.id, m.type, m.product_id, m.quantity, m.from_location_id, m.to_location_id,
		       m.reference, m.partner, m.created_at, p.name, lf.name, lt.name
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		LEFT JOIN locations lf ON lf.id = m.from_location_id
		LEFT JOIN locations lt ON lt.id = m.to_location_id
	`
	args := []any{}
	pos := 1
	where := ""
	if filter.ProductID != nil {
		where += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, *filter.ProductID)
		pos++
	}
	if filter.LocationID != nil {
		where += fmt.Sprintf(" AND (m.from_location_id = $%d OR m.to_location_id = $%d)", pos, pos)
		args = append(args, *filter.LocationID)
		pos++
	}
	if filter.Type != nil {
		where += fmt.Sprintf(" AND m.type = $%d", pos)
		args = append(args, *filter.Type)
		pos++
	}
	if where != "" {
		query += " WHERE" + where[4:]
	}
	query += fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*models.MovementDetail
	for rows.Next() {
		m := &models.MovementDetail{}
		if err := rows.Scan(&m.ID, &m.Type, &m.ProductID, &m.Quantity, &m.FromLocationID, &m.ToLocationID,
			&m.Reference, &m.Partner, &m.CreatedAt, &m.ProductName, &m.FromLocationName, &m.ToLocationName); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// ListAllAscending returns the full ledger in commit order, for projection
// replay.
func (r *movementRepo) ListAllAscending(ctx context.Context) ([]*models.StockMovement, error) {
	query := `
		SELECT id, type, product_id, quantity, from_location_id, to_location_id, reference, partner, created_at
		FROM stock_movements
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*models.StockMovement
	for rows.Next() {
		m := &models.StockMovement{}
		if err := rows.Scan(&m.ID, &m.Type, &m.ProductID, &m.Quantity, &m.FromLocationID, &m.ToLocationID, &m.Reference, &m.Partner, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
