package repositories

import (
	"context"
	"errors"

	"stockledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	GetByName(ctx context.Context, name string) (*models.Location, error)
	List(ctx context.Context) ([]*models.Location, error)
}

type locationRepo struct {
	db Database
}

func NewLocationRepo(db Database) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Create(ctx context.Context, location *models.Location) error {
	query := `
		INSERT INTO locations (id, name, type, address, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, location.ID, location.Name, location.Type, location.Address)
	return err
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	location := &models.Location{}
	query := `
		SELECT id, name, type, address, created_at
		FROM locations
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&location.ID, &location.Name, &location.Type, &location.Address, &location.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return location, nil
}

func (r *locationRepo) GetByName(ctx context.Context, name string) (*models.Location, error) {
	location := &models.Location{}
	query := `
		SELECT id, name, type, address, created_at
		FROM locations
		WHERE name = $1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&location.ID, &location.Name, &location.Type, &location.Address, &location.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return location, nil
}

func (r *locationRepo) List(ctx context.Context) ([]*models.Location, error) {
	query := `
		SELECT id, name, type, address, created_at
		FROM locations
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		location := &models.Location{}
		if err := rows.Scan(&location.ID, &location.Name, &location.Type, &location.Address, &location.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, rows.Err()
}
