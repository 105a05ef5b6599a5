package services

import (
	"context"
	"fmt"

	"stockledger/internal/models"
	"stockledger/internal/repositories"

	"github.com/google/uuid"
)

type LocationService interface {
	Create(ctx context.Context, location *models.Location) error
	List(ctx context.Context) ([]*models.Location, error)
	SeedDefaults(ctx context.Context) error
}

type locationService struct {
	locationRepo repositories.LocationRepository
}

func NewLocationService(locationRepo repositories.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

func (s *locationService) Create(ctx context.Context, location *models.Location) error {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	if location.Type == "" {
		location.Type = models.LocationTypeInternal
	}
	if !models.ValidLocationType(location.Type) {
		return fmt.Errorf("unknown location type %q", location.Type)
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *locationService) List(ctx context.Context) ([]*models.Location, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return locations, nil
}

// SeedDefaults creates the standard starter locations, skipping any that
// already exist.
func (s *locationService) SeedDefaults(ctx context.Context) error {
	names := []string{"Main Warehouse", "Production Floor", "Showroom"}
	for _, name := range names {
		existing, err := s.locationRepo.GetByName(ctx, name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		if existing != nil {
			continue
		}
		location := &models.Location{
			ID:   uuid.New(),
			Name: name,
			Type: models.LocationTypeInternal,
		}
		if err := s.locationRepo.Create(ctx, location); err != nil {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}
	return nil
}
