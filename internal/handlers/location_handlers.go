package handlers

import (
	"net/http"

	"stockledger/internal/common"
	"stockledger/internal/models"
	"stockledger/internal/services"

	"github.com/labstack/echo/v4"
)

// LocationHandlers handles location catalog HTTP requests.
type LocationHandlers struct {
	locationService services.LocationService
}

func NewLocationHandlers(locationService services.LocationService) *LocationHandlers {
	return &LocationHandlers{locationService: locationService}
}

// CreateLocationRequest represents the location creation payload.
type CreateLocationRequest struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Address *string `json:"address"`
}

// CreateLocation handles POST /api/locations.
func (h *LocationHandlers) CreateLocation(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateLocationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "Name is required")
	}
	if req.Type != "" && !models.ValidLocationType(req.Type) {
		return common.SendValidationError(c, "Unknown location type")
	}

	location := &models.Location{
		Name:    req.Name,
		Type:    req.Type,
		Address: req.Address,
	}
	if err := h.locationService.Create(ctx, location); err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Error creating location")
	}

	return c.JSON(http.StatusCreated, location)
}

// ListLocations handles GET /api/locations.
func (h *LocationHandlers) ListLocations(c echo.Context) error {
	ctx := c.Request().Context()

	locations, err := h.locationService.List(ctx)
	if err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to list locations")
	}

	return c.JSON(http.StatusOK, locations)
}

// Seed handles POST /api/seed, idempotently creating starter locations.
func (h *LocationHandlers) Seed(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.locationService.SeedDefaults(ctx); err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Seed failed")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Seed complete"})
}
