package handlers

import (
	"errors"
	"net/http"

	"stockledger/internal/common"
	"stockledger/internal/models"
	"stockledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MovementHandlers exposes the ledger engine over HTTP.
type MovementHandlers struct {
	movementService services.MovementService
}

func NewMovementHandlers(movementService services.MovementService) *MovementHandlers {
	return &MovementHandlers{movementService: movementService}
}

// movementErrorCode maps an engine rejection to its wire code and status.
func movementErrorCode(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidType):
		return http.StatusBadRequest, "INVALID_TYPE"
	case errors.Is(err, services.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, services.ErrMissingLocation):
		return http.StatusBadRequest, "MISSING_LOCATION"
	case errors.Is(err, services.ErrProductNotFound):
		return http.StatusBadRequest, "PRODUCT_NOT_FOUND"
	case errors.Is(err, services.ErrInsufficientStock):
		return http.StatusBadRequest, "INSUFFICIENT_STOCK"
	default:
		return http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
	}
}

// CreateMovement handles POST /api/movements.
func (h *MovementHandlers) CreateMovement(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.MovementRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "INVALID_QUANTITY", "Invalid request format")
	}

	movement, err := h.movementService.ApplyMovement(ctx, &req)
	if err != nil {
		status, code := movementErrorCode(err)
		if status == http.StatusServiceUnavailable {
			// Do not leak storage internals to the caller.
			return common.SendError(c, status, code, "Storage temporarily unavailable")
		}
		return common.SendError(c, status, code, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success":  true,
		"movement": movement,
	})
}

// ListMovementsRequest represents query parameters for movement history.
type ListMovementsRequest struct {
	Limit      int     `query:"limit"`
	ProductID  *string `query:"product_id"`
	LocationID *string `query:"location_id"`
	Type       *string `query:"type"`
}

// ListMovements handles GET /api/movements.
func (h *MovementHandlers) ListMovements(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListMovementsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid query parameters")
	}

	filter := &models.MovementFilter{Limit: req.Limit}
	if req.ProductID != nil && *req.ProductID != "" {
		id, err := uuid.Parse(*req.ProductID)
		if err != nil {
			return common.SendValidationError(c, "Invalid product_id format")
		}
		filter.ProductID = &id
	}
	if req.LocationID != nil && *req.LocationID != "" {
		id, err := uuid.Parse(*req.LocationID)
		if err != nil {
			return common.SendValidationError(c, "Invalid location_id format")
		}
		filter.LocationID = &id
	}
	if req.Type != nil && *req.Type != "" {
		filter.Type = req.Type
	}

	movements, err := h.movementService.ListRecentMovements(ctx, filter)
	if err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage temporarily unavailable")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"movements": movements,
	})
}

// ListStockLevels handles GET /api/stock.
func (h *MovementHandlers) ListStockLevels(c echo.Context) error {
	ctx := c.Request().Context()

	levels, err := h.movementService.ListStockLevels(ctx)
	if err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage temporarily unavailable")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"stock_levels": levels,
	})
}
