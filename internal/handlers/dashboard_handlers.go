package handlers

import (
	"net/http"

	"stockledger/internal/common"
	"stockledger/internal/models"
	"stockledger/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers assembles the overview payload: product count, recent
// movements, and current stock levels.
type DashboardHandlers struct {
	productService  services.ProductService
	movementService services.MovementService
}

func NewDashboardHandlers(productService services.ProductService, movementService services.MovementService) *DashboardHandlers {
	return &DashboardHandlers{
		productService:  productService,
		movementService: movementService,
	}
}

// GetDashboard handles GET /api/dashboard.
func (h *DashboardHandlers) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	totalProducts, err := h.productService.Count(ctx)
	if err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage temporarily unavailable")
	}

	recentMovements, err := h.movementService.ListRecentMovements(ctx, &models.MovementFilter{Limit: 20})
	if err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage temporarily unavailable")
	}

	stockLevels, err := h.movementService.ListStockLevels(ctx)
	if err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage temporarily unavailable")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total_products":   totalProducts,
		"recent_movements": recentMovements,
		"stock_levels":     stockLevels,
	})
}
