package handlers

import (
	"net/http"

	"stockledger/internal/common"
	"stockledger/internal/models"
	"stockledger/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers handles product catalog HTTP requests.
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// CreateProductRequest represents the product creation payload.
type CreateProductRequest struct {
	Name     string  `json:"name"`
	SKU      *string `json:"sku"`
	Category *string `json:"category"`
}

// CreateProduct handles POST /api/products.
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "Product name required")
	}

	product := &models.Product{
		Name:     req.Name,
		SKU:      req.SKU,
		Category: req.Category,
	}
	if err := h.productService.Create(ctx, product); err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to create product")
	}

	return c.JSON(http.StatusCreated, product)
}

// ListProducts handles GET /api/products.
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.List(ctx)
	if err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to list products")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"products": products,
	})
}
