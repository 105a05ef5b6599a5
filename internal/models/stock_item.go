package models

import (
	"time"

	"github.com/google/uuid"
)

// StockItem is the per (product, location) projection of the movement ledger.
// Quantity is never negative; a zero-quantity row is retained rather than
// deleted once created.
type StockItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProductID  uuid.UUID `json:"product_id" db:"product_id"`
	LocationID uuid.UUID `json:"location_id" db:"location_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// StockLevel is a StockItem joined with product and location names for
// read-side consumers (stock list, dashboard).
type StockLevel struct {
	StockItem
	ProductName  string  `json:"product_name"`
	ProductSKU   *string `json:"product_sku"`
	LocationName string  `json:"location_name"`
}
