package models

import (
	"time"

	"github.com/google/uuid"
)

// Movement types accepted by the ledger.
const (
	MovementIn       = "IN"
	MovementOut      = "OUT"
	MovementTransfer = "TRANSFER"
)

// StockMovement is one committed ledger entry. Rows are append-only: once
// written they are never updated or deleted.
//
// Location rules per type: IN sets only ToLocationID, OUT sets only
// FromLocationID, TRANSFER sets both (distinct). A nil location on one side
// means the counterparty is an external partner.
type StockMovement struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Type           string     `json:"type" db:"type"`
	ProductID      uuid.UUID  `json:"product_id" db:"product_id"`
	Quantity       int        `json:"quantity" db:"quantity"`
	FromLocationID *uuid.UUID `json:"from_location_id" db:"from_location_id"`
	ToLocationID   *uuid.UUID `json:"to_location_id" db:"to_location_id"`
	Reference      *string    `json:"reference" db:"reference"`
	Partner        *string    `json:"partner" db:"partner"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// ValidMovementType reports whether t is IN, OUT, or TRANSFER.
func ValidMovementType(t string) bool {
	switch t {
	case MovementIn, MovementOut, MovementTransfer:
		return true
	}
	return false
}

// MovementDetail is a StockMovement joined with product and location names
// for history and dashboard views.
type MovementDetail struct {
	StockMovement
	ProductName      string  `json:"product_name"`
	FromLocationName *string `json:"from_location_name"`
	ToLocationName   *string `json:"to_location_name"`
}

// MovementFilter narrows history queries.
type MovementFilter struct {
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	LocationID *uuid.UUID `json:"location_id,omitempty"` // matches either endpoint
	Type       *string    `json:"type,omitempty"`
	Limit      int        `json:"limit,omitempty"`
}

// MovementRequest is the engine's input. ProductRef may be a product id or a
// SKU. LocationID is a shorthand convenience: for IN it fills ToLocationID
// when absent, for OUT it fills FromLocationID when absent.
type MovementRequest struct {
	Type           string     `json:"type"`
	ProductRef     string     `json:"product_id"`
	Quantity       int        `json:"quantity"`
	FromLocationID *uuid.UUID `json:"from_location_id"`
	ToLocationID   *uuid.UUID `json:"to_location_id"`
	LocationID     *uuid.UUID `json:"location_id"`
	Reference      *string    `json:"reference"`
	Partner        *string    `json:"partner"`
}
