package models

import (
	"time"

	"github.com/google/uuid"
)

// Location types recognized at creation time.
const (
	LocationTypeInternal  = "internal"
	LocationTypeWarehouse = "warehouse"
	LocationTypeLocation  = "location"
)

type Location struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Type      string    `json:"type" db:"type"`
	Address   *string   `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidLocationType reports whether t is one of the recognized type tags.
func ValidLocationType(t string) bool {
	switch t {
	case LocationTypeInternal, LocationTypeWarehouse, LocationTypeLocation:
		return true
	}
	return false
}
