package services

import "errors"

// Rejection reasons surfaced by the movement engine. All are caller-input or
// business-rule failures: reported synchronously, never retried, never
// partially applied.
var (
	ErrInvalidType       = errors.New("invalid movement type")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrMissingLocation   = errors.New("required location is missing")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock at source location")
)

// ErrStorageUnavailable wraps storage-layer failures. No partial write has
// occurred, so the caller may safely retry.
var ErrStorageUnavailable = errors.New("storage unavailable")
