package services

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrLocationNotFound = errors.New("location not found")

	// ErrInvalidTransition means the requested edge is not in the allowed
	// table; retrying will not help.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrConcurrentModification means the conditional update lost a race
	// against another writer; the caller should re-read and may retry.
	ErrConcurrentModification = errors.New("order changed concurrently")

	ErrUnauthenticatedEvent = errors.New("payment event failed signature verification")
	ErrQuotaExceeded        = errors.New("subscription quota exceeded")
	ErrInvalidEstimate      = errors.New("estimated minutes must not be negative")
	ErrForbidden            = errors.New("resource belongs to another restaurant")
)
