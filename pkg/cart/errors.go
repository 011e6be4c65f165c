package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated indicates a mutation was attempted without an
	// authenticated identity bound to the engine.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInsufficientBatchStock indicates the requested quantity exceeds the
	// selected batch's advertised availability.
	ErrInsufficientBatchStock = errors.New("insufficient batch stock")

	// ErrPersistenceUnavailable indicates the cart mutation was applied in
	// memory but could not be persisted. The in-memory cart remains the
	// source of truth; a later successful persist overwrites the stored copy.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrInvalidQuantity indicates a non-positive quantity argument.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrNegativePrice indicates a negative unit price argument.
	ErrNegativePrice = errors.New("unit price must not be negative")
)

// BatchStockError reports a quantity that exceeds a batch's availability.
// It matches ErrInsufficientBatchStock under errors.Is and carries the
// figures the caller needs to let the user adjust.
type BatchStockError struct {
	BatchCode string
	Available int
	Requested int
}

func (e *BatchStockError) Error() string {
	return fmt.Sprintf("insufficient stock in batch %s: %d available, %d requested",
		e.BatchCode, e.Available, e.Requested)
}

func (e *BatchStockError) Is(target error) bool {
	return target == ErrInsufficientBatchStock
}
