// internal/domain/cart/errors.go
package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrProductUnavailable means the product is missing, deleted, or
	// inactive at the time of a cart mutation.
	ErrProductUnavailable = errors.New("product is unavailable")

	// ErrNotAuthenticated means a cart operation was attempted with no
	// customer identity bound.
	ErrNotAuthenticated = errors.New("no authenticated customer")

	// ErrLineNotFound means an update targeted a product with no line in
	// the cart. Removal of a missing line is a no-op, not this error.
	ErrLineNotFound = errors.New("item not found in cart")
)

// InsufficientStockError is returned when the requested total quantity for a
// product exceeds its available stock. Carries the available count so the
// caller can tell the user exactly how many are left.
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: only %d left, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// PersistenceError signals that a mutation could not be durably recorded.
// The in-memory mutation stays applied; callers should report the problem
// rather than undo anything.
type PersistenceError struct {
	Op         string
	CustomerID uint
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cart persistence failed during %s for customer %d: %v", e.Op, e.CustomerID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
