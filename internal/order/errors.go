package order

import "fmt"

// UnknownBookError reports a book identifier that does not exist in the catalog.
type UnknownBookError struct {
	BookID int64
}

func (e *UnknownBookError) Error() string {
	return fmt.Sprintf("book ID '%d' does not exist in the inventory", e.BookID)
}

// InsufficientStockError reports a quantity exceeding available stock.
type InsufficientStockError struct {
	BookID    int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("quantity (%d) exceeds stock (%d) for book ID '%d'",
		e.Requested, e.Available, e.BookID)
}

// PersistenceError reports an infrastructure-level failure recording an order.
// It is never the customer's fault; collected fields survive it.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order persistence failed: %s", e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
