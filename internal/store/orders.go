package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"bookdesk/internal/order"
)

// NewOrderRef generates an order reference in format ORD-{nanoid(10)}.
func NewOrderRef() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s", id), nil
}

// PlacedOrder is one durably recorded order.
type PlacedOrder struct {
	Ref          string
	CustomerName string
	Phone        string
	Address      string
	BookID       int64
	Quantity     int64
	CreatedAt    time.Time
}

// PersistOrder records a confirmed order and decrements stock in one
// transaction. Implements order.OrderPersister. The stock condition is
// re-checked inside the transaction so a concurrent order cannot oversell.
func (s *Store) PersistOrder(ctx context.Context, o *order.ConfirmedOrder) (string, error) {
	ref, err := NewOrderRef()
	if err != nil {
		return "", &order.PersistenceError{Message: "generate order reference", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", &order.PersistenceError{Message: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE books SET stock = stock - ?
		WHERE id = ? AND stock >= ?
	`, o.Quantity, o.BookID, o.Quantity)
	if err != nil {
		return "", &order.PersistenceError{Message: "decrement stock", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", &order.PersistenceError{Message: "decrement stock", Err: err}
	}
	if n == 0 {
		// Validation passed earlier in the turn but the world moved on.
		var stock int64
		err := tx.QueryRowContext(ctx, `SELECT stock FROM books WHERE id = ?`, o.BookID).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return "", &order.UnknownBookError{BookID: o.BookID}
		}
		if err != nil {
			return "", &order.PersistenceError{Message: "re-check stock", Err: err}
		}
		return "", &order.InsufficientStockError{
			BookID:    o.BookID,
			Requested: o.Quantity,
			Available: stock,
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (ref, customer_name, phone, address, book_id, quantity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ref, o.CustomerName, o.Phone, o.Address, o.BookID, o.Quantity, time.Now().UTC())
	if err != nil {
		return "", &order.PersistenceError{Message: "insert order", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return "", &order.PersistenceError{Message: "commit transaction", Err: err}
	}

	return ref, nil
}

// GetOrder fetches one placed order by reference.
func (s *Store) GetOrder(ctx context.Context, ref string) (*PlacedOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p PlacedOrder
	err := s.db.QueryRowContext(ctx, `
		SELECT ref, customer_name, phone, address, book_id, quantity, created_at
		FROM orders WHERE ref = ?
	`, ref).Scan(&p.Ref, &p.CustomerName, &p.Phone, &p.Address, &p.BookID, &p.Quantity, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s not found", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", ref, err)
	}
	return &p, nil
}

// CountOrders returns the number of placed orders.
func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
