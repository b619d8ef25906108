package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bookdesk/internal/order"
)

// Book is one catalog entry.
type Book struct {
	ID          int64
	Title       string
	Author      string
	Category    string
	Price       float64
	Stock       int64
	Description string
}

// maxLookupRows caps rows returned from generated lookup queries.
const maxLookupRows = 50

// UpsertBook inserts or replaces a catalog entry. Embeddings are preserved
// on replace only when the description is unchanged.
func (s *Store) UpsertBook(ctx context.Context, b *Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, title, author, category, price, stock, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			category = excluded.category,
			price = excluded.price,
			stock = excluded.stock,
			embedding = CASE
				WHEN books.description IS excluded.description THEN books.embedding
				ELSE NULL
			END,
			description = excluded.description
	`, b.ID, b.Title, b.Author, b.Category, b.Price, b.Stock, b.Description)
	if err != nil {
		return fmt.Errorf("upsert book %d: %w", b.ID, err)
	}
	return nil
}

// GetBook fetches one book by ID.
func (s *Store) GetBook(ctx context.Context, id int64) (*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b Book
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, author, category, price, stock, COALESCE(description, '')
		FROM books WHERE id = ?
	`, id).Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Price, &b.Stock, &b.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &order.UnknownBookError{BookID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &b, nil
}

// CheckStock confirms a book exists and has sufficient stock. Implements
// order.InventoryValidator.
func (s *Store) CheckStock(ctx context.Context, bookID, quantity int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stock int64
	err := s.db.QueryRowContext(ctx,
		`SELECT stock FROM books WHERE id = ?`, bookID,
	).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return &order.UnknownBookError{BookID: bookID}
	}
	if err != nil {
		return fmt.Errorf("check stock for book %d: %w", bookID, err)
	}

	if quantity > stock {
		return &order.InsufficientStockError{
			BookID:    bookID,
			Requested: quantity,
			Available: stock,
		}
	}

	return nil
}

// RunLookupQuery executes a generated read-only query and returns columns and
// stringified rows. Anything other than a SELECT is rejected.
func (s *Store) RunLookupQuery(ctx context.Context, query string) ([]string, [][]string, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(query)), "select") {
		return nil, nil, fmt.Errorf("refusing non-SELECT lookup query")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("lookup columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		if len(out) >= maxLookupRows {
			break
		}

		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("lookup scan: %w", err)
		}

		record := make([]string, len(columns))
		for i, v := range raw {
			record[i] = stringify(v)
		}
		out = append(out, record)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("lookup rows: %w", err)
	}

	return columns, out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// SetBookEmbedding stores the embedding vector for a book.
func (s *Store) SetBookEmbedding(ctx context.Context, id int64, vector []float64) error {
	blob, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET embedding = ? WHERE id = ?`, blob, id)
	if err != nil {
		return fmt.Errorf("set embedding for book %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &order.UnknownBookError{BookID: id}
	}
	return nil
}

// EmbeddedBook pairs a book with its stored embedding.
type EmbeddedBook struct {
	Book      Book
	Embedding []float64
}

// BooksWithEmbeddings returns every book that has an embedding stored.
func (s *Store) BooksWithEmbeddings(ctx context.Context) ([]EmbeddedBook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, author, category, price, stock, COALESCE(description, ''), embedding
		FROM books
		WHERE embedding IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("list embedded books: %w", err)
	}
	defer rows.Close()

	var out []EmbeddedBook
	for rows.Next() {
		var eb EmbeddedBook
		var blob []byte
		if err := rows.Scan(&eb.Book.ID, &eb.Book.Title, &eb.Book.Author, &eb.Book.Category,
			&eb.Book.Price, &eb.Book.Stock, &eb.Book.Description, &blob); err != nil {
			return nil, fmt.Errorf("scan embedded book: %w", err)
		}
		if err := json.Unmarshal(blob, &eb.Embedding); err != nil {
			// Skip rows with corrupt vectors rather than failing retrieval.
			continue
		}
		out = append(out, eb)
	}

	return out, rows.Err()
}

// BooksWithoutEmbeddings returns books still needing an embedding, for seeding.
func (s *Store) BooksWithoutEmbeddings(ctx context.Context) ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, author, category, price, stock, COALESCE(description, '')
		FROM books
		WHERE embedding IS NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("list unembedded books: %w", err)
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Price, &b.Stock, &b.Description); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}

	return out, rows.Err()
}
