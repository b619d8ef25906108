// Package recommend retrieves catalog entries by embedding similarity.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"bookdesk/internal/store"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ScoredBook is a retrieved book with its similarity score.
type ScoredBook struct {
	Book  store.Book
	Score float64
}

// Retriever ranks books against a query by cosine similarity of embeddings.
type Retriever struct {
	store    *store.Store
	embedder Embedder
	topK     int
}

// NewRetriever creates a retriever returning at most topK books per query.
func NewRetriever(st *store.Store, embedder Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = 10
	}
	return &Retriever{store: st, embedder: embedder, topK: topK}
}

// Retrieve returns the topK catalog entries most similar to the query.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]ScoredBook, error) {
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	books, err := r.store.BooksWithEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load embedded books: %w", err)
	}

	scored := make([]ScoredBook, 0, len(books))
	for _, eb := range books {
		scored = append(scored, ScoredBook{
			Book:  eb.Book,
			Score: cosineSimilarity(queryVec, eb.Embedding),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > r.topK {
		scored = scored[:r.topK]
	}

	return scored, nil
}

// FormatContext renders retrieved books as context documents for the composer.
func FormatContext(books []ScoredBook) []string {
	docs := make([]string, 0, len(books))
	for _, sb := range books {
		b := sb.Book
		var sb2 strings.Builder
		fmt.Fprintf(&sb2, "Book ID: %d\nTitle: %s\nAuthor: %s\nCategory: %s\nPrice: %.2f\nStock: %d\n",
			b.ID, b.Title, b.Author, b.Category, b.Price, b.Stock)
		if b.Description != "" {
			fmt.Fprintf(&sb2, "Description: %s\n", b.Description)
		}
		docs = append(docs, sb2.String())
	}
	return docs
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
