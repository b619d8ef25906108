package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLookupQuery(t *testing.T) {
	valid := []string{
		"SELECT * FROM books",
		"select title, price from books where category = 'sci-fi'",
		"SELECT COUNT(*) FROM books WHERE stock > 0;",
		"SELECT title FROM books ORDER BY created_at DESC LIMIT 5",
		// Forbidden keywords inside identifiers or literals don't count.
		"SELECT * FROM books WHERE title = 'The Updated Edition'",
		"SELECT last_update FROM books",
	}
	for _, q := range valid {
		assert.NoError(t, ValidateLookupQuery(q), q)
	}

	invalid := []string{
		"",
		"   ",
		"DELETE FROM books",
		"UPDATE books SET stock = 0",
		"DROP TABLE books",
		"INSERT INTO books VALUES (1)",
		"PRAGMA table_info(books)",
		"ATTACH DATABASE 'x.db' AS x",
		"SELECT * FROM books; DROP TABLE books",
		"SELECT * FROM books; SELECT * FROM orders",
		"SELECT * FROM books WHERE id IN (SELECT 1); DELETE FROM orders",
		"explain SELECT * FROM books",
	}
	for _, q := range invalid {
		assert.Error(t, ValidateLookupQuery(q), q)
	}
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("delete from books", "delete"))
	assert.True(t, containsWord("x; drop table y", "drop"))
	assert.False(t, containsWord("select last_update from books", "update"))
	assert.False(t, containsWord("title = 'dropped calls'", "drop"))
	assert.True(t, containsWord("a update", "update"))
	assert.False(t, containsWord("aupdate", "update"))
}
