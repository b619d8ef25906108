package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookdesk/internal/llm"
)

// taskServer serves canned completions, one per call.
func taskServer(t *testing.T, replies []string) (*llm.Client, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Less(t, calls, len(replies), "more calls than canned replies")
		reply := replies[calls]
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)

	client, err := llm.NewClient(&llm.Config{
		APIKey:       "test-key",
		BaseURL:      srv.URL,
		DefaultModel: "test-model",
		MaxRetries:   3,
	})
	require.NoError(t, err)
	return client, &calls
}

func TestExecuteExtractOrderTask(t *testing.T) {
	client, _ := taskServer(t, []string{
		`{"customer_name": "Alice", "phone": "555-1111", "address": null,
		  "book_id": 42, "quantity": 2, "confirmed": false, "no_change": false}`,
	})

	out, err := ExecuteExtractOrderTask(client, context.Background(), &ExtractOrderInput{
		Transcript: []llm.Message{{Role: "user", Content: "book 42, two copies, I'm Alice, 555-1111"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", *out.CustomerName)
	assert.Equal(t, "555-1111", *out.Phone)
	assert.Nil(t, out.Address)
	assert.Equal(t, int64(42), *out.BookID)
	assert.Equal(t, int64(2), *out.Quantity)
	assert.False(t, out.Confirmed)
	assert.False(t, out.NoChange)
}

func TestExecuteExtractOrderTask_RetriesInvalidOutput(t *testing.T) {
	client, calls := taskServer(t, []string{
		`{"book_id": -1, "no_change": false, "confirmed": false}`,
		`{"no_change": true, "confirmed": true}`,
		`{"book_id": 42, "quantity": 1, "no_change": false, "confirmed": false}`,
	})

	out, err := ExecuteExtractOrderTask(client, context.Background(), &ExtractOrderInput{
		Transcript: []llm.Message{{Role: "user", Content: "book 42"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), *out.BookID)
	assert.Equal(t, 3, *calls, "negative id and no_change+confirmed both rejected")
}

func TestExecuteExtractOrderTask_ExhaustsRetries(t *testing.T) {
	client, _ := taskServer(t, []string{
		`{"quantity": 0}`,
		`{"quantity": 0}`,
		`{"quantity": 0}`,
	})

	_, err := ExecuteExtractOrderTask(client, context.Background(), &ExtractOrderInput{
		Transcript: []llm.Message{{Role: "user", Content: "zero books please"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract order task failed")
}
