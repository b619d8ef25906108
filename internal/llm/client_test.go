package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatServer serves canned chat completions, one per call.
func chatServer(t *testing.T, replies []string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.Less(t, calls, len(replies), "more chat calls than canned replies")
		reply := replies[calls]
		calls++

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(&Config{
		APIKey:       "test-key",
		BaseURL:      baseURL,
		DefaultModel: "test-model",
		MaxRetries:   3,
		Timeout:      5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

type extractionResult struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func TestGenerateText(t *testing.T) {
	srv, _ := chatServer(t, []string{"Hello there!"})
	c := newTestClient(t, srv.URL)

	out, err := c.GenerateText(context.Background(), "test-model", "be nice",
		[]Message{{Role: "user", Content: "hi"}}, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", out)
}

func TestGenerateText_EmptyCompletion(t *testing.T) {
	srv, _ := chatServer(t, []string{"   "})
	c := newTestClient(t, srv.URL)

	_, err := c.GenerateText(context.Background(), "test-model", "",
		[]Message{{Role: "user", Content: "hi"}}, 0)
	require.Error(t, err)

	var llmErr *LLMError
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, ErrorTypeParse, llmErr.Type)
}

func TestGenerateStructured(t *testing.T) {
	srv, _ := chatServer(t, []string{`{"name": "Dune", "quantity": 2}`})
	c := newTestClient(t, srv.URL)

	out, err := GenerateStructured[extractionResult](c, context.Background(),
		"test-model", "extract", []Message{{Role: "user", Content: "two copies of Dune"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dune", out.Name)
	assert.Equal(t, 2, out.Quantity)
}

func TestGenerateStructured_StripsMarkdownFence(t *testing.T) {
	srv, _ := chatServer(t, []string{"```json\n{\"name\": \"Dune\", \"quantity\": 1}\n```"})
	c := newTestClient(t, srv.URL)

	out, err := GenerateStructured[extractionResult](c, context.Background(),
		"test-model", "extract", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dune", out.Name)
}

func TestGenerateStructured_RetriesOnParseError(t *testing.T) {
	srv, calls := chatServer(t, []string{
		"sorry, I can't help with that",
		`{"name": "Dune", "quantity": 1}`,
	})
	c := newTestClient(t, srv.URL)

	out, err := GenerateStructured[extractionResult](c, context.Background(),
		"test-model", "extract", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dune", out.Name)
	assert.Equal(t, 2, *calls)
}

func TestGenerateStructured_RetriesOnValidationError(t *testing.T) {
	srv, calls := chatServer(t, []string{
		`{"name": "Dune", "quantity": -5}`,
		`{"name": "Dune", "quantity": 1}`,
	})
	c := newTestClient(t, srv.URL)

	validate := func(r *extractionResult) error {
		if r.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive")
		}
		return nil
	}

	out, err := GenerateStructured[extractionResult](c, context.Background(),
		"test-model", "extract", nil, validate)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Quantity)
	assert.Equal(t, 2, *calls)
}

func TestGenerateStructured_ExhaustsRetries(t *testing.T) {
	srv, calls := chatServer(t, []string{"garbage", "garbage", "garbage"})
	c := newTestClient(t, srv.URL)

	_, err := GenerateStructured[extractionResult](c, context.Background(),
		"test-model", "extract", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 3, *calls, "one call per configured retry")
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestGenerateStructured_APIErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limited"}}`)
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	_, err := GenerateStructured[extractionResult](c, context.Background(),
		"test-model", "extract", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var llmErr *LLMError
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, ErrorTypeAPI, llmErr.Type)
}

func TestCallChat_PrependsSystemPrompt(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	_, err := c.GenerateText(context.Background(), "test-model", "you are a bookstore assistant",
		[]Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
			{Role: "user", Content: "any sci-fi?"},
		}, 0.5)
	require.NoError(t, err)

	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "you are a bookstore assistant", got.Messages[0].Content)
	assert.Equal(t, "any sci-fi?", got.Messages[3].Content)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.5, *got.Temperature)
}

func TestNewClient_RejectsInvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: "https://example.test"})
	require.Error(t, err)
}

func TestCleanMarkdownCodeBlocks(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                     `{"a":1}`,
		"```json\n{\"a\":1}\n```":       `{"a":1}`,
		"```\n{\"a\":1}\n```":           `{"a":1}`,
		"  \n```json\n{\"a\":1}\n```  ": `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanMarkdownCodeBlocks(in))
	}
}
