package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is the LLM client for interacting with OpenRouter.
type Client struct {
	config *Config
	http   *http.Client
}

// NewClient creates a new LLM client.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config.SetDefaults()

	return &Client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Message is one turn of a conversation sent to the model.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// chatRequest represents a request to OpenRouter (OpenAI-compatible).
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// chatResponse represents a response from OpenRouter.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// GenerateText generates a plain-text completion over a conversation.
// The system prompt is prepended to the transcript.
func (c *Client) GenerateText(
	ctx context.Context,
	model string,
	system string,
	transcript []Message,
	temperature float64,
) (string, error) {
	if model == "" {
		model = c.config.DefaultModel
	}

	content, err := c.callChat(ctx, model, system, transcript, &temperature)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(content) == "" {
		return "", NewParseError(content, fmt.Errorf("empty completion"))
	}

	return content, nil
}

// GenerateStructured generates a structured output from the LLM with validation and retry.
// T is the type of the structured output.
// validate is an optional validation function that returns an error if the output is invalid.
func GenerateStructured[T any](
	client *Client,
	ctx context.Context,
	model string,
	system string,
	transcript []Message,
	validate func(*T) error,
) (*T, error) {
	if model == "" {
		model = client.config.DefaultModel
	}

	originalSystem := system
	var lastErr error

	for attempt := 1; attempt <= client.config.MaxRetries; attempt++ {
		slog.Debug("LLM structured generation attempt",
			"attempt", attempt,
			"model", model,
			"transcript_turns", len(transcript),
		)

		result, err := callStructured[T](client, ctx, model, system, transcript)
		if err != nil {
			lastErr = err
			// Network/API errors are not retryable with a modified prompt
			if llmErr, ok := err.(*LLMError); ok {
				if llmErr.Type == ErrorTypeNetwork || llmErr.Type == ErrorTypeAPI {
					return nil, err
				}
			}
			// Parse errors - retry with feedback
			system = fmt.Sprintf("%s\n\nPREVIOUS ATTEMPT FAILED:\nError: %v\n\nPlease return valid JSON matching the exact structure requested.", originalSystem, err)
			continue
		}

		if validate != nil {
			if err := validate(result); err != nil {
				lastErr = NewValidationError(err.Error(), err)
				slog.Warn("LLM output validation failed",
					"attempt", attempt,
					"error", err.Error(),
				)
				system = fmt.Sprintf("%s\n\nPREVIOUS VALIDATION ERROR:\n%v\n\nPlease fix the output to pass validation.", originalSystem, err)
				continue
			}
		}

		return result, nil
	}

	return nil, fmt.Errorf("validation failed after %d attempts: %w", client.config.MaxRetries, lastErr)
}

// callStructured makes a single chat call and parses the content as JSON into T.
// Extraction runs at temperature zero for deterministic output.
func callStructured[T any](client *Client, ctx context.Context, model, system string, transcript []Message) (*T, error) {
	zero := 0.0
	content, err := client.callChat(ctx, model, system, transcript, &zero)
	if err != nil {
		return nil, err
	}

	content = cleanMarkdownCodeBlocks(content)

	var result T
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, NewParseError(content, err)
	}

	return &result, nil
}

// callChat makes a single HTTP call to the chat completions endpoint.
func (c *Client) callChat(ctx context.Context, model, system string, transcript []Message, temperature *float64) (string, error) {
	messages := make([]Message, 0, len(transcript)+1)
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, transcript...)

	reqBody := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		slog.Error("chat HTTP request failed",
			"error", err.Error(),
			"duration", duration,
		)
		if ctx.Err() != nil {
			return "", NewTimeoutError()
		}
		return "", NewNetworkError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}()

	slog.Debug("chat HTTP request completed",
		"status_code", resp.StatusCode,
		"duration", duration,
	)

	if resp.StatusCode != http.StatusOK {
		var errBody bytes.Buffer
		if _, err := errBody.ReadFrom(resp.Body); err != nil {
			slog.Warn("Failed to read error response body", "error", err)
			return "", NewAPIError(resp.StatusCode, fmt.Sprintf("status %d (failed to read error body)", resp.StatusCode))
		}
		return "", NewAPIError(resp.StatusCode, errBody.String())
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", NewAPIError(0, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", NewAPIError(0, "no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// cleanMarkdownCodeBlocks removes markdown code block wrappers from JSON.
// Some models (especially Gemini) wrap JSON in ```json...```.
func cleanMarkdownCodeBlocks(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSpace(content)
	}

	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	return content
}
