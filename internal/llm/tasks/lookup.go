package tasks

import (
	"context"
	"fmt"
	"strings"

	"bookdesk/internal/llm"
)

// forbiddenQueryWords are rejected anywhere in a generated lookup query.
var forbiddenQueryWords = []string{
	"insert", "update", "delete", "drop", "alter", "create", "pragma", "attach",
}

// ExecuteLookupQueryTask translates a catalog question into a read-only SQL query.
func ExecuteLookupQueryTask(
	client *llm.Client,
	ctx context.Context,
	input *LookupQueryInput,
) (*LookupQueryOutput, error) {
	prompt := llm.BuildLookupQueryPrompt(input.Question)

	// Validation function
	validate := func(output *LookupQueryOutput) error {
		return ValidateLookupQuery(output.Query)
	}

	// Call LLM with retry
	result, err := llm.GenerateStructured[LookupQueryOutput](
		client,
		ctx,
		"", // Use default model from config
		prompt,
		nil,
		validate,
	)

	if err != nil {
		return nil, fmt.Errorf("lookup query task failed: %w", err)
	}

	return result, nil
}

// ValidateLookupQuery rejects anything other than a single SELECT statement.
func ValidateLookupQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return fmt.Errorf("query is empty")
	}

	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "select") {
		return fmt.Errorf("query must be a SELECT statement")
	}

	// A trailing semicolon is fine; an interior one means a second statement.
	if idx := strings.Index(trimmed, ";"); idx >= 0 && idx != len(trimmed)-1 {
		return fmt.Errorf("query must be a single statement")
	}

	for _, word := range forbiddenQueryWords {
		if containsWord(lower, word) {
			return fmt.Errorf("query contains forbidden keyword %q", word)
		}
	}

	return nil
}

// containsWord reports whether s contains word bounded by non-letter characters.
func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		i += idx

		beforeOK := i == 0 || !isLetter(s[i-1])
		after := i + len(word)
		afterOK := after >= len(s) || !isLetter(s[after])
		if beforeOK && afterOK {
			return true
		}
		idx = i + len(word)
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}
