package tasks

import (
	"context"
	"fmt"

	"bookdesk/internal/llm"
)

// ExecuteExtractOrderTask runs order field extraction over the conversation.
func ExecuteExtractOrderTask(
	client *llm.Client,
	ctx context.Context,
	input *ExtractOrderInput,
) (*ExtractOrderOutput, error) {
	// Validation function
	validate := func(output *ExtractOrderOutput) error {
		if output.BookID != nil && *output.BookID <= 0 {
			return fmt.Errorf("book_id must be positive, got %d", *output.BookID)
		}
		if output.Quantity != nil && *output.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive, got %d", *output.Quantity)
		}
		if output.NoChange && output.Confirmed {
			return fmt.Errorf("no_change and confirmed are mutually exclusive")
		}
		return nil
	}

	// Call LLM with retry
	result, err := llm.GenerateStructured[ExtractOrderOutput](
		client,
		ctx,
		"", // Use default model from config
		llm.ExtractSystemPrompt,
		input.Transcript,
		validate,
	)

	if err != nil {
		return nil, fmt.Errorf("extract order task failed: %w", err)
	}

	return result, nil
}
