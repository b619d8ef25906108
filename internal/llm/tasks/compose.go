package tasks

import (
	"context"
	"fmt"

	"bookdesk/internal/llm"
)

// composeTemperature is higher than extraction: the composer optimizes for
// tone and clarity, not structured fidelity.
const composeTemperature = 1.0

// ExecuteComposeReplyTask produces the next customer-facing message.
func ExecuteComposeReplyTask(
	client *llm.Client,
	ctx context.Context,
	input *ComposeReplyInput,
) (*ComposeReplyOutput, error) {
	reply, err := client.GenerateText(
		ctx,
		"", // Use default model from config
		llm.ComposeSystemPrompt,
		input.Transcript,
		composeTemperature,
	)

	if err != nil {
		return nil, fmt.Errorf("compose reply task failed: %w", err)
	}

	return &ComposeReplyOutput{Reply: reply}, nil
}
