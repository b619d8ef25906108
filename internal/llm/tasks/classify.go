package tasks

import (
	"context"
	"fmt"
	"strings"

	"bookdesk/internal/llm"
)

// ExecuteClassifyIntentTask classifies a request into one of the task intents.
// The classifier is contracted to answer with a single word; anything else is
// normalized to IntentNone so an off-script model degrades to fallback chat.
func ExecuteClassifyIntentTask(
	client *llm.Client,
	ctx context.Context,
	input *ClassifyIntentInput,
) (*ClassifyIntentOutput, error) {
	transcript := make([]llm.Message, 0, len(input.History)+1)
	transcript = append(transcript, input.History...)
	transcript = append(transcript, llm.Message{Role: "user", Content: input.Request})

	raw, err := client.GenerateText(
		ctx,
		"", // Use default model from config
		llm.ClassifierSystemPrompt,
		transcript,
		0, // deterministic
	)

	if err != nil {
		return nil, fmt.Errorf("classify intent task failed: %w", err)
	}

	intent := strings.ToLower(strings.Trim(strings.TrimSpace(raw), `"'.`))

	switch intent {
	case IntentLookup, IntentRecommend, IntentOrder:
	default:
		intent = IntentNone
	}

	return &ClassifyIntentOutput{Intent: intent}, nil
}
