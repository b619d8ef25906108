package core

import (
	"context"

	"bookdesk/internal/llm"
	"bookdesk/internal/llm/tasks"
	"bookdesk/internal/order"
)

// Adapters binding the LLM tasks to the order dialogue manager's collaborator
// contracts. The inventory validator and order persister are the store itself.

// TaskExtractor implements order.Extractor with the extraction task.
type TaskExtractor struct {
	Client *llm.Client
}

func (e *TaskExtractor) Extract(ctx context.Context, transcript []order.Turn) (*order.Candidate, error) {
	out, err := tasks.ExecuteExtractOrderTask(e.Client, ctx, &tasks.ExtractOrderInput{
		Transcript: turnsToMessages(transcript),
	})
	if err != nil {
		return nil, err
	}

	return &order.Candidate{
		CustomerName: out.CustomerName,
		Phone:        out.Phone,
		Address:      out.Address,
		BookID:       out.BookID,
		Quantity:     out.Quantity,
		Confirmed:    out.Confirmed,
		NoChange:     out.NoChange,
	}, nil
}

// TaskComposer implements order.Composer with the response composition task.
type TaskComposer struct {
	Client *llm.Client
}

func (c *TaskComposer) Compose(ctx context.Context, transcript []order.Turn) (string, error) {
	out, err := tasks.ExecuteComposeReplyTask(c.Client, ctx, &tasks.ComposeReplyInput{
		Transcript: turnsToMessages(transcript),
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

// TaskClassifier implements IntentClassifier with the classification task.
type TaskClassifier struct {
	Client *llm.Client
}

func (c *TaskClassifier) Classify(ctx context.Context, history []llm.Message, request string) (string, error) {
	out, err := tasks.ExecuteClassifyIntentTask(c.Client, ctx, &tasks.ClassifyIntentInput{
		History: history,
		Request: request,
	})
	if err != nil {
		return "", err
	}
	return out.Intent, nil
}

// turnsToMessages converts dialogue turns to wire messages. Advisory turns go
// out with the system role so models treat them as steering, not user intent.
func turnsToMessages(transcript []order.Turn) []llm.Message {
	out := make([]llm.Message, len(transcript))
	for i, t := range transcript {
		out[i] = llm.Message{Role: t.Role, Content: t.Content}
	}
	return out
}
