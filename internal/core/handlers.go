package core

import (
	"context"
	"fmt"

	"bookdesk/internal/llm"
	"bookdesk/internal/llm/tasks"
	"bookdesk/internal/recommend"
	"bookdesk/internal/store"
)

// LookupHandler answers structured catalog questions by translating them into
// read-only SQL, executing against the catalog, and phrasing the rows.
type LookupHandler struct {
	Client *llm.Client
	Store  *store.Store
}

func (h *LookupHandler) Handle(ctx context.Context, history []llm.Message, request string) (string, error) {
	query, err := tasks.ExecuteLookupQueryTask(h.Client, ctx, &tasks.LookupQueryInput{
		Question: request,
	})
	if err != nil {
		return "", fmt.Errorf("lookup: %w", err)
	}

	columns, rows, err := h.Store.RunLookupQuery(ctx, query.Query)
	if err != nil {
		return "", fmt.Errorf("lookup: %w", err)
	}

	system := llm.BuildLookupAnswerPrompt(request, columns, rows)
	transcript := append(historyCopy(history), llm.Message{Role: "user", Content: request})

	reply, err := h.Client.GenerateText(ctx, "", system, transcript, 0.2)
	if err != nil {
		return "", fmt.Errorf("lookup: %w", err)
	}
	return reply, nil
}

// RecommendHandler suggests books via vector retrieval over the catalog.
type RecommendHandler struct {
	Client    *llm.Client
	Retriever *recommend.Retriever
}

func (h *RecommendHandler) Handle(ctx context.Context, history []llm.Message, request string) (string, error) {
	scored, err := h.Retriever.Retrieve(ctx, request)
	if err != nil {
		return "", fmt.Errorf("recommend: %w", err)
	}

	system := llm.BuildRecommendPrompt(recommend.FormatContext(scored))
	transcript := append(historyCopy(history), llm.Message{Role: "user", Content: request})

	reply, err := h.Client.GenerateText(ctx, "", system, transcript, 1.0)
	if err != nil {
		return "", fmt.Errorf("recommend: %w", err)
	}
	return reply, nil
}

// FallbackHandler is general chat for requests outside the three tasks.
type FallbackHandler struct {
	Client *llm.Client
}

func (h *FallbackHandler) Handle(ctx context.Context, history []llm.Message, request string) (string, error) {
	transcript := append(historyCopy(history), llm.Message{Role: "user", Content: request})

	reply, err := h.Client.GenerateText(ctx, "", llm.FallbackSystemPrompt, transcript, 0.7)
	if err != nil {
		return "", fmt.Errorf("fallback: %w", err)
	}
	return reply, nil
}

func historyCopy(history []llm.Message) []llm.Message {
	out := make([]llm.Message, len(history), len(history)+1)
	copy(out, history)
	return out
}
