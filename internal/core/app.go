package core

import (
	"fmt"

	"bookdesk/internal/llm"
	"bookdesk/internal/order"
	"bookdesk/internal/recommend"
	"bookdesk/internal/store"
)

// App wires the assistant together: LLM client, catalog store, retriever,
// session registry and router.
type App struct {
	Config *Config
	LLM    *llm.Client
	Store  *store.Store
	Router *Router
}

// NewApp builds a ready-to-serve application from configuration.
func NewApp(cfg *Config) (*App, error) {
	client, err := llm.NewClient(&llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		DefaultModel:   cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		Timeout:        cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	retriever := recommend.NewRetriever(st, client, cfg.Retrieval.TopK)

	sessions := NewSessionRegistry(func() *order.Manager {
		return order.NewManager(
			&TaskExtractor{Client: client},
			&TaskComposer{Client: client},
			st,
			st,
			order.WithCallTimeout(cfg.Session.TurnTimeout),
			order.WithMemoryWindow(cfg.Session.Window),
		)
	})

	router := NewRouter(
		&TaskClassifier{Client: client},
		&LookupHandler{Client: client, Store: st},
		&RecommendHandler{Client: client, Retriever: retriever},
		&FallbackHandler{Client: client},
		sessions,
	)

	return &App{
		Config: cfg,
		LLM:    client,
		Store:  st,
		Router: router,
	}, nil
}

// Close releases the application's resources.
func (a *App) Close() error {
	return a.Store.Close()
}
