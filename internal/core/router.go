package core

import (
	"context"
	"log/slog"

	"bookdesk/internal/llm"
	"bookdesk/internal/llm/tasks"
)

// ErrorReply is returned to the customer when a handler fails outright.
const ErrorReply = "Something went wrong while processing your request. Please try again."

// IntentClassifier classifies a request into one of the task intents.
type IntentClassifier interface {
	Classify(ctx context.Context, history []llm.Message, request string) (string, error)
}

// Handler is a stateless task handler. It receives the session history
// explicitly; unlike the order dialogue manager it keeps none of its own.
type Handler interface {
	Handle(ctx context.Context, history []llm.Message, request string) (string, error)
}

// Router classifies each request and dispatches it to the matching handler.
type Router struct {
	classifier IntentClassifier
	lookup     Handler
	recommend  Handler
	fallback   Handler
	sessions   *SessionRegistry
}

// NewRouter creates a router over the given handlers and session registry.
func NewRouter(
	classifier IntentClassifier,
	lookup Handler,
	recommend Handler,
	fallback Handler,
	sessions *SessionRegistry,
) *Router {
	return &Router{
		classifier: classifier,
		lookup:     lookup,
		recommend:  recommend,
		fallback:   fallback,
		sessions:   sessions,
	}
}

// Sessions exposes the registry for lifecycle management.
func (r *Router) Sessions() *SessionRegistry {
	return r.sessions
}

// Handle processes one request within a session and returns the reply. A
// failing handler degrades to a generic apology; the session survives.
func (r *Router) Handle(ctx context.Context, sessionID, request string) string {
	sess := r.sessions.Get(sessionID)
	history := sess.History()

	intent := tasks.IntentNone
	if out, err := r.classifier.Classify(ctx, history, request); err != nil {
		slog.Warn("intent classification failed, using fallback",
			"session", sessionID,
			"error", err.Error(),
		)
	} else {
		intent = out
	}

	slog.Debug("request routed",
		"session", sessionID,
		"intent", intent,
	)

	var reply string
	var err error

	switch intent {
	case tasks.IntentLookup:
		reply, err = r.lookup.Handle(ctx, history, request)
	case tasks.IntentRecommend:
		reply, err = r.recommend.Handle(ctx, history, request)
	case tasks.IntentOrder:
		reply, err = sess.Manager.Process(ctx, request)
	default:
		reply, err = r.fallback.Handle(ctx, history, request)
	}

	if err != nil {
		slog.Error("handler failed",
			"session", sessionID,
			"intent", intent,
			"error", err.Error(),
		)
		reply = ErrorReply
	}

	sess.RecordExchange(request, reply)
	return reply
}
