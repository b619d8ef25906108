package core

import (
	"sync"

	"github.com/google/uuid"

	"bookdesk/internal/llm"
	"bookdesk/internal/order"
)

// historyWindow caps the stateless-handler history kept per session.
const historyWindow = 40

// Session holds the per-customer conversation state: the order dialogue
// manager (which keeps its own transcript) and the shared history handed to
// the stateless handlers.
type Session struct {
	ID      string
	Manager *order.Manager

	mu      sync.Mutex
	history []llm.Message
}

// History returns a copy of the session's shared conversation history.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// RecordExchange appends a user/assistant exchange to the shared history.
func (s *Session) RecordExchange(request, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		llm.Message{Role: "user", Content: request},
		llm.Message{Role: "assistant", Content: reply},
	)
	if len(s.history) > historyWindow {
		s.history = s.history[len(s.history)-historyWindow:]
	}
}

// SessionRegistry keys sessions by ID with create-on-first-use and explicit
// teardown. Conversation state lives only here, never in package-level
// variables, so concurrent customers cannot interleave order data.
type SessionRegistry struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	newManager func() *order.Manager
}

// NewSessionRegistry creates a registry using newManager to build the order
// dialogue manager of each new session.
func NewSessionRegistry(newManager func() *order.Manager) *SessionRegistry {
	return &SessionRegistry{
		sessions:   make(map[string]*Session),
		newManager: newManager,
	}
}

// Get returns the session for id, creating it on first use.
func (r *SessionRegistry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}

	s := &Session{
		ID:      id,
		Manager: r.newManager(),
	}
	r.sessions[id] = s
	return s
}

// End tears down the session for id, discarding its state.
func (r *SessionRegistry) End(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// NewSessionID generates a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}
