package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookdesk/internal/order"
)

// echoExtractor always reports no change; enough to exercise the manager.
type echoExtractor struct{}

func (echoExtractor) Extract(ctx context.Context, transcript []order.Turn) (*order.Candidate, error) {
	return &order.Candidate{NoChange: true}, nil
}

type echoComposer struct{}

func (echoComposer) Compose(ctx context.Context, transcript []order.Turn) (string, error) {
	return "ok", nil
}

type noopValidator struct{}

func (noopValidator) CheckStock(ctx context.Context, bookID, quantity int64) error { return nil }

type noopPersister struct{}

func (noopPersister) PersistOrder(ctx context.Context, o *order.ConfirmedOrder) (string, error) {
	return "ORD-noop", nil
}

func testRegistry() *SessionRegistry {
	return NewSessionRegistry(func() *order.Manager {
		return order.NewManager(echoExtractor{}, echoComposer{}, noopValidator{}, noopPersister{})
	})
}

func TestSessionRegistry_CreateOnFirstUse(t *testing.T) {
	reg := testRegistry()
	assert.Zero(t, reg.Len())

	a := reg.Get("session-a")
	require.NotNil(t, a)
	require.NotNil(t, a.Manager)
	assert.Equal(t, "session-a", a.ID)
	assert.Equal(t, 1, reg.Len())

	// Same ID returns the same session.
	assert.Same(t, a, reg.Get("session-a"))
	assert.Equal(t, 1, reg.Len())
}

func TestSessionRegistry_SessionsAreIsolated(t *testing.T) {
	reg := testRegistry()
	a := reg.Get("session-a")
	b := reg.Get("session-b")

	require.NotSame(t, a, b)
	require.NotSame(t, a.Manager, b.Manager)

	a.RecordExchange("hi", "hello")
	assert.Len(t, a.History(), 2)
	assert.Empty(t, b.History())
}

func TestSessionRegistry_EndDiscardsState(t *testing.T) {
	reg := testRegistry()
	a := reg.Get("session-a")
	a.RecordExchange("hi", "hello")

	reg.End("session-a")
	assert.Zero(t, reg.Len())

	// Re-using the ID yields a fresh session.
	fresh := reg.Get("session-a")
	assert.NotSame(t, a, fresh)
	assert.Empty(t, fresh.History())
}

func TestSession_HistoryWindowCap(t *testing.T) {
	s := &Session{ID: "s"}
	for i := 0; i < historyWindow; i++ {
		s.RecordExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	history := s.History()
	require.Len(t, history, historyWindow)
	assert.Equal(t, fmt.Sprintf("q%d", historyWindow/2), history[0].Content)
	assert.Equal(t, fmt.Sprintf("a%d", historyWindow-1), history[len(history)-1].Content)
}

func TestNewSessionID_Unique(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
