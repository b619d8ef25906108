package order

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationMemory_AppendAndTurns(t *testing.T) {
	m := NewConversationMemory(0)
	m.AppendUser("hi")
	m.AppendAssistant("hello")
	m.AppendAdvisory(AdvisoryMissingFields, MissingFieldsAdvisory([]string{FieldPhone}))

	require.Equal(t, 3, m.Len())

	turns := m.Turns()
	assert.Equal(t, Turn{Role: RoleUser, Content: "hi"}, turns[0])
	assert.Equal(t, Turn{Role: RoleAssistant, Content: "hello"}, turns[1])
	assert.Equal(t, RoleSystem, turns[2].Role)
	assert.Equal(t, AdvisoryMissingFields, turns[2].Advisory)

	// Mutating the returned slice must not touch the transcript.
	turns[0].Content = "tampered"
	assert.Equal(t, "hi", m.Turns()[0].Content)
}

func TestConversationMemory_WindowCap(t *testing.T) {
	m := NewConversationMemory(4)
	for i := 0; i < 10; i++ {
		m.AppendUser(fmt.Sprintf("turn %d", i))
	}

	assert.Equal(t, 10, m.Len(), "full transcript retained")

	window := m.Window()
	require.Len(t, window, 4)
	assert.Equal(t, "turn 6", window[0].Content)
	assert.Equal(t, "turn 9", window[3].Content)
}

func TestConversationMemory_WindowUncapped(t *testing.T) {
	m := NewConversationMemory(0)
	for i := 0; i < 10; i++ {
		m.AppendUser("x")
	}
	assert.Len(t, m.Window(), 10)
}

func TestConversationMemory_LastAdvisory(t *testing.T) {
	m := NewConversationMemory(0)
	assert.Equal(t, AdvisoryNone, m.LastAdvisory())

	m.AppendUser("hi")
	assert.Equal(t, AdvisoryNone, m.LastAdvisory())

	m.AppendAdvisory(AdvisoryNeedsReview, NeedsReviewAdvisory)
	m.AppendAssistant("please confirm")
	assert.Equal(t, AdvisoryNeedsReview, m.LastAdvisory())

	m.AppendAdvisory(AdvisorySubmissionSuccess, SubmissionSuccessAdvisory)
	assert.Equal(t, AdvisorySubmissionSuccess, m.LastAdvisory())
}

func TestAdvisoryBuilders(t *testing.T) {
	assert.Equal(t,
		"Missing required fields: phone, address.",
		MissingFieldsAdvisory([]string{FieldPhone, FieldAddress}),
	)
	assert.Equal(t,
		"System error: quantity (5) exceeds stock (2) for book ID '42'",
		SubmissionErrorAdvisory((&InsufficientStockError{BookID: 42, Requested: 5, Available: 2}).Error()),
	)
}
