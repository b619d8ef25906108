package order

import "fmt"

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// AdvisoryKind tags system turns injected by the manager to steer the next
// extraction and response pass. Advisories are never user or assistant speech.
type AdvisoryKind string

const (
	AdvisoryNone              AdvisoryKind = ""
	AdvisoryMissingFields     AdvisoryKind = "missing-fields"
	AdvisoryNeedsReview       AdvisoryKind = "needs-review"
	AdvisorySubmissionSuccess AdvisoryKind = "submission-success"
	AdvisorySubmissionError   AdvisoryKind = "submission-error"
)

// Turn is one entry of the conversation transcript.
type Turn struct {
	Role     string
	Content  string
	Advisory AdvisoryKind // set only on system turns
}

// ConversationMemory is the append-only transcript of one customer session.
// The full history is retained for audit; the slice forwarded to collaborators
// is capped to a sliding window so prompts stay bounded.
type ConversationMemory struct {
	turns  []Turn
	window int
}

// NewConversationMemory creates an empty transcript. window caps the turns
// exposed to collaborators; zero or negative means no cap.
func NewConversationMemory(window int) *ConversationMemory {
	return &ConversationMemory{
		turns:  make([]Turn, 0, 16),
		window: window,
	}
}

// AppendUser appends a user turn.
func (m *ConversationMemory) AppendUser(content string) {
	m.turns = append(m.turns, Turn{Role: RoleUser, Content: content})
}

// AppendAssistant appends an assistant turn.
func (m *ConversationMemory) AppendAssistant(content string) {
	m.turns = append(m.turns, Turn{Role: RoleAssistant, Content: content})
}

// AppendAdvisory appends a system advisory turn.
func (m *ConversationMemory) AppendAdvisory(kind AdvisoryKind, content string) {
	m.turns = append(m.turns, Turn{Role: RoleSystem, Content: content, Advisory: kind})
}

// Len returns the total number of turns recorded.
func (m *ConversationMemory) Len() int {
	return len(m.turns)
}

// Turns returns a copy of the full transcript.
func (m *ConversationMemory) Turns() []Turn {
	out := make([]Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Window returns a copy of the most recent turns, capped to the configured
// collaborator window.
func (m *ConversationMemory) Window() []Turn {
	start := 0
	if m.window > 0 && len(m.turns) > m.window {
		start = len(m.turns) - m.window
	}
	out := make([]Turn, len(m.turns)-start)
	copy(out, m.turns[start:])
	return out
}

// LastAdvisory returns the kind of the most recent system turn, or AdvisoryNone.
func (m *ConversationMemory) LastAdvisory() AdvisoryKind {
	for i := len(m.turns) - 1; i >= 0; i-- {
		if m.turns[i].Role == RoleSystem {
			return m.turns[i].Advisory
		}
	}
	return AdvisoryNone
}

// Advisory content builders.

// MissingFieldsAdvisory reports which required fields are still null.
func MissingFieldsAdvisory(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return fmt.Sprintf("Missing required fields: %s.", out)
}

// NeedsReviewAdvisory asks for explicit confirmation of a complete order.
const NeedsReviewAdvisory = "Please review and verify the order information for accuracy before confirming the order."

// SubmissionSuccessAdvisory notifies that the order was durably recorded.
const SubmissionSuccessAdvisory = "Please notify the user that their order was successfully submitted."

// SubmissionErrorAdvisory reports a validation or persistence failure.
func SubmissionErrorAdvisory(reason string) string {
	return fmt.Sprintf("System error: %s", reason)
}
