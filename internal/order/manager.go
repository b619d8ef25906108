package order

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Collaborator contracts. The manager owns the conversation and the snapshot;
// everything with natural-language understanding or durable state sits behind
// one of these.

// Extractor returns a snapshot candidate for the full transcript. It must fail
// closed: when it cannot produce a trustworthy candidate it returns an error
// or a NoChange candidate, never a partially guessed one.
type Extractor interface {
	Extract(ctx context.Context, transcript []Turn) (*Candidate, error)
}

// Composer returns the next customer-facing message for the transcript,
// advisories included. The reply is never empty.
type Composer interface {
	Compose(ctx context.Context, transcript []Turn) (string, error)
}

// InventoryValidator confirms a book exists with sufficient stock. Failure is
// an *UnknownBookError or *InsufficientStockError.
type InventoryValidator interface {
	CheckStock(ctx context.Context, bookID, quantity int64) error
}

// OrderPersister durably records a confirmed order as one atomic write and
// returns its reference. Failure is a *PersistenceError.
type OrderPersister interface {
	PersistOrder(ctx context.Context, o *ConfirmedOrder) (string, error)
}

// ConfirmedOrder is the payload handed to the persister.
type ConfirmedOrder struct {
	CustomerName string
	Phone        string
	Address      string
	BookID       int64
	Quantity     int64
}

// Manager is the order dialogue manager for a single customer session. It
// drives the slot-filling conversation: extract fields from the transcript,
// monitor completeness, gate submission behind explicit confirmation, and
// compose the next reply. One manager per session; calls are serialized.
type Manager struct {
	mu sync.Mutex

	extractor Extractor
	composer  Composer
	validator InventoryValidator
	persister OrderPersister

	memory   *ConversationMemory
	snapshot *Snapshot

	callTimeout time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCallTimeout bounds each collaborator call. Zero disables the bound.
func WithCallTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.callTimeout = d }
}

// WithMemoryWindow caps the transcript slice forwarded to collaborators.
func WithMemoryWindow(turns int) ManagerOption {
	return func(m *Manager) { m.memory = NewConversationMemory(turns) }
}

// NewManager creates a manager with an empty snapshot and transcript.
func NewManager(
	extractor Extractor,
	composer Composer,
	validator InventoryValidator,
	persister OrderPersister,
	opts ...ManagerOption,
) *Manager {
	m := &Manager{
		extractor: extractor,
		composer:  composer,
		validator: validator,
		persister: persister,
		memory:    NewConversationMemory(0),
		snapshot:  NewSnapshot(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns a copy of the current order state.
func (m *Manager) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.Clone()
}

// Memory returns a copy of the full transcript.
func (m *Manager) Memory() []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.memory.Turns()
}

// Process handles one user utterance and returns the next reply. Domain and
// infrastructure failures surface as advisories inside the conversation; the
// returned error is non-nil only when no reply could be composed at all.
func (m *Manager) Process(ctx context.Context, request string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.memory.AppendUser(request)

	// First extraction pass over the updated transcript.
	m.extract(ctx, nil)

	// Monitor: decide between collecting, reviewing and submitting.
	missing := m.snapshot.MissingFields()
	switch {
	case len(missing) > 0:
		m.memory.AppendAdvisory(AdvisoryMissingFields, MissingFieldsAdvisory(missing))

	case !m.snapshot.Confirmed:
		m.memory.AppendAdvisory(AdvisoryNeedsReview, NeedsReviewAdvisory)

	default:
		invalidated := m.submit(ctx)
		// Second pass so the just-appended advisory is reflected in the
		// snapshot instead of being overwritten by stale extraction.
		m.extract(ctx, invalidated)
		// The submission attempt consumed the confirmation. Whatever the
		// outcome, the next order (or retry) needs a fresh one; the old
		// confirmation language in the transcript doesn't count.
		m.snapshot.Confirmed = false
	}

	reply, err := m.compose(ctx)
	if err != nil {
		return "", err
	}

	m.memory.AppendAssistant(reply)
	return reply, nil
}

// extract runs one extraction pass and merges the result under the snapshot
// guard. Extraction failures are a no-op for the turn: a broken collaborator
// must not corrupt collected data.
func (m *Manager) extract(ctx context.Context, invalidated map[string]bool) {
	callCtx, cancel := m.boundCtx(ctx)
	defer cancel()

	candidate, err := m.extractor.Extract(callCtx, m.memory.Window())
	if err != nil {
		slog.Warn("order extraction failed, leaving snapshot unchanged",
			"error", err.Error(),
			"turns", m.memory.Len(),
		)
		return
	}

	m.snapshot.Apply(candidate, invalidated)
}

// submit attempts validation and persistence of a complete, confirmed order.
// It appends the outcome advisory, applies the failure policy to the snapshot,
// and returns the set of fields a failure implicated (permitting the second
// extraction pass to erase them).
func (m *Manager) submit(ctx context.Context) map[string]bool {
	bookID := *m.snapshot.BookID
	quantity := *m.snapshot.Quantity

	callCtx, cancel := m.boundCtx(ctx)
	defer cancel()

	if err := m.validator.CheckStock(callCtx, bookID, quantity); err != nil {
		return m.submitFailed(err)
	}

	confirmed := &ConfirmedOrder{
		CustomerName: *m.snapshot.CustomerName,
		Phone:        *m.snapshot.Phone,
		Address:      *m.snapshot.Address,
		BookID:       bookID,
		Quantity:     quantity,
	}

	ref, err := m.persister.PersistOrder(callCtx, confirmed)
	if err != nil {
		return m.submitFailed(err)
	}

	slog.Info("order submitted",
		"ref", ref,
		"book_id", bookID,
		"quantity", quantity,
	)

	m.memory.AppendAdvisory(AdvisorySubmissionSuccess, SubmissionSuccessAdvisory)
	m.snapshot.ResetForNextOrder()

	// Post-reset, book and quantity are legitimately null.
	return map[string]bool{FieldBookID: true, FieldQuantity: true}
}

// submitFailed records a submission failure. Domain failures null the field
// they implicate so the user must re-supply it; infrastructure failures keep
// every field (not the user's fault) and only force re-confirmation.
func (m *Manager) submitFailed(err error) map[string]bool {
	m.snapshot.Confirmed = false

	var unknown *UnknownBookError
	var stock *InsufficientStockError

	invalidated := map[string]bool{}
	switch {
	case errors.As(err, &unknown):
		m.snapshot.ClearField(FieldBookID)
		invalidated[FieldBookID] = true
	case errors.As(err, &stock):
		m.snapshot.ClearField(FieldQuantity)
		invalidated[FieldQuantity] = true
	}

	slog.Warn("order submission failed",
		"error", err.Error(),
	)

	m.memory.AppendAdvisory(AdvisorySubmissionError, SubmissionErrorAdvisory(err.Error()))
	return invalidated
}

func (m *Manager) compose(ctx context.Context) (string, error) {
	callCtx, cancel := m.boundCtx(ctx)
	defer cancel()

	return m.composer.Compose(callCtx, m.memory.Window())
}

func (m *Manager) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.callTimeout)
}
