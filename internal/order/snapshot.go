package order

// Field names of the order schema, as exposed to collaborators and advisories.
const (
	FieldCustomerName = "customer_name"
	FieldPhone        = "phone"
	FieldAddress      = "address"
	FieldBookID       = "book_id"
	FieldQuantity     = "quantity"
)

// RequiredFields lists every data field of an order, in schema order.
var RequiredFields = []string{
	FieldCustomerName,
	FieldPhone,
	FieldAddress,
	FieldBookID,
	FieldQuantity,
}

// Snapshot is the authoritative, mutable record of one in-progress order.
// Nil pointer fields mean "not yet collected".
type Snapshot struct {
	CustomerName *string
	Phone        *string
	Address      *string
	BookID       *int64
	Quantity     *int64
	Confirmed    bool
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{Confirmed: s.Confirmed}
	if s.CustomerName != nil {
		v := *s.CustomerName
		c.CustomerName = &v
	}
	if s.Phone != nil {
		v := *s.Phone
		c.Phone = &v
	}
	if s.Address != nil {
		v := *s.Address
		c.Address = &v
	}
	if s.BookID != nil {
		v := *s.BookID
		c.BookID = &v
	}
	if s.Quantity != nil {
		v := *s.Quantity
		c.Quantity = &v
	}
	return c
}

// MissingFields returns the names of data fields still null, in schema order.
func (s *Snapshot) MissingFields() []string {
	missing := []string{}
	if s.CustomerName == nil {
		missing = append(missing, FieldCustomerName)
	}
	if s.Phone == nil {
		missing = append(missing, FieldPhone)
	}
	if s.Address == nil {
		missing = append(missing, FieldAddress)
	}
	if s.BookID == nil {
		missing = append(missing, FieldBookID)
	}
	if s.Quantity == nil {
		missing = append(missing, FieldQuantity)
	}
	return missing
}

// Complete reports whether all five data fields are non-null.
func (s *Snapshot) Complete() bool {
	return len(s.MissingFields()) == 0
}

// ClearField nulls a single data field.
func (s *Snapshot) ClearField(name string) {
	switch name {
	case FieldCustomerName:
		s.CustomerName = nil
	case FieldPhone:
		s.Phone = nil
	case FieldAddress:
		s.Address = nil
	case FieldBookID:
		s.BookID = nil
	case FieldQuantity:
		s.Quantity = nil
	}
}

// ResetForNextOrder clears the order after a successful submission. Customer
// identity fields carry into the next order unless the user later overrides
// them; book, quantity and confirmation always clear.
func (s *Snapshot) ResetForNextOrder() {
	s.BookID = nil
	s.Quantity = nil
	s.Confirmed = false
}

// Candidate is a full snapshot candidate produced by one extraction pass.
// NoChange signals ambiguity (e.g. two distinct books in one turn): the
// snapshot must be left entirely untouched for the turn.
type Candidate struct {
	CustomerName *string
	Phone        *string
	Address      *string
	BookID       *int64
	Quantity     *int64
	Confirmed    bool
	NoChange     bool
}

// Apply merges a candidate into the snapshot under the data-integrity rules:
//
//   - a NoChange candidate is a no-op;
//   - a non-null field is never silently erased: a nil candidate value keeps
//     the current value;
//   - a field in invalidated was implicated by a validation or persistence
//     outcome this turn and is forced null no matter what the candidate says —
//     the user has not spoken since the advisory, so any value the extractor
//     offers for it is stale;
//   - confirmed is accepted only when the merged snapshot is complete.
//
// invalidated may be nil.
func (s *Snapshot) Apply(c *Candidate, invalidated map[string]bool) {
	if c == nil || c.NoChange {
		return
	}

	s.CustomerName = mergeString(s.CustomerName, c.CustomerName, invalidated[FieldCustomerName])
	s.Phone = mergeString(s.Phone, c.Phone, invalidated[FieldPhone])
	s.Address = mergeString(s.Address, c.Address, invalidated[FieldAddress])
	s.BookID = mergeInt(s.BookID, c.BookID, invalidated[FieldBookID])
	s.Quantity = mergeInt(s.Quantity, c.Quantity, invalidated[FieldQuantity])

	// Confirmation gate: complete snapshot or nothing.
	s.Confirmed = c.Confirmed && s.Complete()
}

func mergeString(old, new *string, invalidated bool) *string {
	if invalidated {
		return nil
	}
	if new == nil {
		return old
	}
	v := *new
	return &v
}

func mergeInt(old, new *int64, invalidated bool) *int64 {
	if invalidated {
		return nil
	}
	if new == nil {
		return old
	}
	v := *new
	return &v
}
