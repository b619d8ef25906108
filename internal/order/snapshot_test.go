package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_MissingFields(t *testing.T) {
	s := NewSnapshot()
	assert.Equal(t, RequiredFields, s.MissingFields())
	assert.False(t, s.Complete())

	s.CustomerName = strPtr("Alice")
	s.BookID = intPtr(42)
	assert.Equal(t, []string{FieldPhone, FieldAddress, FieldQuantity}, s.MissingFields())

	s.Phone = strPtr("555-1111")
	s.Address = strPtr("1 Main St")
	s.Quantity = intPtr(1)
	assert.Empty(t, s.MissingFields())
	assert.True(t, s.Complete())
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	s := &Snapshot{
		CustomerName: strPtr("Alice"),
		BookID:       intPtr(42),
		Confirmed:    true,
	}
	c := s.Clone()
	require.Equal(t, s, c)

	*c.CustomerName = "Bob"
	*c.BookID = 7
	assert.Equal(t, "Alice", *s.CustomerName)
	assert.Equal(t, int64(42), *s.BookID)
}

func TestSnapshot_ResetForNextOrder(t *testing.T) {
	s := &Snapshot{
		CustomerName: strPtr("Alice"),
		Phone:        strPtr("555-1111"),
		Address:      strPtr("1 Main St"),
		BookID:       intPtr(42),
		Quantity:     intPtr(2),
		Confirmed:    true,
	}
	s.ResetForNextOrder()

	assert.Nil(t, s.BookID)
	assert.Nil(t, s.Quantity)
	assert.False(t, s.Confirmed)
	assert.Equal(t, "Alice", *s.CustomerName)
	assert.Equal(t, "555-1111", *s.Phone)
	assert.Equal(t, "1 Main St", *s.Address)
}

func TestSnapshot_Apply(t *testing.T) {
	base := func() *Snapshot {
		return &Snapshot{
			CustomerName: strPtr("Alice"),
			Phone:        strPtr("555-1111"),
			BookID:       intPtr(42),
		}
	}

	t.Run("nil candidate is a no-op", func(t *testing.T) {
		s := base()
		s.Apply(nil, nil)
		assert.Equal(t, base(), s)
	})

	t.Run("no_change is a no-op even with values set", func(t *testing.T) {
		s := base()
		s.Apply(&Candidate{NoChange: true, BookID: intPtr(99), Confirmed: true}, nil)
		assert.Equal(t, base(), s)
	})

	t.Run("nil candidate fields keep current values", func(t *testing.T) {
		s := base()
		s.Apply(&Candidate{Address: strPtr("1 Main St")}, nil)
		assert.Equal(t, "Alice", *s.CustomerName)
		assert.Equal(t, "555-1111", *s.Phone)
		assert.Equal(t, "1 Main St", *s.Address)
		assert.Equal(t, int64(42), *s.BookID)
	})

	t.Run("explicit values override", func(t *testing.T) {
		s := base()
		s.Apply(&Candidate{Phone: strPtr("555-2222"), BookID: intPtr(7)}, nil)
		assert.Equal(t, "555-2222", *s.Phone)
		assert.Equal(t, int64(7), *s.BookID)
	})

	t.Run("invalidated fields forced null over candidate values", func(t *testing.T) {
		s := base()
		s.Apply(
			&Candidate{BookID: intPtr(42), Quantity: intPtr(3)},
			map[string]bool{FieldBookID: true},
		)
		assert.Nil(t, s.BookID)
		assert.Equal(t, int64(3), *s.Quantity)
	})

	t.Run("confirmed rejected on incomplete snapshot", func(t *testing.T) {
		s := base()
		s.Apply(&Candidate{Confirmed: true}, nil)
		assert.False(t, s.Confirmed)
	})

	t.Run("confirmed accepted once complete", func(t *testing.T) {
		s := base()
		s.Apply(&Candidate{
			Address:   strPtr("1 Main St"),
			Quantity:  intPtr(1),
			Confirmed: true,
		}, nil)
		require.True(t, s.Complete())
		assert.True(t, s.Confirmed)
	})

	t.Run("unconfirmed candidate withdraws confirmation", func(t *testing.T) {
		s := base()
		s.Address = strPtr("1 Main St")
		s.Quantity = intPtr(1)
		s.Confirmed = true
		s.Apply(&Candidate{Quantity: intPtr(2)}, nil)
		assert.False(t, s.Confirmed)
	})
}

func TestSnapshot_ClearField(t *testing.T) {
	s := &Snapshot{
		CustomerName: strPtr("Alice"),
		Phone:        strPtr("555-1111"),
		Address:      strPtr("1 Main St"),
		BookID:       intPtr(42),
		Quantity:     intPtr(2),
	}

	s.ClearField(FieldQuantity)
	assert.Nil(t, s.Quantity)

	s.ClearField(FieldBookID)
	assert.Nil(t, s.BookID)

	s.ClearField("not-a-field")
	assert.Equal(t, "Alice", *s.CustomerName)
}
