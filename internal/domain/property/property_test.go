package property

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erents/internal/domain/shared/money"
)

var propNow = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func newProperty(t *testing.T) *Property {
	t.Helper()
	p, err := New(CreateParams{
		ID:          "prop-1",
		OwnerID:     "owner-1",
		Title:       "Garden studio",
		Address:     Address{Line1: "Hoofdstraat 12", City: "Utrecht", Country: "NL"},
		Bedrooms:    2,
		Bathrooms:   1,
		Price:       money.Must(95000, "EUR"),
		RentingType: RentMonthly,
		Now:         propNow,
	})
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	p := newProperty(t)
	assert.Equal(t, StatusAvailable, p.Status)
	assert.Equal(t, 4, p.MaxGuests())

	t.Run("requires a title", func(t *testing.T) {
		_, err := New(CreateParams{
			ID: "p", OwnerID: "o",
			Address:     Address{Line1: "x", City: "y", Country: "z"},
			Bedrooms:    1,
			Price:       money.Must(100, "EUR"),
			RentingType: RentDaily,
			Now:         propNow,
		})
		assert.ErrorIs(t, err, ErrTitleRequired)
	})

	t.Run("requires a positive price", func(t *testing.T) {
		_, err := New(CreateParams{
			ID: "p", OwnerID: "o", Title: "t",
			Address:     Address{Line1: "x", City: "y", Country: "z"},
			Bedrooms:    1,
			Price:       money.Must(0, "EUR"),
			RentingType: RentDaily,
			Now:         propNow,
		})
		assert.ErrorIs(t, err, ErrPriceInvalid)
	})

	t.Run("rejects unknown renting type", func(t *testing.T) {
		_, err := New(CreateParams{
			ID: "p", OwnerID: "o", Title: "t",
			Address:     Address{Line1: "x", City: "y", Country: "z"},
			Bedrooms:    1,
			Price:       money.Must(100, "EUR"),
			RentingType: "HOURLY",
			Now:         propNow,
		})
		assert.ErrorIs(t, err, ErrRentingType)
	})
}

func TestStatusTransitions(t *testing.T) {
	t.Run("occupied only from available", func(t *testing.T) {
		p := newProperty(t)
		require.NoError(t, p.MarkOccupied(propNow))
		assert.Equal(t, StatusOccupied, p.Status)
		assert.ErrorIs(t, p.MarkOccupied(propNow), ErrInvalidState)
	})

	t.Run("occupied property cannot be archived", func(t *testing.T) {
		p := newProperty(t)
		require.NoError(t, p.MarkOccupied(propNow))
		assert.ErrorIs(t, p.Archive(propNow), ErrInvalidState)
	})

	t.Run("archive is terminal", func(t *testing.T) {
		p := newProperty(t)
		require.NoError(t, p.Archive(propNow))
		assert.ErrorIs(t, p.MarkAvailable(propNow), ErrInvalidState)
		assert.ErrorIs(t, p.MarkUnderMaintenance(propNow), ErrInvalidState)
	})

	t.Run("maintenance round trip", func(t *testing.T) {
		p := newProperty(t)
		require.NoError(t, p.MarkUnderMaintenance(propNow))
		assert.False(t, p.IsAvailable())
		require.NoError(t, p.MarkAvailable(propNow.Add(time.Hour)))
		assert.True(t, p.IsAvailable())
	})
}

func TestUpdate(t *testing.T) {
	p := newProperty(t)
	err := p.Update(UpdateParams{
		Title:       "Bright garden studio",
		Description: "Renovated",
		Address:     Address{Line1: "Hoofdstraat 12", City: "Utrecht", Country: "NL"},
		Bedrooms:    3,
		Bathrooms:   2,
		AreaSqM:     80,
		Price:       money.Must(110000, "EUR"),
		RentingType: RentMonthly,
		Now:         propNow.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bright garden studio", p.Title)
	assert.Equal(t, 6, p.MaxGuests())
	assert.Equal(t, int64(110000), p.Price.Amount)
}

func TestAttachPhoto(t *testing.T) {
	p := newProperty(t)
	p.AttachPhoto("https://cdn.example.com/p1.jpg", propNow)
	p.AttachPhoto("https://cdn.example.com/p2.jpg", propNow)
	assert.Len(t, p.Photos, 2)
}
