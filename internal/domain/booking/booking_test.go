package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/money"
)

var bookingNow = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func testBooking(t *testing.T) *Booking {
	t.Helper()
	dr, err := daterange.New(bookingNow.AddDate(0, 0, 14), bookingNow.AddDate(0, 0, 21))
	require.NoError(t, err)
	b, err := New(CreateParams{
		ID:         "bkg-1",
		PropertyID: "prop-1",
		TenantID:   "tenant-1",
		Range:      dr,
		Guests:     2,
		Total:      money.Must(70000, "EUR"),
		Now:        bookingNow,
	})
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	b := testBooking(t)
	assert.Equal(t, StatusUpcoming, b.Status)
	assert.Equal(t, PaymentPending, b.PaymentStatus)
	require.Len(t, b.PendingEvents(), 1)
	_, ok := b.PendingEvents()[0].(BookingCreated)
	assert.True(t, ok)

	t.Run("rejects zero total", func(t *testing.T) {
		dr, err := daterange.New(bookingNow.AddDate(0, 0, 1), bookingNow.AddDate(0, 0, 5))
		require.NoError(t, err)
		_, err = New(CreateParams{ID: "b", PropertyID: "p", TenantID: "u", Range: dr, Guests: 1, Now: bookingNow})
		assert.ErrorIs(t, err, ErrInvalidTotal)
	})

	t.Run("rejects missing tenant", func(t *testing.T) {
		dr, err := daterange.New(bookingNow.AddDate(0, 0, 1), bookingNow.AddDate(0, 0, 5))
		require.NoError(t, err)
		_, err = New(CreateParams{ID: "b", PropertyID: "p", Range: dr, Guests: 1, Total: money.Must(100, "EUR"), Now: bookingNow})
		assert.ErrorIs(t, err, ErrTenantRequired)
	})
}

func TestLifecycle(t *testing.T) {
	t.Run("activate then complete", func(t *testing.T) {
		b := testBooking(t)
		require.NoError(t, b.Activate(b.Range.Start))
		assert.Equal(t, StatusActive, b.Status)
		require.NoError(t, b.Complete(b.Range.End))
		assert.Equal(t, StatusCompleted, b.Status)
	})

	t.Run("cannot complete before activating", func(t *testing.T) {
		b := testBooking(t)
		assert.ErrorIs(t, b.Complete(bookingNow), ErrInvalidState)
	})

	t.Run("terminal states stay terminal", func(t *testing.T) {
		b := testBooking(t)
		_, err := b.Cancel("plans changed", bookingNow)
		require.NoError(t, err)
		assert.ErrorIs(t, b.Activate(bookingNow), ErrInvalidState)
		_, err = b.Cancel("again", bookingNow)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestAdvance(t *testing.T) {
	t.Run("upcoming activates at start", func(t *testing.T) {
		b := testBooking(t)
		assert.False(t, b.Advance(b.Range.Start.Add(-time.Hour)))
		assert.True(t, b.Advance(b.Range.Start))
		assert.Equal(t, StatusActive, b.Status)
	})

	t.Run("active completes at end", func(t *testing.T) {
		b := testBooking(t)
		require.True(t, b.Advance(b.Range.Start))
		assert.False(t, b.Advance(b.Range.End.Add(-time.Hour)))
		assert.True(t, b.Advance(b.Range.End))
		assert.Equal(t, StatusCompleted, b.Status)
	})

	t.Run("skips straight to completed when the range has fully passed", func(t *testing.T) {
		b := testBooking(t)
		assert.True(t, b.Advance(b.Range.End.AddDate(0, 0, 1)))
		assert.Equal(t, StatusCompleted, b.Status)
	})

	t.Run("cancelled bookings never advance", func(t *testing.T) {
		b := testBooking(t)
		_, err := b.Cancel("", bookingNow)
		require.NoError(t, err)
		assert.False(t, b.Advance(b.Range.End))
	})
}

func TestCancelRefunds(t *testing.T) {
	t.Run("full refund a week out", func(t *testing.T) {
		b := testBooking(t)
		refund, err := b.Cancel("moving abroad", b.Range.Start.AddDate(0, 0, -10))
		require.NoError(t, err)
		assert.Equal(t, b.Total.Amount, refund.Amount)
		assert.Equal(t, PaymentRefunded, b.PaymentStatus)
	})

	t.Run("half refund inside the window", func(t *testing.T) {
		b := testBooking(t)
		refund, err := b.Cancel("", b.Range.Start.AddDate(0, 0, -3))
		require.NoError(t, err)
		assert.Equal(t, b.Total.Amount/2, refund.Amount)
		assert.Equal(t, PaymentPartiallyRefunded, b.PaymentStatus)
	})

	t.Run("no refund on start day", func(t *testing.T) {
		b := testBooking(t)
		refund, err := b.Cancel("", b.Range.Start)
		require.NoError(t, err)
		assert.True(t, refund.IsZero())
		assert.Equal(t, PaymentPending, b.PaymentStatus)
	})
}
