package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erents/internal/app/uow"
	"erents/internal/domain/booking"
	"erents/internal/domain/maintenance"
	"erents/internal/domain/messaging"
	"erents/internal/domain/notification"
	"erents/internal/domain/property"
	"erents/internal/domain/rental"
	"erents/internal/domain/reviews"
	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/money"
	"erents/internal/domain/tenancy"
	"erents/internal/domain/user"
	"erents/internal/infra/storage/memory"
)

var checkNow = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func openUnit(t *testing.T) uow.UnitOfWork {
	t.Helper()
	unit, err := memory.NewFactory().Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	return unit
}

func rangeDays(t *testing.T, startOffset, length int) daterange.DateRange {
	t.Helper()
	start := checkNow.AddDate(0, 0, startOffset)
	dr, err := daterange.New(start, start.AddDate(0, 0, length))
	require.NoError(t, err)
	return dr
}

func approvedRequest(t *testing.T, ctx context.Context, unit uow.UnitOfWork, id string, dr daterange.DateRange) *rental.Request {
	t.Helper()
	req, err := rental.NewRequest(rental.CreateParams{
		ID:          rental.RequestID(id),
		PropertyID:  "prop-1",
		TenantID:    "tenant-1",
		Range:       dr,
		Guests:      2,
		MonthlyRent: money.Must(60000, "EUR"),
		TotalPrice:  money.Must(720000, "EUR"),
		Now:         checkNow,
	})
	require.NoError(t, err)
	require.NoError(t, req.Approve("", checkNow))
	require.NoError(t, unit.Rentals().Save(ctx, req))
	return req
}

func claimedBooking(t *testing.T, ctx context.Context, unit uow.UnitOfWork, id string, dr daterange.DateRange) {
	t.Helper()
	b, err := booking.New(booking.CreateParams{
		ID:         booking.BookingID(id),
		PropertyID: "prop-1",
		TenantID:   "tenant-1",
		Range:      dr,
		Guests:     2,
		Total:      money.Must(70000, "EUR"),
		Now:        checkNow,
	})
	require.NoError(t, err)
	require.NoError(t, unit.Bookings().Save(ctx, b))
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	checker := &Checker{}

	t.Run("free property", func(t *testing.T) {
		unit := openUnit(t)
		ok, err := checker.Check(ctx, unit, "prop-1", rangeDays(t, 10, 180), "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("approved request blocks overlap", func(t *testing.T) {
		unit := openUnit(t)
		approvedRequest(t, ctx, unit, "req-1", rangeDays(t, 10, 180))
		ok, err := checker.Check(ctx, unit, "prop-1", rangeDays(t, 100, 180), "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("booking blocks overlap", func(t *testing.T) {
		unit := openUnit(t)
		claimedBooking(t, ctx, unit, "bkg-1", rangeDays(t, 10, 14))
		ok, err := checker.Check(ctx, unit, "prop-1", rangeDays(t, 12, 180), "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("adjacent ranges do not conflict", func(t *testing.T) {
		unit := openUnit(t)
		held := rangeDays(t, 10, 180)
		approvedRequest(t, ctx, unit, "req-1", held)
		following, err := daterange.New(held.End, held.End.AddDate(0, 0, 180))
		require.NoError(t, err)
		ok, err := checker.Check(ctx, unit, "prop-1", following, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("cancelled booking frees the dates", func(t *testing.T) {
		unit := openUnit(t)
		dr := rangeDays(t, 10, 14)
		b, err := booking.New(booking.CreateParams{
			ID: "bkg-1", PropertyID: "prop-1", TenantID: "tenant-1",
			Range: dr, Guests: 2, Total: money.Must(70000, "EUR"), Now: checkNow,
		})
		require.NoError(t, err)
		_, err = b.Cancel("", checkNow)
		require.NoError(t, err)
		require.NoError(t, unit.Bookings().Save(ctx, b))

		ok, err := checker.Check(ctx, unit, "prop-1", dr, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("excluded request does not block itself", func(t *testing.T) {
		unit := openUnit(t)
		dr := rangeDays(t, 10, 180)
		req := approvedRequest(t, ctx, unit, "req-1", dr)
		ok, err := checker.Check(ctx, unit, "prop-1", dr, req.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = checker.Check(ctx, unit, "prop-1", dr, "req-other")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("fails closed on repository error", func(t *testing.T) {
		unit := failingUnit{err: errors.New("backend down")}
		ok, err := checker.Check(ctx, unit, "prop-1", rangeDays(t, 10, 180), "")
		require.Error(t, err)
		assert.False(t, ok)
	})
}

// failingUnit reports an error from every repository the checker consults.
type failingUnit struct {
	err error
}

func (f failingUnit) Rentals() rental.Repository { return failingRentals{err: f.err} }
func (f failingUnit) Bookings() booking.Repository { return failingBookings{err: f.err} }

func (f failingUnit) Users() user.Repository { return nil }
func (f failingUnit) Properties() property.Repository { return nil }
func (f failingUnit) Tenancies() tenancy.Repository { return nil }
func (f failingUnit) Reviews() reviews.Repository { return nil }
func (f failingUnit) Maintenance() maintenance.Repository { return nil }
func (f failingUnit) Conversations() messaging.Repository { return nil }
func (f failingUnit) Notifications() notification.Repository { return nil }
func (f failingUnit) Commit(ctx context.Context) error { return nil }
func (f failingUnit) Rollback(ctx context.Context) error { return nil }

type failingRentals struct {
	rental.Repository
	err error
}

func (f failingRentals) ApprovedOverlapping(context.Context, property.ID, daterange.DateRange, rental.RequestID) ([]*rental.Request, error) {
	return nil, f.err
}

type failingBookings struct {
	booking.Repository
	err error
}

func (f failingBookings) ClaimedOverlapping(context.Context, property.ID, daterange.DateRange) ([]*booking.Booking, error) {
	return nil, f.err
}
