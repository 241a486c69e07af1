package rental

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erents/internal/app/apperr"
	"erents/internal/app/availability"
	"erents/internal/app/uow"
	domainbooking "erents/internal/domain/booking"
	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
	"erents/internal/domain/shared/money"
	domainuser "erents/internal/domain/user"
	"erents/internal/infra/storage/memory"
)

var flowNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

type flowEnv struct {
	factory  *memory.Factory
	box      *memory.Outbox
	payments *memory.PaymentsLedger
	create   *CreateRequestHandler
	approve  *ApproveRequestHandler
	reject   *RejectRequestHandler
	cancel   *CancelRequestHandler
}

func newFlowEnv(t *testing.T) *flowEnv {
	t.Helper()
	factory := memory.NewFactory()
	box := memory.NewOutbox()
	checker := &availability.Checker{}
	payments := memory.NewPaymentsLedger(nil)
	return &flowEnv{
		factory:  factory,
		box:      box,
		payments: payments,
		create:   &CreateRequestHandler{UoWFactory: factory, Availability: checker, Outbox: box},
		approve:  &ApproveRequestHandler{UoWFactory: factory, Availability: checker, Outbox: box},
		reject:   &RejectRequestHandler{UoWFactory: factory, Outbox: box},
		cancel:   &CancelRequestHandler{UoWFactory: factory, Payments: payments, Outbox: box},
	}
}

func (e *flowEnv) seedProperty(t *testing.T, id, ownerID string) {
	t.Helper()
	ctx := context.Background()
	unit, err := e.factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	prop, err := domainproperty.New(domainproperty.CreateParams{
		ID:          domainproperty.ID(id),
		OwnerID:     domainuser.ID(ownerID),
		Title:       "Riverside two-bed",
		Address:     domainproperty.Address{Line1: "12 Quay St", City: "Mostar", Country: "BA"},
		Bedrooms:    2,
		Bathrooms:   1,
		AreaSqM:     64,
		Price:       money.Must(60000, "EUR"),
		RentingType: domainproperty.RentMonthly,
		Now:         flowNow,
	})
	require.NoError(t, err)
	prop.ClearEvents()
	require.NoError(t, unit.Properties().Save(ctx, prop))
	require.NoError(t, unit.Commit(ctx))
}

func (e *flowEnv) property(t *testing.T, id string) *domainproperty.Property {
	t.Helper()
	ctx := context.Background()
	unit, err := e.factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	prop, err := unit.Properties().ByID(ctx, domainproperty.ID(id))
	require.NoError(t, err)
	return prop
}

func (e *flowEnv) request(t *testing.T, id string) *domainrental.Request {
	t.Helper()
	ctx := context.Background()
	unit, err := e.factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	req, err := unit.Rentals().ByID(ctx, domainrental.RequestID(id))
	require.NoError(t, err)
	return req
}

func (e *flowEnv) createCmd(id string, start, end time.Time) CreateRequestCommand {
	return CreateRequestCommand{
		CommandID:  id,
		PropertyID: "prop-1",
		TenantID:   "tenant-1",
		LeaseStart: start,
		LeaseEnd:   end,
		Guests:     2,
		Now:        flowNow,
	}
}

func TestLeaseFlow(t *testing.T) {
	ctx := context.Background()
	env := newFlowEnv(t)
	env.seedProperty(t, "prop-1", "landlord-1")

	leaseStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	leaseEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	created, err := env.create.Handle(ctx, env.createCmd("req-1", leaseStart, leaseEnd))
	require.NoError(t, err)
	// 184 days round up to 7 months at 600.00/month.
	assert.Equal(t, 7, created.Months)
	assert.Equal(t, int64(420000), created.TotalMinor)
	assert.Equal(t, "EUR", created.Currency)

	approved, err := env.approve.Handle(ctx, ApproveRequestCommand{
		RequestID: "req-1",
		ActorID:   "landlord-1",
		Reply:     "welcome aboard",
		Now:       flowNow,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, approved.BookingID)
	assert.NotEmpty(t, approved.TenancyID)

	req := env.request(t, "req-1")
	assert.Equal(t, domainrental.StatusApproved, req.Status)
	assert.Equal(t, domainproperty.StatusOccupied, env.property(t, "prop-1").Status)

	unit, err := env.factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	stay, err := unit.Bookings().ByRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusUpcoming, stay.Status)
	assert.Equal(t, int64(420000), stay.Total.Amount)

	doc, err := env.box.Claim(ctx, "worker-test")
	require.NoError(t, err)
	require.NotNil(t, doc, "approval should leave events queued for relay")
	assert.NotEmpty(t, doc.Name)

	t.Run("occupied property rejects new requests", func(t *testing.T) {
		_, err := env.create.Handle(ctx, env.createCmd("req-2",
			time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2027, 2, 15, 0, 0, 0, 0, time.UTC)))
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestApproveConflict(t *testing.T) {
	ctx := context.Background()
	env := newFlowEnv(t)
	env.seedProperty(t, "prop-1", "landlord-1")

	// Two tenants race for overlapping dates; both submissions land while the
	// property is still free.
	_, err := env.create.Handle(ctx, env.createCmd("req-a",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = env.create.Handle(ctx, env.createCmd("req-b",
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 2, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	_, err = env.approve.Handle(ctx, ApproveRequestCommand{RequestID: "req-a", ActorID: "landlord-1", Now: flowNow})
	require.NoError(t, err)

	_, err = env.approve.Handle(ctx, ApproveRequestCommand{RequestID: "req-b", ActorID: "landlord-1", Now: flowNow})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.Equal(t, domainrental.StatusPending, env.request(t, "req-b").Status,
		"losing request stays answerable")
}

func TestApproveAuthorization(t *testing.T) {
	ctx := context.Background()
	env := newFlowEnv(t)
	env.seedProperty(t, "prop-1", "landlord-1")

	_, err := env.create.Handle(ctx, env.createCmd("req-1",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	_, err = env.approve.Handle(ctx, ApproveRequestCommand{RequestID: "req-1", ActorID: "someone-else", Now: flowNow})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = env.approve.Handle(ctx, ApproveRequestCommand{RequestID: "req-1", ActorID: "landlord-1", Now: flowNow})
	require.NoError(t, err)

	t.Run("second answer is rejected", func(t *testing.T) {
		_, err := env.approve.Handle(ctx, ApproveRequestCommand{RequestID: "req-1", ActorID: "landlord-1", Now: flowNow})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})
}

func TestRejectFreesDates(t *testing.T) {
	ctx := context.Background()
	env := newFlowEnv(t)
	env.seedProperty(t, "prop-1", "landlord-1")

	_, err := env.create.Handle(ctx, env.createCmd("req-1",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	_, err = env.reject.Handle(ctx, RejectRequestCommand{RequestID: "req-1", ActorID: "landlord-1", Reply: "no pets", Now: flowNow})
	require.NoError(t, err)
	assert.Equal(t, domainrental.StatusRejected, env.request(t, "req-1").Status)

	_, err = env.create.Handle(ctx, env.createCmd("req-2",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
}

func TestCancelApprovedLease(t *testing.T) {
	ctx := context.Background()
	env := newFlowEnv(t)
	env.seedProperty(t, "prop-1", "landlord-1")

	_, err := env.create.Handle(ctx, env.createCmd("req-1",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	approved, err := env.approve.Handle(ctx, ApproveRequestCommand{RequestID: "req-1", ActorID: "landlord-1", Now: flowNow})
	require.NoError(t, err)

	t.Run("only the requester may cancel", func(t *testing.T) {
		_, err := env.cancel.Handle(ctx, CancelRequestCommand{RequestID: "req-1", ActorID: "landlord-1", Now: flowNow})
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})

	// A month before move-in: full refund.
	result, err := env.cancel.Handle(ctx, CancelRequestCommand{RequestID: "req-1", ActorID: "tenant-1", Reason: "plans changed", Now: flowNow})
	require.NoError(t, err)
	assert.Equal(t, int64(420000), result.RefundMinor)
	assert.Equal(t, "EUR", result.Currency)

	refund, ok := env.payments.RefundFor(approved.BookingID)
	require.True(t, ok)
	assert.Equal(t, int64(420000), refund.Amount)

	assert.Equal(t, domainrental.StatusCancelled, env.request(t, "req-1").Status)
	assert.Equal(t, domainproperty.StatusAvailable, env.property(t, "prop-1").Status)

	unit, err := env.factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	stay, err := unit.Bookings().ByRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCancelled, stay.Status)
	assert.Equal(t, domainbooking.PaymentRefunded, stay.PaymentStatus)
}
