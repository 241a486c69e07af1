package booking

import (
	"context"
	"errors"
	"time"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/outbox"
	"erents/internal/app/policies"
	"erents/internal/app/uow"
	domainbooking "erents/internal/domain/booking"
	domainuser "erents/internal/domain/user"
)

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID string
	ActorID   string
	Reason    string
	Now       time.Time
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	BookingID   string `json:"booking_id"`
	RefundMinor int64  `json:"refund_minor"`
	Currency    string `json:"currency"`
}

// CancelBookingHandler cancels a stay on behalf of its tenant and refunds
// whatever the tiered policy yields for the remaining notice.
type CancelBookingHandler struct {
	UoWFactory uow.Factory
	Payments   policies.PaymentsPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	unit, ctx, managed, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	stay, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		if errors.Is(err, domainbooking.ErrNotFound) {
			return nil, apperr.NotFound("booking not found", err)
		}
		return nil, apperr.Unexpected("loading booking", err)
	}
	if stay.TenantID != domainuser.ID(cmd.ActorID) {
		return nil, apperr.Unauthorized("only the booking tenant may cancel", nil)
	}

	refund, err := stay.Cancel(cmd.Reason, now)
	if err != nil {
		return nil, apperr.InvalidState("cancelling booking", err)
	}
	if refund.IsPositive() && h.Payments != nil {
		if err := h.Payments.Refund(ctx, string(stay.ID), refund); err != nil {
			return nil, apperr.Unexpected("refunding payment", err)
		}
	}

	if err := unit.Bookings().Save(ctx, stay); err != nil {
		return nil, apperr.Unexpected("saving booking", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, stay); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing cancellation", err)
		}
		committed = true
	}
	return &CancelBookingResult{
		BookingID:   string(stay.ID),
		RefundMinor: refund.Amount,
		Currency:    refund.Currency,
	}, nil
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
