// Package booking implements direct daily-stay reservations: the short-stay
// path that does not go through a rental request.
package booking

import (
	"context"
	"errors"
	"time"

	"erents/internal/app/apperr"
	"erents/internal/app/availability"
	"erents/internal/app/commands"
	"erents/internal/app/middleware"
	"erents/internal/app/outbox"
	"erents/internal/app/policies"
	"erents/internal/app/uow"
	domainbooking "erents/internal/domain/booking"
	domainproperty "erents/internal/domain/property"
	domainrange "erents/internal/domain/shared/daterange"
	domainuser "erents/internal/domain/user"
)

const createBookingKey = "booking.create"

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

type CreateBookingCommand struct {
	CommandID       string
	PropertyID      string
	TenantID        string
	Start           time.Time
	End             time.Time
	Guests          int
	Now             time.Time
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	BookingID  string `json:"booking_id"`
	TotalMinor int64  `json:"total_minor"`
	Currency   string `json:"currency"`
}

type CreateBookingHandler struct {
	UoWFactory   uow.Factory
	Availability *availability.Checker
	Payments     policies.PaymentsPort
	Outbox       outbox.Outbox
	Encoder      outbox.EventEncoder
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
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

	prop, err := unit.Properties().ByID(ctx, domainproperty.ID(cmd.PropertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return nil, apperr.NotFound("property not found", err)
		}
		return nil, apperr.Unexpected("loading property", err)
	}
	if prop.RentingType != domainproperty.RentDaily {
		return nil, apperr.InvalidState("property is not bookable per day", domainproperty.ErrInvalidState)
	}
	if !prop.IsAvailable() {
		return nil, apperr.InvalidState("property is not accepting stays", domainproperty.ErrInvalidState)
	}

	dr, err := domainrange.New(cmd.Start, cmd.End)
	if err != nil {
		return nil, apperr.Validation("invalid stay dates", err)
	}
	if err := domainbooking.ValidateRange(dr, now); err != nil {
		return nil, apperr.Validation("invalid stay dates", err)
	}
	if cmd.Guests < 1 {
		return nil, apperr.Validation("at least one guest is required", domainbooking.ErrInvalidGuests)
	}
	if max := prop.MaxGuests(); cmd.Guests > max {
		return nil, apperr.Validation("party exceeds property capacity", domainbooking.ErrInvalidGuests)
	}

	free, err := h.Availability.Check(ctx, unit, prop.ID, dr, "")
	if err != nil {
		return nil, apperr.Unexpected("availability check", err)
	}
	if !free {
		return nil, apperr.InvalidState("property is not available for the requested dates", domainbooking.ErrInvalidState)
	}

	total := prop.Price.Multiply(int64(dr.Days()))
	stay, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(cmd.CommandID),
		PropertyID: prop.ID,
		TenantID:   domainuser.ID(cmd.TenantID),
		Range:      dr,
		Guests:     cmd.Guests,
		Total:      total,
		Now:        now,
	})
	if err != nil {
		return nil, apperr.Validation("building booking", err)
	}

	if h.Payments != nil {
		holdID, err := h.Payments.PlaceHold(ctx, string(stay.ID), total)
		if err != nil {
			return nil, apperr.Unexpected("placing payment hold", err)
		}
		if err := stay.MarkPaid(holdID, now); err != nil {
			return nil, apperr.InvalidState("marking booking paid", err)
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
			return nil, apperr.Unexpected("committing booking", err)
		}
		committed = true
	}
	return &CreateBookingResult{
		BookingID:  string(stay.ID),
		TotalMinor: total.Amount,
		Currency:   total.Currency,
	}, nil
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
