// Package rental implements the application side of the rental request
// lifecycle: submission, landlord response, cancellation and maintenance of
// pending proposals.
package rental

import (
	"context"
	"errors"
	"time"

	"erents/internal/app/apperr"
	"erents/internal/app/availability"
	"erents/internal/app/commands"
	"erents/internal/app/middleware"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
	domainrange "erents/internal/domain/shared/daterange"
	domainuser "erents/internal/domain/user"
)

const createRequestKey = "rental.create"

var ErrUnitOfWorkRequired = errors.New("rental: unit of work required")

type CreateRequestCommand struct {
	CommandID       string
	PropertyID      string
	TenantID        string
	LeaseStart      time.Time
	LeaseEnd        time.Time
	Guests          int
	Message         string
	Now             time.Time
	IdempotencyKeyV string
}

func (c CreateRequestCommand) Key() string { return createRequestKey }

func (c CreateRequestCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateRequestCommand) ResultPrototype() any { return &CreateRequestResult{} }

type CreateRequestResult struct {
	RequestID  string `json:"request_id"`
	Months     int    `json:"months"`
	TotalMinor int64  `json:"total_minor"`
	Currency   string `json:"currency"`
}

type CreateRequestHandler struct {
	UoWFactory   uow.Factory
	Availability *availability.Checker
	Outbox       outbox.Outbox
	Encoder      outbox.EventEncoder
}

func (h *CreateRequestHandler) Handle(ctx context.Context, cmd CreateRequestCommand) (*CreateRequestResult, error) {
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
	if err != nil && !errors.Is(err, domainproperty.ErrNotFound) {
		return nil, apperr.Unexpected("loading property", err)
	}

	// Validation accumulates every violation, including a missing property,
	// so the client sees the whole picture at once.
	dr := domainrange.DateRange{Start: cmd.LeaseStart.UTC(), End: cmd.LeaseEnd.UTC()}
	if err := domainrental.Validate(domainrental.Candidate{
		Property: prop,
		Range:    dr,
		Guests:   cmd.Guests,
		Now:      now,
	}); err != nil {
		return nil, apperr.Validation("rental request rejected", err)
	}

	free, err := h.Availability.Check(ctx, unit, prop.ID, dr, "")
	if err != nil {
		return nil, apperr.Unexpected("availability check", err)
	}
	if !free {
		return nil, apperr.InvalidState("property is not available for the requested dates", domainrental.ErrInvalidState)
	}

	quote, err := domainrental.Price(prop.Price, dr, cmd.Guests)
	if err != nil {
		return nil, apperr.Validation("pricing lease", err)
	}

	req, err := domainrental.NewRequest(domainrental.CreateParams{
		ID:          domainrental.RequestID(cmd.CommandID),
		PropertyID:  prop.ID,
		TenantID:    domainuser.ID(cmd.TenantID),
		Range:       dr,
		Guests:      cmd.Guests,
		MonthlyRent: prop.Price,
		TotalPrice:  quote.Total,
		Message:     cmd.Message,
		Now:         now,
	})
	if err != nil {
		return nil, apperr.Validation("building rental request", err)
	}

	if err := unit.Rentals().Save(ctx, req); err != nil {
		return nil, apperr.Unexpected("saving rental request", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.encoder(), req); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing rental request", err)
		}
		committed = true
	}

	return &CreateRequestResult{
		RequestID:  string(req.ID),
		Months:     quote.Months,
		TotalMinor: quote.Total.Amount,
		Currency:   quote.Total.Currency,
	}, nil
}

func (h *CreateRequestHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CreateRequestCommand, *CreateRequestResult] = (*CreateRequestHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateRequestCommand)(nil)
