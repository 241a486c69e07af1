package rental

import (
	"context"
	"errors"
	"time"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
	domainrange "erents/internal/domain/shared/daterange"
	domainuser "erents/internal/domain/user"
)

const updateRequestKey = "rental.update"

type UpdateRequestCommand struct {
	RequestID  string
	ActorID    string
	LeaseStart time.Time
	LeaseEnd   time.Time
	Guests     int
	Message    string
	Now        time.Time
}

func (c UpdateRequestCommand) Key() string { return updateRequestKey }

type UpdateRequestResult struct {
	RequestID  string `json:"request_id"`
	TotalMinor int64  `json:"total_minor"`
	Currency   string `json:"currency"`
}

// UpdateRequestHandler lets the requester amend a still-pending proposal.
// The new terms are re-validated and re-priced; availability is settled at
// approval time.
type UpdateRequestHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *UpdateRequestHandler) Handle(ctx context.Context, cmd UpdateRequestCommand) (*UpdateRequestResult, error) {
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

	req, err := unit.Rentals().ByID(ctx, domainrental.RequestID(cmd.RequestID))
	if err != nil {
		if errors.Is(err, domainrental.ErrNotFound) {
			return nil, apperr.NotFound("rental request not found", err)
		}
		return nil, apperr.Unexpected("loading request", err)
	}
	if req.TenantID != domainuser.ID(cmd.ActorID) {
		return nil, apperr.Unauthorized("only the requester may update", nil)
	}
	if req.Status != domainrental.StatusPending {
		return nil, apperr.InvalidState("only pending requests may change", domainrental.ErrInvalidState)
	}

	prop, err := unit.Properties().ByID(ctx, req.PropertyID)
	if err != nil && !errors.Is(err, domainproperty.ErrNotFound) {
		return nil, apperr.Unexpected("loading property", err)
	}

	dr := domainrange.DateRange{Start: cmd.LeaseStart.UTC(), End: cmd.LeaseEnd.UTC()}
	if err := domainrental.Validate(domainrental.Candidate{
		Property: prop,
		Range:    dr,
		Guests:   cmd.Guests,
		Now:      now,
	}); err != nil {
		return nil, apperr.Validation("rental request rejected", err)
	}

	quote, err := domainrental.Price(prop.Price, dr, cmd.Guests)
	if err != nil {
		return nil, apperr.Validation("pricing lease", err)
	}

	if err := req.UpdateTerms(domainrental.UpdateTermsParams{
		Range:       dr,
		Guests:      cmd.Guests,
		MonthlyRent: prop.Price,
		TotalPrice:  quote.Total,
		Message:     cmd.Message,
		Now:         now,
	}); err != nil {
		return nil, apperr.InvalidState("updating request", err)
	}

	if err := unit.Rentals().Save(ctx, req); err != nil {
		return nil, apperr.Unexpected("saving request", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, req); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing update", err)
		}
		committed = true
	}
	return &UpdateRequestResult{
		RequestID:  string(req.ID),
		TotalMinor: quote.Total.Amount,
		Currency:   quote.Total.Currency,
	}, nil
}

var _ commands.Handler[UpdateRequestCommand, *UpdateRequestResult] = (*UpdateRequestHandler)(nil)
