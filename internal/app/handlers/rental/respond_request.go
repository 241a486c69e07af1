package rental

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"erents/internal/app/apperr"
	"erents/internal/app/availability"
	"erents/internal/app/commands"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainbooking "erents/internal/domain/booking"
	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
	domaintenancy "erents/internal/domain/tenancy"
	domainuser "erents/internal/domain/user"
)

const (
	approveRequestKey = "rental.approve"
	rejectRequestKey  = "rental.reject"
)

type ApproveRequestCommand struct {
	RequestID string
	ActorID   string
	Reply     string
	Now       time.Time
}

func (c ApproveRequestCommand) Key() string { return approveRequestKey }

type ApproveRequestResult struct {
	RequestID string `json:"request_id"`
	BookingID string `json:"booking_id"`
	TenancyID string `json:"tenancy_id"`
}

// ApproveRequestHandler commits the landlord to the lease. The availability
// re-check runs inside the same unit of work as the status flip, so a request
// approved concurrently for overlapping dates loses on either the check or
// the versioned save.
type ApproveRequestHandler struct {
	UoWFactory   uow.Factory
	Availability *availability.Checker
	Outbox       outbox.Outbox
	Encoder      outbox.EventEncoder
}

func (h *ApproveRequestHandler) Handle(ctx context.Context, cmd ApproveRequestCommand) (*ApproveRequestResult, error) {
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

	req, prop, err := loadRequestForOwner(ctx, unit, cmd.RequestID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if req.Status != domainrental.StatusPending {
		return nil, apperr.InvalidState("request already answered", domainrental.ErrInvalidState)
	}

	// The dates were free at submission time; another request may have been
	// approved since. Exclude this request so its own row never blocks it.
	free, err := h.Availability.Check(ctx, unit, prop.ID, req.Range, req.ID)
	if err != nil {
		return nil, apperr.Unexpected("availability re-check", err)
	}
	if !free {
		return nil, apperr.InvalidState("dates are no longer available", domainrental.ErrInvalidState)
	}

	if err := req.Approve(cmd.Reply, now); err != nil {
		return nil, apperr.InvalidState("approving request", err)
	}

	stay, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(uuid.NewString()),
		PropertyID: prop.ID,
		TenantID:   req.TenantID,
		Range:      req.Range,
		Guests:     req.Guests,
		Total:      req.TotalPrice,
		RequestID:  string(req.ID),
		Now:        now,
	})
	if err != nil {
		return nil, apperr.Unexpected("creating lease booking", err)
	}

	lease, err := domaintenancy.Start(domaintenancy.StartParams{
		ID:         domaintenancy.TenancyID(uuid.NewString()),
		PropertyID: prop.ID,
		TenantID:   req.TenantID,
		Lease:      req.Range,
		RequestID:  string(req.ID),
		Now:        now,
	})
	if err != nil {
		return nil, apperr.Unexpected("starting tenancy", err)
	}

	if err := prop.MarkOccupied(now); err != nil {
		return nil, apperr.InvalidState("marking property occupied", err)
	}

	if err := unit.Rentals().Save(ctx, req); err != nil {
		return nil, apperr.Unexpected("saving request", err)
	}
	if err := unit.Bookings().Save(ctx, stay); err != nil {
		return nil, apperr.Unexpected("saving booking", err)
	}
	if err := unit.Tenancies().Save(ctx, lease); err != nil {
		return nil, apperr.Unexpected("saving tenancy", err)
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, apperr.Unexpected("saving property", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, req, stay, lease, prop); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing approval", err)
		}
		committed = true
	}

	return &ApproveRequestResult{
		RequestID: string(req.ID),
		BookingID: string(stay.ID),
		TenancyID: string(lease.ID),
	}, nil
}

type RejectRequestCommand struct {
	RequestID string
	ActorID   string
	Reply     string
	Now       time.Time
}

func (c RejectRequestCommand) Key() string { return rejectRequestKey }

type RejectRequestResult struct {
	RequestID string `json:"request_id"`
}

type RejectRequestHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RejectRequestHandler) Handle(ctx context.Context, cmd RejectRequestCommand) (*RejectRequestResult, error) {
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

	req, _, err := loadRequestForOwner(ctx, unit, cmd.RequestID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if err := req.Reject(cmd.Reply, now); err != nil {
		return nil, apperr.InvalidState("rejecting request", err)
	}
	if err := unit.Rentals().Save(ctx, req); err != nil {
		return nil, apperr.Unexpected("saving request", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, req); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing rejection", err)
		}
		committed = true
	}
	return &RejectRequestResult{RequestID: string(req.ID)}, nil
}

// loadRequestForOwner loads the request and its property and verifies the
// actor owns that property.
func loadRequestForOwner(ctx context.Context, unit uow.UnitOfWork, requestID, actorID string) (*domainrental.Request, *domainproperty.Property, error) {
	req, err := unit.Rentals().ByID(ctx, domainrental.RequestID(requestID))
	if err != nil {
		if errors.Is(err, domainrental.ErrNotFound) {
			return nil, nil, apperr.NotFound("rental request not found", err)
		}
		return nil, nil, apperr.Unexpected("loading request", err)
	}
	prop, err := unit.Properties().ByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return nil, nil, apperr.NotFound("property not found", err)
		}
		return nil, nil, apperr.Unexpected("loading property", err)
	}
	if prop.OwnerID != domainuser.ID(actorID) {
		return nil, nil, apperr.Unauthorized("only the property owner may respond", nil)
	}
	return req, prop, nil
}

var _ commands.Handler[ApproveRequestCommand, *ApproveRequestResult] = (*ApproveRequestHandler)(nil)
var _ commands.Handler[RejectRequestCommand, *RejectRequestResult] = (*RejectRequestHandler)(nil)
