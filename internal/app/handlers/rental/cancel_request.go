package rental

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
	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
	domaintenancy "erents/internal/domain/tenancy"
	domainuser "erents/internal/domain/user"
)

const cancelRequestKey = "rental.cancel"

type CancelRequestCommand struct {
	RequestID string
	ActorID   string
	Reason    string
	Now       time.Time
}

func (c CancelRequestCommand) Key() string { return cancelRequestKey }

type CancelRequestResult struct {
	RequestID   string `json:"request_id"`
	RefundMinor int64  `json:"refund_minor"`
	Currency    string `json:"currency,omitempty"`
}

// CancelRequestHandler withdraws a pending or approved request. Cancelling an
// approved one also unwinds the lease: the booking is cancelled with its
// tiered refund, the tenancy ends and the property is listed again.
type CancelRequestHandler struct {
	UoWFactory uow.Factory
	Payments   policies.PaymentsPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CancelRequestHandler) Handle(ctx context.Context, cmd CancelRequestCommand) (*CancelRequestResult, error) {
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
		return nil, apperr.Unauthorized("only the requester may cancel", nil)
	}

	wasApproved := req.Status == domainrental.StatusApproved
	if err := req.Cancel(cmd.Reason, now); err != nil {
		return nil, apperr.InvalidState("cancelling request", err)
	}

	result := &CancelRequestResult{RequestID: string(req.ID)}
	drain := []eventSource{req}

	if wasApproved {
		stay, err := unit.Bookings().ByRequest(ctx, string(req.ID))
		switch {
		case err == nil:
			refund, cancelErr := stay.Cancel(cmd.Reason, now)
			if cancelErr != nil {
				return nil, apperr.InvalidState("cancelling lease booking", cancelErr)
			}
			if refund.IsPositive() && h.Payments != nil {
				if err := h.Payments.Refund(ctx, string(stay.ID), refund); err != nil {
					return nil, apperr.Unexpected("refunding payment", err)
				}
			}
			if err := unit.Bookings().Save(ctx, stay); err != nil {
				return nil, apperr.Unexpected("saving booking", err)
			}
			result.RefundMinor = refund.Amount
			result.Currency = refund.Currency
			drain = append(drain, stay)
		case errors.Is(err, domainbooking.ErrNotFound):
			// approval predates lease bookings; nothing to refund
		default:
			return nil, apperr.Unexpected("loading lease booking", err)
		}

		lease, err := unit.Tenancies().ActiveByProperty(ctx, req.PropertyID)
		if err == nil && lease.RequestID == string(req.ID) {
			if err := lease.End(now); err == nil {
				if err := unit.Tenancies().Save(ctx, lease); err != nil {
					return nil, apperr.Unexpected("saving tenancy", err)
				}
				drain = append(drain, lease)
			}
		} else if err != nil && !errors.Is(err, domaintenancy.ErrNotFound) {
			return nil, apperr.Unexpected("loading tenancy", err)
		}

		prop, err := unit.Properties().ByID(ctx, req.PropertyID)
		if err == nil {
			if err := prop.MarkAvailable(now); err == nil {
				if err := unit.Properties().Save(ctx, prop); err != nil {
					return nil, apperr.Unexpected("saving property", err)
				}
				drain = append(drain, prop)
			}
		} else if !errors.Is(err, domainproperty.ErrNotFound) {
			return nil, apperr.Unexpected("loading property", err)
		}
	}

	if err := unit.Rentals().Save(ctx, req); err != nil {
		return nil, apperr.Unexpected("saving request", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, drain...); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing cancellation", err)
		}
		committed = true
	}
	return result, nil
}

var _ commands.Handler[CancelRequestCommand, *CancelRequestResult] = (*CancelRequestHandler)(nil)
