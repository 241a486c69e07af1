package rental

import (
	"context"
	"errors"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
	domainuser "erents/internal/domain/user"
)

const deleteRequestKey = "rental.delete"

type DeleteRequestCommand struct {
	RequestID string
	ActorID   string
}

func (c DeleteRequestCommand) Key() string { return deleteRequestKey }

type DeleteRequestResult struct {
	RequestID string `json:"request_id"`
}

// DeleteRequestHandler removes a request the landlord never committed to.
// The requester or the property owner may delete; pending and rejected rows
// only.
type DeleteRequestHandler struct {
	UoWFactory uow.Factory
}

func (h *DeleteRequestHandler) Handle(ctx context.Context, cmd DeleteRequestCommand) (*DeleteRequestResult, error) {
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

	req, err := unit.Rentals().ByID(ctx, domainrental.RequestID(cmd.RequestID))
	if err != nil {
		if errors.Is(err, domainrental.ErrNotFound) {
			return nil, apperr.NotFound("rental request not found", err)
		}
		return nil, apperr.Unexpected("loading request", err)
	}

	actor := domainuser.ID(cmd.ActorID)
	allowed := req.TenantID == actor
	if !allowed {
		prop, err := unit.Properties().ByID(ctx, req.PropertyID)
		if err != nil && !errors.Is(err, domainproperty.ErrNotFound) {
			return nil, apperr.Unexpected("loading property", err)
		}
		allowed = err == nil && prop.OwnerID == actor
	}
	if !allowed {
		return nil, apperr.Unauthorized("only the requester or the owner may delete", nil)
	}
	if !req.Deletable() {
		return nil, apperr.InvalidState("approved or cancelled requests cannot be deleted", domainrental.ErrInvalidState)
	}

	if err := unit.Rentals().Delete(ctx, req.ID); err != nil {
		return nil, apperr.Unexpected("deleting request", err)
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing deletion", err)
		}
		committed = true
	}
	return &DeleteRequestResult{RequestID: string(req.ID)}, nil
}

var _ commands.Handler[DeleteRequestCommand, *DeleteRequestResult] = (*DeleteRequestHandler)(nil)
