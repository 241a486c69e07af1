package maintenance

import (
	"context"
	"errors"
	"time"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainmaintenance "erents/internal/domain/maintenance"
	domainproperty "erents/internal/domain/property"
	domainuser "erents/internal/domain/user"
)

const transitionTicketKey = "maintenance.transition"

// TicketAction names the lifecycle moves. Start and Resolve belong to the
// property owner, Cancel to the reporter.
type TicketAction string

const (
	ActionStart   TicketAction = "START"
	ActionResolve TicketAction = "RESOLVE"
	ActionCancel  TicketAction = "CANCEL"
)

type TransitionTicketCommand struct {
	TicketID   string
	ActorID    string
	Action     TicketAction
	Resolution string
	Now        time.Time
}

func (c TransitionTicketCommand) Key() string { return transitionTicketKey }

type TransitionTicketResult struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
}

type TransitionTicketHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *TransitionTicketHandler) Handle(ctx context.Context, cmd TransitionTicketCommand) (*TransitionTicketResult, error) {
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

	ticket, err := unit.Maintenance().ByID(ctx, domainmaintenance.TicketID(cmd.TicketID))
	if err != nil {
		if errors.Is(err, domainmaintenance.ErrNotFound) {
			return nil, apperr.NotFound("ticket not found", err)
		}
		return nil, apperr.Unexpected("loading ticket", err)
	}
	prop, err := unit.Properties().ByID(ctx, ticket.PropertyID)
	if err != nil && !errors.Is(err, domainproperty.ErrNotFound) {
		return nil, apperr.Unexpected("loading property", err)
	}

	actor := domainuser.ID(cmd.ActorID)
	isOwner := prop != nil && prop.OwnerID == actor

	switch cmd.Action {
	case ActionStart:
		if !isOwner {
			return nil, apperr.Unauthorized("only the owner may start work", nil)
		}
		err = ticket.StartWork(now)
	case ActionResolve:
		if !isOwner {
			return nil, apperr.Unauthorized("only the owner may resolve", nil)
		}
		err = ticket.Resolve(cmd.Resolution, now)
	case ActionCancel:
		if ticket.ReporterID != actor {
			return nil, apperr.Unauthorized("only the reporter may cancel", nil)
		}
		err = ticket.CancelTicket(now)
	default:
		return nil, apperr.Validation("unknown ticket action", nil)
	}
	if err != nil {
		return nil, apperr.InvalidState("transitioning ticket", err)
	}

	if err := unit.Maintenance().Save(ctx, ticket); err != nil {
		return nil, apperr.Unexpected("saving ticket", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, ticket); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing transition", err)
		}
		committed = true
	}
	return &TransitionTicketResult{TicketID: string(ticket.ID), Status: string(ticket.Status)}, nil
}

var _ commands.Handler[TransitionTicketCommand, *TransitionTicketResult] = (*TransitionTicketHandler)(nil)
