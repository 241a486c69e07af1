// Package maintenance implements the repair-ticket flow between tenants and
// property owners.
package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainmaintenance "erents/internal/domain/maintenance"
	domainproperty "erents/internal/domain/property"
	domaintenancy "erents/internal/domain/tenancy"
	domainuser "erents/internal/domain/user"
)

const openTicketKey = "maintenance.open"

var ErrUnitOfWorkRequired = errors.New("maintenance: unit of work required")

type OpenTicketCommand struct {
	PropertyID  string
	ReporterID  string
	Title       string
	Description string
	Priority    string
	Now         time.Time
}

func (c OpenTicketCommand) Key() string { return openTicketKey }

type OpenTicketResult struct {
	TicketID string `json:"ticket_id"`
}

// OpenTicketHandler accepts reports from the property's current tenant or
// its owner.
type OpenTicketHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *OpenTicketHandler) Handle(ctx context.Context, cmd OpenTicketCommand) (*OpenTicketResult, error) {
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

	prop, err := unit.Properties().ByID(ctx, domainproperty.ID(cmd.PropertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return nil, apperr.NotFound("property not found", err)
		}
		return nil, apperr.Unexpected("loading property", err)
	}

	reporter := domainuser.ID(cmd.ReporterID)
	allowed := prop.OwnerID == reporter
	if !allowed {
		lease, err := unit.Tenancies().ActiveByProperty(ctx, prop.ID)
		if err != nil && !errors.Is(err, domaintenancy.ErrNotFound) {
			return nil, apperr.Unexpected("loading tenancy", err)
		}
		allowed = err == nil && lease.TenantID == reporter
	}
	if !allowed {
		return nil, apperr.Unauthorized("only the current tenant or the owner may report", nil)
	}

	ticket, err := domainmaintenance.Open(domainmaintenance.OpenParams{
		ID:          domainmaintenance.TicketID(uuid.NewString()),
		PropertyID:  prop.ID,
		ReporterID:  reporter,
		Title:       cmd.Title,
		Description: cmd.Description,
		Priority:    domainmaintenance.Priority(cmd.Priority),
		Now:         now,
	})
	if err != nil {
		return nil, apperr.Validation("building ticket", err)
	}

	if err := unit.Maintenance().Save(ctx, ticket); err != nil {
		return nil, apperr.Unexpected("saving ticket", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, ticket); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing ticket", err)
		}
		committed = true
	}
	return &OpenTicketResult{TicketID: string(ticket.ID)}, nil
}

var _ commands.Handler[OpenTicketCommand, *OpenTicketResult] = (*OpenTicketHandler)(nil)
