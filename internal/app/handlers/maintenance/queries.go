package maintenance

import (
	"context"
	"errors"

	"erents/internal/app/apperr"
	"erents/internal/app/dto"
	handlersupport "erents/internal/app/handlers/support"
	"erents/internal/app/queries"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
	domainuser "erents/internal/domain/user"
)

const (
	listPropertyTicketsKey = "maintenance.list.property"
	listReporterTicketsKey = "maintenance.list.reporter"
)

type ListPropertyTicketsQuery struct {
	PropertyID string
	ActorID    string
}

func (q ListPropertyTicketsQuery) Key() string { return listPropertyTicketsKey }

type ListPropertyTicketsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListPropertyTicketsHandler) Handle(ctx context.Context, q ListPropertyTicketsQuery) (dto.TicketCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.TicketCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	prop, err := unit.Properties().ByID(execCtx, domainproperty.ID(q.PropertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return dto.TicketCollection{}, apperr.NotFound("property not found", err)
		}
		return dto.TicketCollection{}, apperr.Unexpected("loading property", err)
	}
	if prop.OwnerID != domainuser.ID(q.ActorID) {
		return dto.TicketCollection{}, apperr.Unauthorized("only the owner may list a property's tickets", nil)
	}

	items, err := unit.Maintenance().ListByProperty(execCtx, prop.ID)
	if err != nil {
		return dto.TicketCollection{}, apperr.Unexpected("listing tickets", err)
	}
	out := make([]dto.TicketSummary, 0, len(items))
	for _, ticket := range items {
		out = append(out, dto.MapTicketSummary(ticket))
	}
	return dto.TicketCollection{Items: out}, nil
}

type ListReporterTicketsQuery struct {
	ReporterID string
}

func (q ListReporterTicketsQuery) Key() string { return listReporterTicketsKey }

type ListReporterTicketsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListReporterTicketsHandler) Handle(ctx context.Context, q ListReporterTicketsQuery) (dto.TicketCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.TicketCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Maintenance().ListByReporter(execCtx, domainuser.ID(q.ReporterID))
	if err != nil {
		return dto.TicketCollection{}, apperr.Unexpected("listing tickets", err)
	}
	out := make([]dto.TicketSummary, 0, len(items))
	for _, ticket := range items {
		out = append(out, dto.MapTicketSummary(ticket))
	}
	return dto.TicketCollection{Items: out}, nil
}

var _ queries.Handler[ListPropertyTicketsQuery, dto.TicketCollection] = (*ListPropertyTicketsHandler)(nil)
var _ queries.Handler[ListReporterTicketsQuery, dto.TicketCollection] = (*ListReporterTicketsHandler)(nil)
