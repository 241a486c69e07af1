package property

import (
	"context"
	"errors"

	"erents/internal/app/apperr"
	"erents/internal/app/handlers/support"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
	"erents/internal/domain/shared/events"
	domainuser "erents/internal/domain/user"
)

func beginUnit(ctx context.Context, factory uow.Factory) (uow.UnitOfWork, context.Context, bool, error) {
	unit, execCtx, managed, err := support.BeginUnit(ctx, factory)
	if err != nil {
		return nil, ctx, false, ErrUnitOfWorkRequired
	}
	return unit, execCtx, managed, nil
}

type eventSource interface {
	PendingEvents() []events.DomainEvent
	ClearEvents()
}

func drainEvents(ctx context.Context, box outbox.Outbox, encoder outbox.EventEncoder, sources ...eventSource) error {
	for _, src := range sources {
		evs := src.PendingEvents()
		src.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, box, encoder, evs); err != nil {
			return err
		}
	}
	return nil
}

// loadOwned loads the property and verifies the actor owns it.
func loadOwned(ctx context.Context, unit uow.UnitOfWork, propertyID, actorID string) (*domainproperty.Property, error) {
	prop, err := unit.Properties().ByID(ctx, domainproperty.ID(propertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return nil, apperr.NotFound("property not found", err)
		}
		return nil, apperr.Unexpected("loading property", err)
	}
	if prop.OwnerID != domainuser.ID(actorID) {
		return nil, apperr.Unauthorized("only the owner may manage this property", nil)
	}
	return prop, nil
}
