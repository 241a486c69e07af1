package booking

import (
	"context"

	"erents/internal/app/handlers/support"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	"erents/internal/domain/shared/events"
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
