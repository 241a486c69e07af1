// Package schedule drives the clock-based transitions: stays become active
// and complete as their dates pass, and leases end when they run out.
package schedule

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
	"erents/internal/domain/shared/events"
)

// Sweeper periodically advances booking and tenancy state against the clock.
type Sweeper struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
	Interval   time.Duration
	Now        func() time.Time
}

// Run sweeps on the configured interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil && s.Logger != nil {
				s.Logger.Error("schedule sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs a single pass in one unit of work.
func (s *Sweeper) Sweep(ctx context.Context) error {
	if s.UoWFactory == nil {
		return errors.New("schedule: uow factory required")
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	now = now.UTC()

	unit, err := s.UoWFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(execCtx)
		}
	}()

	if err := s.advanceBookings(execCtx, unit, now); err != nil {
		return err
	}
	if err := s.endLeases(execCtx, unit, now); err != nil {
		return err
	}

	if err := unit.Commit(execCtx); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Sweeper) advanceBookings(ctx context.Context, unit uow.UnitOfWork, now time.Time) error {
	due, err := unit.Bookings().DueForAdvance(ctx, now)
	if err != nil {
		return err
	}
	for _, stay := range due {
		if !stay.Advance(now) {
			continue
		}
		if err := unit.Bookings().Save(ctx, stay); err != nil {
			return err
		}
		if err := s.drain(ctx, stay); err != nil {
			return err
		}
		if s.Logger != nil {
			s.Logger.Info("booking advanced", "booking_id", stay.ID, "status", stay.Status)
		}
	}
	return nil
}

// endLeases closes tenancies whose lease window has run out and relists the
// property.
func (s *Sweeper) endLeases(ctx context.Context, unit uow.UnitOfWork, now time.Time) error {
	expired, err := unit.Tenancies().ActiveEndingBefore(ctx, now)
	if err != nil {
		return err
	}
	for _, lease := range expired {
		if err := lease.End(now); err != nil {
			continue
		}
		if err := unit.Tenancies().Save(ctx, lease); err != nil {
			return err
		}
		if err := s.drain(ctx, lease); err != nil {
			return err
		}

		prop, err := unit.Properties().ByID(ctx, lease.PropertyID)
		if err != nil {
			if errors.Is(err, domainproperty.ErrNotFound) {
				continue
			}
			return err
		}
		if err := prop.MarkAvailable(now); err == nil {
			if err := unit.Properties().Save(ctx, prop); err != nil {
				return err
			}
			if err := s.drain(ctx, prop); err != nil {
				return err
			}
		}
		if s.Logger != nil {
			s.Logger.Info("lease ended", "tenancy_id", lease.ID, "property_id", lease.PropertyID)
		}
	}
	return nil
}

type eventSource interface {
	PendingEvents() []events.DomainEvent
	ClearEvents()
}

func (s *Sweeper) drain(ctx context.Context, src eventSource) error {
	evs := src.PendingEvents()
	src.ClearEvents()
	return outbox.RecordDomainEvents(ctx, s.Outbox, s.Encoder, evs)
}
