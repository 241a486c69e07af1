// Package notify projects published domain events into per-user inbox
// notifications. It runs as a Kafka consumer group member so notification
// writes never sit on the command path.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"erents/internal/app/uow"
	domainmaintenance "erents/internal/domain/maintenance"
	domainnotification "erents/internal/domain/notification"
	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
	domainuser "erents/internal/domain/user"
)

// Topics lists the event streams the projector subscribes to.
func Topics(prefix string) []string {
	return []string{
		prefix + "rental.events.v1",
		prefix + "booking.events.v1",
		prefix + "maintenance.events.v1",
	}
}

type Projector struct {
	UoWFactory uow.Factory
	Logger     *slog.Logger
	Now        func() time.Time
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type eventData struct {
	RequestID  string `json:"RequestID"`
	BookingID  string `json:"BookingID"`
	TicketID   string `json:"TicketID"`
	PropertyID string `json:"PropertyID"`
	TenantID   string `json:"TenantID"`
	Reason     string `json:"Reason"`
}

// Handle decodes one CloudEvents record and writes the notification it calls
// for. Unknown event types are acknowledged and dropped.
func (p *Projector) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var env envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		if p.Logger != nil {
			p.Logger.Warn("notify: undecodable event, dropping", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
		return nil
	}
	var data eventData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			if p.Logger != nil {
				p.Logger.Warn("notify: undecodable event data, dropping", "type", env.Type, "error", err)
			}
			return nil
		}
	}

	unit, err := p.UoWFactory.Begin(ctx, uow.TxOptions{})
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

	handled, err := p.project(execCtx, unit, env.Type, data)
	if err != nil {
		_ = unit.Rollback(ctx)
		return err
	}
	if !handled {
		_ = unit.Rollback(ctx)
		return nil
	}
	return unit.Commit(ctx)
}

func (p *Projector) project(ctx context.Context, unit uow.UnitOfWork, eventType string, data eventData) (bool, error) {
	switch eventType {
	case "rental.requested.v1":
		owner, err := p.ownerOf(ctx, unit, data.PropertyID)
		if err != nil {
			return false, err
		}
		return true, p.save(ctx, unit, owner, domainnotification.KindRentalRequested,
			"New rental request",
			"A tenant asked to lease your property.", data.RequestID)

	case "rental.approved.v1":
		return true, p.save(ctx, unit, domainuser.ID(data.TenantID), domainnotification.KindRentalApproved,
			"Rental request approved",
			"Your lease request was approved by the landlord.", data.RequestID)

	case "rental.rejected.v1":
		tenant, err := p.tenantOfRequest(ctx, unit, data.RequestID)
		if err != nil {
			return false, err
		}
		return true, p.save(ctx, unit, tenant, domainnotification.KindRentalRejected,
			"Rental request rejected",
			rejectionBody(data.Reason), data.RequestID)

	case "rental.cancelled.v1":
		owner, err := p.ownerOf(ctx, unit, data.PropertyID)
		if err != nil {
			return false, err
		}
		return true, p.save(ctx, unit, owner, domainnotification.KindRentalCancelled,
			"Rental request cancelled",
			"The tenant cancelled their lease request.", data.RequestID)

	case "booking.created.v1":
		owner, err := p.ownerOf(ctx, unit, data.PropertyID)
		if err != nil {
			return false, err
		}
		return true, p.save(ctx, unit, owner, domainnotification.KindBookingCreated,
			"New booking",
			"A new stay was booked at your property.", data.BookingID)

	case "booking.cancelled.v1":
		owner, err := p.ownerOf(ctx, unit, data.PropertyID)
		if err != nil {
			return false, err
		}
		return true, p.save(ctx, unit, owner, domainnotification.KindBookingCancelled,
			"Booking cancelled",
			"A stay at your property was cancelled.", data.BookingID)

	case "maintenance.opened.v1":
		owner, err := p.ownerOf(ctx, unit, data.PropertyID)
		if err != nil {
			return false, err
		}
		return true, p.save(ctx, unit, owner, domainnotification.KindMaintenance,
			"Maintenance ticket opened",
			"A maintenance issue was reported at your property.", data.TicketID)

	case "maintenance.resolved.v1":
		reporter, err := p.reporterOfTicket(ctx, unit, data.TicketID)
		if err != nil {
			return false, err
		}
		return true, p.save(ctx, unit, reporter, domainnotification.KindMaintenance,
			"Maintenance ticket resolved",
			"Your maintenance ticket was resolved.", data.TicketID)
	}
	return false, nil
}

func (p *Projector) save(ctx context.Context, unit uow.UnitOfWork, userID domainuser.ID, kind domainnotification.Kind, subject, body, aggregateID string) error {
	note, err := domainnotification.New(domainnotification.CreateParams{
		ID:          domainnotification.NotificationID(uuid.NewString()),
		UserID:      userID,
		Kind:        kind,
		Subject:     subject,
		Body:        body,
		AggregateID: aggregateID,
		Now:         p.now(),
	})
	if err != nil {
		return err
	}
	return unit.Notifications().Save(ctx, note)
}

func (p *Projector) ownerOf(ctx context.Context, unit uow.UnitOfWork, propertyID string) (domainuser.ID, error) {
	prop, err := unit.Properties().ByID(ctx, domainproperty.ID(propertyID))
	if err != nil {
		return "", fmt.Errorf("notify: resolve property owner: %w", err)
	}
	return prop.OwnerID, nil
}

func (p *Projector) tenantOfRequest(ctx context.Context, unit uow.UnitOfWork, requestID string) (domainuser.ID, error) {
	req, err := unit.Rentals().ByID(ctx, domainrental.RequestID(requestID))
	if err != nil {
		return "", fmt.Errorf("notify: resolve request tenant: %w", err)
	}
	return req.TenantID, nil
}

func (p *Projector) reporterOfTicket(ctx context.Context, unit uow.UnitOfWork, ticketID string) (domainuser.ID, error) {
	ticket, err := unit.Maintenance().ByID(ctx, domainmaintenance.TicketID(ticketID))
	if err != nil {
		return "", fmt.Errorf("notify: resolve ticket reporter: %w", err)
	}
	return ticket.ReporterID, nil
}

func (p *Projector) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func rejectionBody(reason string) string {
	if reason == "" {
		return "Your lease request was rejected by the landlord."
	}
	return "Your lease request was rejected: " + reason
}
