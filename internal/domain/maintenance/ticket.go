package maintenance

import (
	"context"
	"errors"
	"strings"
	"time"

	"erents/internal/domain/property"
	"erents/internal/domain/shared/events"
	"erents/internal/domain/user"
)

var (
	ErrNotFound        = errors.New("maintenance: ticket not found")
	ErrInvalidState    = errors.New("maintenance: invalid status transition")
	ErrTitleRequired   = errors.New("maintenance: title is required")
	ErrUnknownPriority = errors.New("maintenance: unknown priority")
)

type TicketID string

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusCancelled  Status = "CANCELLED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Ticket is a maintenance issue reported against a property by its tenant;
// the property owner drives it to resolution.
type Ticket struct {
	ID          TicketID
	PropertyID  property.ID
	ReporterID  user.ID
	Title       string
	Description string
	Priority    Priority
	Status      Status
	Resolution  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id TicketID) (*Ticket, error)
	ListByProperty(ctx context.Context, propertyID property.ID) ([]*Ticket, error)
	ListByReporter(ctx context.Context, reporterID user.ID) ([]*Ticket, error)
	Save(ctx context.Context, t *Ticket) error
}

type OpenParams struct {
	ID          TicketID
	PropertyID  property.ID
	ReporterID  user.ID
	Title       string
	Description string
	Priority    Priority
	Now         time.Time
}

func Open(params OpenParams) (*Ticket, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	priority, ok := normalizePriority(params.Priority)
	if !ok {
		return nil, ErrUnknownPriority
	}
	now := params.Now.UTC()
	t := &Ticket{
		ID:          params.ID,
		PropertyID:  params.PropertyID,
		ReporterID:  params.ReporterID,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Priority:    priority,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.Record(TicketOpened{TicketID: t.ID, PropertyID: t.PropertyID, Priority: t.Priority, At: now})
	return t, nil
}

func (t *Ticket) StartWork(now time.Time) error {
	if t.Status != StatusOpen {
		return ErrInvalidState
	}
	t.Status = StatusInProgress
	t.UpdatedAt = now.UTC()
	return nil
}

func (t *Ticket) Resolve(resolution string, now time.Time) error {
	if t.Status != StatusOpen && t.Status != StatusInProgress {
		return ErrInvalidState
	}
	t.Status = StatusResolved
	t.Resolution = strings.TrimSpace(resolution)
	t.UpdatedAt = now.UTC()
	t.Record(TicketResolved{TicketID: t.ID, PropertyID: t.PropertyID, At: t.UpdatedAt})
	return nil
}

// CancelTicket is available to the reporter while work has not finished.
func (t *Ticket) CancelTicket(now time.Time) error {
	if t.Status == StatusResolved || t.Status == StatusCancelled {
		return ErrInvalidState
	}
	t.Status = StatusCancelled
	t.UpdatedAt = now.UTC()
	return nil
}

func normalizePriority(p Priority) (Priority, bool) {
	switch Priority(strings.ToUpper(strings.TrimSpace(string(p)))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium, "":
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityUrgent:
		return PriorityUrgent, true
	default:
		return "", false
	}
}

type TicketOpened struct {
	TicketID   TicketID
	PropertyID property.ID
	Priority   Priority
	At         time.Time
}

func (e TicketOpened) EventName() string     { return "maintenance.opened" }
func (e TicketOpened) AggregateID() string   { return string(e.TicketID) }
func (e TicketOpened) OccurredAt() time.Time { return e.At }

type TicketResolved struct {
	TicketID   TicketID
	PropertyID property.ID
	At         time.Time
}

func (e TicketResolved) EventName() string     { return "maintenance.resolved" }
func (e TicketResolved) AggregateID() string   { return string(e.TicketID) }
func (e TicketResolved) OccurredAt() time.Time { return e.At }
