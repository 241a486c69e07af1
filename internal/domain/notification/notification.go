package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"erents/internal/domain/user"
)

var ErrNotFound = errors.New("notification: not found")

type NotificationID string

type Kind string

const (
	KindRentalRequested  Kind = "RENTAL_REQUESTED"
	KindRentalApproved   Kind = "RENTAL_APPROVED"
	KindRentalRejected   Kind = "RENTAL_REJECTED"
	KindRentalCancelled  Kind = "RENTAL_CANCELLED"
	KindBookingCreated   Kind = "BOOKING_CREATED"
	KindBookingCancelled Kind = "BOOKING_CANCELLED"
	KindMaintenance      Kind = "MAINTENANCE"
)

// Notification is the per-user projection of a domain event, written by the
// event consumer and read by the inbox API.
type Notification struct {
	ID          NotificationID
	UserID      user.ID
	Kind        Kind
	Subject     string
	Body        string
	AggregateID string
	Read        bool
	CreatedAt   time.Time
}

type Repository interface {
	ListByUser(ctx context.Context, userID user.ID, unreadOnly bool) ([]*Notification, error)
	Save(ctx context.Context, n *Notification) error
	MarkRead(ctx context.Context, id NotificationID, userID user.ID) error
}

type CreateParams struct {
	ID          NotificationID
	UserID      user.ID
	Kind        Kind
	Subject     string
	Body        string
	AggregateID string
	Now         time.Time
}

func New(params CreateParams) (*Notification, error) {
	if strings.TrimSpace(string(params.UserID)) == "" {
		return nil, errors.New("notification: user id is required")
	}
	subject := strings.TrimSpace(params.Subject)
	if subject == "" {
		return nil, errors.New("notification: subject is required")
	}
	return &Notification{
		ID:          params.ID,
		UserID:      params.UserID,
		Kind:        params.Kind,
		Subject:     subject,
		Body:        strings.TrimSpace(params.Body),
		AggregateID: params.AggregateID,
		CreatedAt:   params.Now.UTC(),
	}, nil
}
