package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"erents/internal/domain/property"
	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/events"
	"erents/internal/domain/shared/money"
	"erents/internal/domain/user"
)

var (
	ErrNotFound       = errors.New("booking: not found")
	ErrInvalidState   = errors.New("booking: invalid status transition")
	ErrInvalidGuests  = errors.New("booking: guests count must be positive")
	ErrInvalidTotal   = errors.New("booking: total must be positive")
	ErrStartInPast    = errors.New("booking: start date is in the past")
	ErrTenantRequired = errors.New("booking: tenant id required")
)

type BookingID string

// Status advances forward only; cancelled and completed stays never come
// back.
type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "PENDING"
	PaymentPaid              PaymentStatus = "PAID"
	PaymentRefunded          PaymentStatus = "REFUNDED"
	PaymentPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

// Booking is a confirmed stay: a daily reservation, or the monthly stay an
// approved rental request turns into.
type Booking struct {
	ID            BookingID
	PropertyID    property.ID
	TenantID      user.ID
	Range         daterange.DateRange
	Guests        int
	Total         money.Money
	Status        Status
	PaymentStatus PaymentStatus
	RequestID     string
	PaymentHold   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// ByRequest finds the booking created from an approved rental request.
	ByRequest(ctx context.Context, requestID string) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	ListByTenant(ctx context.Context, tenantID user.ID) ([]*Booking, error)
	ListByProperty(ctx context.Context, propertyID property.ID) ([]*Booking, error)
	// ClaimedOverlapping returns upcoming or active bookings for the
	// property whose [start,end) interval overlaps dr.
	ClaimedOverlapping(ctx context.Context, propertyID property.ID, dr daterange.DateRange) ([]*Booking, error)
	// DueForAdvance returns upcoming bookings whose start has passed and
	// active ones whose end has passed, as of now.
	DueForAdvance(ctx context.Context, now time.Time) ([]*Booking, error)
}

type CreateParams struct {
	ID         BookingID
	PropertyID property.ID
	TenantID   user.ID
	Range      daterange.DateRange
	Guests     int
	Total      money.Money
	RequestID  string
	Now        time.Time
}

func New(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.TenantID)) == "" {
		return nil, ErrTenantRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if !params.Total.IsPositive() {
		return nil, ErrInvalidTotal
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:            params.ID,
		PropertyID:    params.PropertyID,
		TenantID:      params.TenantID,
		Range:         params.Range,
		Guests:        params.Guests,
		Total:         params.Total,
		Status:        StatusUpcoming,
		PaymentStatus: PaymentPending,
		RequestID:     params.RequestID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.Record(BookingCreated{BookingID: b.ID, PropertyID: b.PropertyID, TenantID: b.TenantID, Range: b.Range, Total: b.Total, At: now})
	return b, nil
}

// ValidateRange rejects stays starting before today; dates are compared at
// day granularity in UTC.
func ValidateRange(dr daterange.DateRange, now time.Time) error {
	if err := dr.Validate(); err != nil {
		return err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(dr.Start.Year(), dr.Start.Month(), dr.Start.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		return ErrStartInPast
	}
	return nil
}

func (b *Booking) MarkPaid(holdID string, now time.Time) error {
	if b.Status == StatusCancelled || b.Status == StatusCompleted {
		return ErrInvalidState
	}
	b.PaymentStatus = PaymentPaid
	b.PaymentHold = holdID
	b.UpdatedAt = now.UTC()
	return nil
}

func (b *Booking) Activate(now time.Time) error {
	if b.Status != StatusUpcoming {
		return ErrInvalidState
	}
	b.Status = StatusActive
	b.UpdatedAt = now.UTC()
	b.Record(StayStarted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusActive {
		return ErrInvalidState
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now.UTC()
	b.Record(StayCompleted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

// Advance moves the status forward against the clock: an upcoming stay
// becomes active once its start date is reached, an active one completes at
// its end date. Returns true when the status changed.
func (b *Booking) Advance(now time.Time) bool {
	now = now.UTC()
	switch b.Status {
	case StatusUpcoming:
		if !now.Before(b.Range.Start) {
			if !now.Before(b.Range.End) {
				_ = b.Activate(now)
				_ = b.Complete(now)
				return true
			}
			return b.Activate(now) == nil
		}
	case StatusActive:
		if !now.Before(b.Range.End) {
			return b.Complete(now) == nil
		}
	}
	return false
}

// Cancel ends the stay and computes the refund owed under the tiered
// policy. Terminal states cannot be cancelled.
func (b *Booking) Cancel(reason string, cancelAt time.Time) (money.Money, error) {
	if b.Status != StatusUpcoming && b.Status != StatusActive {
		return money.Money{}, ErrInvalidState
	}
	refund := Refund(b.Total, b.Range.Start, cancelAt)
	b.Status = StatusCancelled
	switch {
	case refund.Amount >= b.Total.Amount:
		b.PaymentStatus = PaymentRefunded
	case refund.IsPositive():
		b.PaymentStatus = PaymentPartiallyRefunded
	}
	b.UpdatedAt = cancelAt.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, PropertyID: b.PropertyID, Refund: refund, Reason: strings.TrimSpace(reason), At: b.UpdatedAt})
	return refund, nil
}
