package rental

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
	ErrNotFound      = errors.New("rental: request not found")
	ErrInvalidState  = errors.New("rental: operation not legal for current status")
	ErrGuestsInvalid = errors.New("rental: guests count must be positive")
	ErrRentInvalid   = errors.New("rental: monthly rent must be positive")
)

type RequestID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Request is a prospective tenant's lease proposal, mutated only by the
// property owner (approve/reject) or the requester (cancel, update while
// pending).
type Request struct {
	ID            RequestID
	PropertyID    property.ID
	TenantID      user.ID
	Range         daterange.DateRange
	Guests        int
	MonthlyRent   money.Money
	TotalPrice    money.Money
	Status        Status
	Message       string
	LandlordReply string
	RequestedAt   time.Time
	RespondedAt   time.Time
	Version       int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id RequestID) (*Request, error)
	Save(ctx context.Context, req *Request) error
	Delete(ctx context.Context, id RequestID) error
	ListByTenant(ctx context.Context, tenantID user.ID) ([]*Request, error)
	ListByProperty(ctx context.Context, propertyID property.ID) ([]*Request, error)
	// ApprovedOverlapping returns approved requests for the property whose
	// [start,end) interval overlaps dr, excluding the given request id.
	ApprovedOverlapping(ctx context.Context, propertyID property.ID, dr daterange.DateRange, exclude RequestID) ([]*Request, error)
}

type CreateParams struct {
	ID          RequestID
	PropertyID  property.ID
	TenantID    user.ID
	Range       daterange.DateRange
	Guests      int
	MonthlyRent money.Money
	TotalPrice  money.Money
	Message     string
	Now         time.Time
}

func NewRequest(params CreateParams) (*Request, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("rental: id is required")
	}
	if strings.TrimSpace(string(params.PropertyID)) == "" {
		return nil, errors.New("rental: property id is required")
	}
	if strings.TrimSpace(string(params.TenantID)) == "" {
		return nil, errors.New("rental: tenant id is required")
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Guests <= 0 {
		return nil, ErrGuestsInvalid
	}
	if !params.MonthlyRent.IsPositive() {
		return nil, ErrRentInvalid
	}
	now := params.Now.UTC()
	r := &Request{
		ID:          params.ID,
		PropertyID:  params.PropertyID,
		TenantID:    params.TenantID,
		Range:       params.Range,
		Guests:      params.Guests,
		MonthlyRent: params.MonthlyRent,
		TotalPrice:  params.TotalPrice,
		Status:      StatusPending,
		Message:     strings.TrimSpace(params.Message),
		RequestedAt: now,
	}
	r.Record(RequestSubmitted{RequestID: r.ID, PropertyID: r.PropertyID, TenantID: r.TenantID, Range: r.Range, Total: r.TotalPrice, At: now})
	return r, nil
}

func (r *Request) Approve(reply string, now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidState
	}
	r.Status = StatusApproved
	r.LandlordReply = strings.TrimSpace(reply)
	r.RespondedAt = now.UTC()
	r.Record(RequestApproved{RequestID: r.ID, PropertyID: r.PropertyID, TenantID: r.TenantID, Range: r.Range, At: r.RespondedAt})
	return nil
}

func (r *Request) Reject(reply string, now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidState
	}
	r.Status = StatusRejected
	r.LandlordReply = strings.TrimSpace(reply)
	r.RespondedAt = now.UTC()
	r.Record(RequestRejected{RequestID: r.ID, PropertyID: r.PropertyID, Reason: r.LandlordReply, At: r.RespondedAt})
	return nil
}

// Cancel is available to the requester while the request is pending or
// already approved; approving landlords cannot cancel, they reject.
func (r *Request) Cancel(reason string, now time.Time) error {
	if r.Status != StatusPending && r.Status != StatusApproved {
		return ErrInvalidState
	}
	r.Status = StatusCancelled
	r.RespondedAt = now.UTC()
	r.Record(RequestCancelled{RequestID: r.ID, PropertyID: r.PropertyID, Reason: strings.TrimSpace(reason), At: r.RespondedAt})
	return nil
}

type UpdateTermsParams struct {
	Range       daterange.DateRange
	Guests      int
	MonthlyRent money.Money
	TotalPrice  money.Money
	Message     string
	Now         time.Time
}

// UpdateTerms replaces the proposed terms; only pending requests may change.
// Availability is not re-checked here, approval re-checks it anyway.
func (r *Request) UpdateTerms(params UpdateTermsParams) error {
	if r.Status != StatusPending {
		return ErrInvalidState
	}
	if err := params.Range.Validate(); err != nil {
		return err
	}
	if params.Guests <= 0 {
		return ErrGuestsInvalid
	}
	if !params.MonthlyRent.IsPositive() {
		return ErrRentInvalid
	}
	r.Range = params.Range
	r.Guests = params.Guests
	r.MonthlyRent = params.MonthlyRent
	r.TotalPrice = params.TotalPrice
	r.Message = strings.TrimSpace(params.Message)
	r.Record(RequestUpdated{RequestID: r.ID, At: params.Now.UTC()})
	return nil
}

// Deletable reports whether the row may be removed at all; only requests
// the landlord never committed to can disappear.
func (r *Request) Deletable() bool {
	return r.Status == StatusPending || r.Status == StatusRejected
}
