package tenancy

import (
	"context"
	"errors"
	"time"

	"erents/internal/domain/property"
	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/events"
	"erents/internal/domain/user"
)

var (
	ErrNotFound     = errors.New("tenancy: not found")
	ErrAlreadyEnded = errors.New("tenancy: lease already ended")
)

type TenancyID string

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusLeaseEnded Status = "LEASE_ENDED"
)

// Tenancy joins a user to a property for the duration of an approved lease.
type Tenancy struct {
	ID         TenancyID
	PropertyID property.ID
	TenantID   user.ID
	Lease      daterange.DateRange
	RequestID  string
	Status     Status
	CreatedAt  time.Time
	EndedAt    time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id TenancyID) (*Tenancy, error)
	ActiveByProperty(ctx context.Context, propertyID property.ID) (*Tenancy, error)
	// ActiveEndingBefore returns active tenancies whose lease end has passed.
	ActiveEndingBefore(ctx context.Context, now time.Time) ([]*Tenancy, error)
	ListByTenant(ctx context.Context, tenantID user.ID) ([]*Tenancy, error)
	Save(ctx context.Context, t *Tenancy) error
}

type StartParams struct {
	ID         TenancyID
	PropertyID property.ID
	TenantID   user.ID
	Lease      daterange.DateRange
	RequestID  string
	Now        time.Time
}

// Start opens the lease; created when a rental request is approved.
func Start(params StartParams) (*Tenancy, error) {
	if err := params.Lease.Validate(); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	t := &Tenancy{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		TenantID:   params.TenantID,
		Lease:      params.Lease,
		RequestID:  params.RequestID,
		Status:     StatusActive,
		CreatedAt:  now,
	}
	t.Record(LeaseStarted{TenancyID: t.ID, PropertyID: t.PropertyID, TenantID: t.TenantID, At: now})
	return t, nil
}

func (t *Tenancy) End(now time.Time) error {
	if t.Status != StatusActive {
		return ErrAlreadyEnded
	}
	t.Status = StatusLeaseEnded
	t.EndedAt = now.UTC()
	t.Record(LeaseEnded{TenancyID: t.ID, PropertyID: t.PropertyID, TenantID: t.TenantID, At: t.EndedAt})
	return nil
}

type LeaseStarted struct {
	TenancyID  TenancyID
	PropertyID property.ID
	TenantID   user.ID
	At         time.Time
}

func (e LeaseStarted) EventName() string     { return "tenancy.lease_started" }
func (e LeaseStarted) AggregateID() string   { return string(e.TenancyID) }
func (e LeaseStarted) OccurredAt() time.Time { return e.At }

type LeaseEnded struct {
	TenancyID  TenancyID
	PropertyID property.ID
	TenantID   user.ID
	At         time.Time
}

func (e LeaseEnded) EventName() string     { return "tenancy.lease_ended" }
func (e LeaseEnded) AggregateID() string   { return string(e.TenancyID) }
func (e LeaseEnded) OccurredAt() time.Time { return e.At }
