package rental

import (
	"time"

	"erents/internal/domain/property"
	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/money"
	"erents/internal/domain/user"
)

type RequestSubmitted struct {
	RequestID  RequestID
	PropertyID property.ID
	TenantID   user.ID
	Range      daterange.DateRange
	Total      money.Money
	At         time.Time
}

func (e RequestSubmitted) EventName() string     { return "rental.requested" }
func (e RequestSubmitted) AggregateID() string   { return string(e.RequestID) }
func (e RequestSubmitted) OccurredAt() time.Time { return e.At }

type RequestApproved struct {
	RequestID  RequestID
	PropertyID property.ID
	TenantID   user.ID
	Range      daterange.DateRange
	At         time.Time
}

func (e RequestApproved) EventName() string     { return "rental.approved" }
func (e RequestApproved) AggregateID() string   { return string(e.RequestID) }
func (e RequestApproved) OccurredAt() time.Time { return e.At }

type RequestRejected struct {
	RequestID  RequestID
	PropertyID property.ID
	Reason     string
	At         time.Time
}

func (e RequestRejected) EventName() string     { return "rental.rejected" }
func (e RequestRejected) AggregateID() string   { return string(e.RequestID) }
func (e RequestRejected) OccurredAt() time.Time { return e.At }

type RequestCancelled struct {
	RequestID  RequestID
	PropertyID property.ID
	Reason     string
	At         time.Time
}

func (e RequestCancelled) EventName() string     { return "rental.cancelled" }
func (e RequestCancelled) AggregateID() string   { return string(e.RequestID) }
func (e RequestCancelled) OccurredAt() time.Time { return e.At }

type RequestUpdated struct {
	RequestID RequestID
	At        time.Time
}

func (e RequestUpdated) EventName() string     { return "rental.updated" }
func (e RequestUpdated) AggregateID() string   { return string(e.RequestID) }
func (e RequestUpdated) OccurredAt() time.Time { return e.At }
