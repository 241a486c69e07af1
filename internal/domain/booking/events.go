package booking

import (
	"time"

	"erents/internal/domain/property"
	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/money"
	"erents/internal/domain/user"
)

type BookingCreated struct {
	BookingID  BookingID
	PropertyID property.ID
	TenantID   user.ID
	Range      daterange.DateRange
	Total      money.Money
	At         time.Time
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID  BookingID
	PropertyID property.ID
	Refund     money.Money
	Reason     string
	At         time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type StayStarted struct {
	BookingID BookingID
	At        time.Time
}

func (e StayStarted) EventName() string     { return "booking.stay_started" }
func (e StayStarted) AggregateID() string   { return string(e.BookingID) }
func (e StayStarted) OccurredAt() time.Time { return e.At }

type StayCompleted struct {
	BookingID BookingID
	At        time.Time
}

func (e StayCompleted) EventName() string     { return "booking.stay_completed" }
func (e StayCompleted) AggregateID() string   { return string(e.BookingID) }
func (e StayCompleted) OccurredAt() time.Time { return e.At }
