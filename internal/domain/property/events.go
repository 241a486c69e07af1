package property

import (
	"time"

	"erents/internal/domain/user"
)

type PropertyListed struct {
	PropertyID ID
	OwnerID    user.ID
	At         time.Time
}

func (e PropertyListed) EventName() string     { return "property.listed" }
func (e PropertyListed) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyListed) OccurredAt() time.Time { return e.At }

type PropertyUpdated struct {
	PropertyID ID
	At         time.Time
}

func (e PropertyUpdated) EventName() string     { return "property.updated" }
func (e PropertyUpdated) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyUpdated) OccurredAt() time.Time { return e.At }

type PropertyStatusChanged struct {
	PropertyID ID
	Status     Status
	At         time.Time
}

func (e PropertyStatusChanged) EventName() string     { return "property.status_changed" }
func (e PropertyStatusChanged) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyStatusChanged) OccurredAt() time.Time { return e.At }
