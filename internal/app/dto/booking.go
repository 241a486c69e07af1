package dto

import (
	"time"

	domainbooking "erents/internal/domain/booking"
	domainproperty "erents/internal/domain/property"
)

type BookingSummary struct {
	ID            string                 `json:"id"`
	Property      RentalPropertySnapshot `json:"property"`
	TenantID      string                 `json:"tenant_id"`
	Start         time.Time              `json:"start"`
	End           time.Time              `json:"end"`
	Guests        int                    `json:"guests"`
	Total         MoneyDTO               `json:"total"`
	Status        string                 `json:"status"`
	PaymentStatus string                 `json:"payment_status"`
	RequestID     string                 `json:"request_id,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

func MapBookingSummary(b *domainbooking.Booking, prop *domainproperty.Property) BookingSummary {
	snapshot := RentalPropertySnapshot{
		ID: string(b.PropertyID),
	}
	if prop != nil {
		snapshot.Title = prop.Title
		snapshot.AddressLine1 = prop.Address.Line1
		snapshot.City = prop.Address.City
		snapshot.Country = prop.Address.Country
	}
	return BookingSummary{
		ID:            string(b.ID),
		Property:      snapshot,
		TenantID:      string(b.TenantID),
		Start:         b.Range.Start,
		End:           b.Range.End,
		Guests:        b.Guests,
		Total:         MapMoney(b.Total),
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		RequestID:     b.RequestID,
		CreatedAt:     b.CreatedAt,
	}
}
