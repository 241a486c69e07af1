package dto

import (
	"time"

	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
)

type RentalPropertySnapshot struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

type RentalRequestSummary struct {
	ID            string                 `json:"id"`
	Property      RentalPropertySnapshot `json:"property"`
	TenantID      string                 `json:"tenant_id"`
	LeaseStart    time.Time              `json:"lease_start"`
	LeaseEnd      time.Time              `json:"lease_end"`
	Guests        int                    `json:"guests"`
	MonthlyRent   MoneyDTO               `json:"monthly_rent"`
	Total         MoneyDTO               `json:"total"`
	Status        string                 `json:"status"`
	Message       string                 `json:"message,omitempty"`
	LandlordReply string                 `json:"landlord_reply,omitempty"`
	RequestedAt   time.Time              `json:"requested_at"`
	RespondedAt   *time.Time             `json:"responded_at,omitempty"`
}

type RentalRequestCollection struct {
	Items []RentalRequestSummary `json:"items"`
}

func MapRentalRequestSummary(req *domainrental.Request, prop *domainproperty.Property) RentalRequestSummary {
	snapshot := RentalPropertySnapshot{
		ID: string(req.PropertyID),
	}
	if prop != nil {
		snapshot.Title = prop.Title
		snapshot.AddressLine1 = prop.Address.Line1
		snapshot.City = prop.Address.City
		snapshot.Country = prop.Address.Country
	}
	out := RentalRequestSummary{
		ID:            string(req.ID),
		Property:      snapshot,
		TenantID:      string(req.TenantID),
		LeaseStart:    req.Range.Start,
		LeaseEnd:      req.Range.End,
		Guests:        req.Guests,
		MonthlyRent:   MapMoney(req.MonthlyRent),
		Total:         MapMoney(req.TotalPrice),
		Status:        string(req.Status),
		Message:       req.Message,
		LandlordReply: req.LandlordReply,
		RequestedAt:   req.RequestedAt,
	}
	if !req.RespondedAt.IsZero() {
		at := req.RespondedAt
		out.RespondedAt = &at
	}
	return out
}
