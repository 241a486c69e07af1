package dto

import (
	"time"

	domainmaintenance "erents/internal/domain/maintenance"
)

type TicketSummary struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	ReporterID  string    `json:"reporter_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Resolution  string    `json:"resolution,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TicketCollection struct {
	Items []TicketSummary `json:"items"`
}

func MapTicketSummary(t *domainmaintenance.Ticket) TicketSummary {
	return TicketSummary{
		ID:          string(t.ID),
		PropertyID:  string(t.PropertyID),
		ReporterID:  string(t.ReporterID),
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Resolution:  t.Resolution,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
