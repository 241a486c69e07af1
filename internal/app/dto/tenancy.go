package dto

import (
	"time"

	domaintenancy "erents/internal/domain/tenancy"
)

type TenancySummary struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	TenantID   string     `json:"tenant_id"`
	LeaseStart time.Time  `json:"lease_start"`
	LeaseEnd   time.Time  `json:"lease_end"`
	Status     string     `json:"status"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

type TenancyCollection struct {
	Items []TenancySummary `json:"items"`
}

func MapTenancySummary(t *domaintenancy.Tenancy) TenancySummary {
	out := TenancySummary{
		ID:         string(t.ID),
		PropertyID: string(t.PropertyID),
		TenantID:   string(t.TenantID),
		LeaseStart: t.Lease.Start,
		LeaseEnd:   t.Lease.End,
		Status:     string(t.Status),
	}
	if !t.EndedAt.IsZero() {
		at := t.EndedAt
		out.EndedAt = &at
	}
	return out
}
