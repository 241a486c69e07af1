package dto

import (
	"time"

	domainnotification "erents/internal/domain/notification"
)

type NotificationView struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body,omitempty"`
	AggregateID string    `json:"aggregate_id,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationCollection struct {
	Items []NotificationView `json:"items"`
}

func MapNotificationView(n *domainnotification.Notification) NotificationView {
	return NotificationView{
		ID:          string(n.ID),
		Kind:        string(n.Kind),
		Subject:     n.Subject,
		Body:        n.Body,
		AggregateID: n.AggregateID,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}
