package dto

import (
	"time"

	domainmessaging "erents/internal/domain/messaging"
)

type ConversationSummary struct {
	ID            string    `json:"id"`
	PropertyID    string    `json:"property_id"`
	TenantID      string    `json:"tenant_id"`
	LandlordID    string    `json:"landlord_id"`
	LastMessageAt time.Time `json:"last_message_at"`
}

type ConversationCollection struct {
	Items []ConversationSummary `json:"items"`
}

type MessageView struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

type MessageCollection struct {
	Items []MessageView `json:"items"`
}

func MapConversationSummary(c *domainmessaging.Conversation) ConversationSummary {
	return ConversationSummary{
		ID:            string(c.ID),
		PropertyID:    string(c.PropertyID),
		TenantID:      string(c.TenantID),
		LandlordID:    string(c.LandlordID),
		LastMessageAt: c.LastMessageAt,
	}
}

func MapMessageView(m *domainmessaging.Message) MessageView {
	return MessageView{
		ID:             string(m.ID),
		ConversationID: string(m.ConversationID),
		SenderID:       string(m.SenderID),
		Text:           m.Text,
		CreatedAt:      m.CreatedAt,
	}
}
