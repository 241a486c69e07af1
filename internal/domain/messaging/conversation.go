package messaging

import (
	"context"
	"errors"
	"strings"
	"time"

	"erents/internal/domain/property"
	"erents/internal/domain/user"
)

var (
	ErrNotFound       = errors.New("messaging: conversation not found")
	ErrNotParticipant = errors.New("messaging: user is not a participant")
	ErrEmptyMessage   = errors.New("messaging: message text is required")
)

type ConversationID string
type MessageID string

// Conversation is a property-scoped thread between a prospective tenant and
// the landlord.
type Conversation struct {
	ID            ConversationID
	PropertyID    property.ID
	TenantID      user.ID
	LandlordID    user.ID
	CreatedAt     time.Time
	LastMessageAt time.Time
}

type Message struct {
	ID             MessageID
	ConversationID ConversationID
	SenderID       user.ID
	Text           string
	CreatedAt      time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ConversationID) (*Conversation, error)
	ForProperty(ctx context.Context, propertyID property.ID, tenantID user.ID) (*Conversation, error)
	ListByUser(ctx context.Context, userID user.ID) ([]*Conversation, error)
	Save(ctx context.Context, c *Conversation) error
	AppendMessage(ctx context.Context, m *Message) error
	Messages(ctx context.Context, id ConversationID, limit, offset int) ([]*Message, error)
}

func NewConversation(id ConversationID, propertyID property.ID, tenantID, landlordID user.ID, now time.Time) *Conversation {
	now = now.UTC()
	return &Conversation{
		ID:            id,
		PropertyID:    propertyID,
		TenantID:      tenantID,
		LandlordID:    landlordID,
		CreatedAt:     now,
		LastMessageAt: now,
	}
}

func (c *Conversation) HasParticipant(id user.ID) bool {
	return c.TenantID == id || c.LandlordID == id
}

// Post validates and stamps a new message from the given sender.
func (c *Conversation) Post(id MessageID, sender user.ID, text string, now time.Time) (*Message, error) {
	if !c.HasParticipant(sender) {
		return nil, ErrNotParticipant
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	now = now.UTC()
	c.LastMessageAt = now
	return &Message{
		ID:             id,
		ConversationID: c.ID,
		SenderID:       sender,
		Text:           text,
		CreatedAt:      now,
	}, nil
}
