// Package messaging implements property-scoped conversations between
// prospective tenants and landlords.
package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/handlers/support"
	"erents/internal/app/uow"
	domainmessaging "erents/internal/domain/messaging"
	domainproperty "erents/internal/domain/property"
	domainuser "erents/internal/domain/user"
)

const (
	startConversationKey = "messaging.start"
	sendMessageKey       = "messaging.send"
)

var ErrUnitOfWorkRequired = errors.New("messaging: unit of work required")

type StartConversationCommand struct {
	PropertyID string
	TenantID   string
	Text       string
	Now        time.Time
}

func (c StartConversationCommand) Key() string { return startConversationKey }

type StartConversationResult struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id,omitempty"`
}

// StartConversationHandler opens (or reuses) the thread between a tenant and
// the property's owner, optionally posting a first message.
type StartConversationHandler struct {
	UoWFactory uow.Factory
}

func (h *StartConversationHandler) Handle(ctx context.Context, cmd StartConversationCommand) (*StartConversationResult, error) {
	unit, ctx, managed, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}

	prop, err := unit.Properties().ByID(ctx, domainproperty.ID(cmd.PropertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return nil, apperr.NotFound("property not found", err)
		}
		return nil, apperr.Unexpected("loading property", err)
	}
	tenant := domainuser.ID(cmd.TenantID)
	if prop.OwnerID == tenant {
		return nil, apperr.Validation("owners cannot message themselves", nil)
	}

	conv, err := unit.Conversations().ForProperty(ctx, prop.ID, tenant)
	switch {
	case errors.Is(err, domainmessaging.ErrNotFound):
		conv = domainmessaging.NewConversation(
			domainmessaging.ConversationID(uuid.NewString()),
			prop.ID, tenant, prop.OwnerID, now,
		)
	case err != nil:
		return nil, apperr.Unexpected("loading conversation", err)
	}

	result := &StartConversationResult{ConversationID: string(conv.ID)}
	if cmd.Text != "" {
		msg, err := conv.Post(domainmessaging.MessageID(uuid.NewString()), tenant, cmd.Text, now)
		if err != nil {
			return nil, apperr.Validation("posting message", err)
		}
		if err := unit.Conversations().AppendMessage(ctx, msg); err != nil {
			return nil, apperr.Unexpected("saving message", err)
		}
		result.MessageID = string(msg.ID)
	}
	if err := unit.Conversations().Save(ctx, conv); err != nil {
		return nil, apperr.Unexpected("saving conversation", err)
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing conversation", err)
		}
		committed = true
	}
	return result, nil
}

type SendMessageCommand struct {
	ConversationID string
	SenderID       string
	Text           string
	Now            time.Time
}

func (c SendMessageCommand) Key() string { return sendMessageKey }

type SendMessageResult struct {
	MessageID string `json:"message_id"`
}

type SendMessageHandler struct {
	UoWFactory uow.Factory
}

func (h *SendMessageHandler) Handle(ctx context.Context, cmd SendMessageCommand) (*SendMessageResult, error) {
	unit, ctx, managed, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}

	conv, err := unit.Conversations().ByID(ctx, domainmessaging.ConversationID(cmd.ConversationID))
	if err != nil {
		if errors.Is(err, domainmessaging.ErrNotFound) {
			return nil, apperr.NotFound("conversation not found", err)
		}
		return nil, apperr.Unexpected("loading conversation", err)
	}

	msg, err := conv.Post(domainmessaging.MessageID(uuid.NewString()), domainuser.ID(cmd.SenderID), cmd.Text, now)
	if err != nil {
		if errors.Is(err, domainmessaging.ErrNotParticipant) {
			return nil, apperr.Unauthorized("sender is not a participant", err)
		}
		return nil, apperr.Validation("posting message", err)
	}
	if err := unit.Conversations().AppendMessage(ctx, msg); err != nil {
		return nil, apperr.Unexpected("saving message", err)
	}
	if err := unit.Conversations().Save(ctx, conv); err != nil {
		return nil, apperr.Unexpected("saving conversation", err)
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing message", err)
		}
		committed = true
	}
	return &SendMessageResult{MessageID: string(msg.ID)}, nil
}

func beginUnit(ctx context.Context, factory uow.Factory) (uow.UnitOfWork, context.Context, bool, error) {
	unit, execCtx, managed, err := support.BeginUnit(ctx, factory)
	if err != nil {
		return nil, ctx, false, ErrUnitOfWorkRequired
	}
	return unit, execCtx, managed, nil
}

var _ commands.Handler[StartConversationCommand, *StartConversationResult] = (*StartConversationHandler)(nil)
var _ commands.Handler[SendMessageCommand, *SendMessageResult] = (*SendMessageHandler)(nil)
