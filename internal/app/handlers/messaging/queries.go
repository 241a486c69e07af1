package messaging

import (
	"context"
	"errors"

	"erents/internal/app/apperr"
	"erents/internal/app/dto"
	handlersupport "erents/internal/app/handlers/support"
	"erents/internal/app/queries"
	"erents/internal/app/uow"
	domainmessaging "erents/internal/domain/messaging"
	domainuser "erents/internal/domain/user"
)

const (
	listConversationsKey = "messaging.list"
	listMessagesKey      = "messaging.messages"
)

type ListConversationsQuery struct {
	UserID string
}

func (q ListConversationsQuery) Key() string { return listConversationsKey }

type ListConversationsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListConversationsHandler) Handle(ctx context.Context, q ListConversationsQuery) (dto.ConversationCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ConversationCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Conversations().ListByUser(execCtx, domainuser.ID(q.UserID))
	if err != nil {
		return dto.ConversationCollection{}, apperr.Unexpected("listing conversations", err)
	}
	out := make([]dto.ConversationSummary, 0, len(items))
	for _, conv := range items {
		out = append(out, dto.MapConversationSummary(conv))
	}
	return dto.ConversationCollection{Items: out}, nil
}

type ListMessagesQuery struct {
	ConversationID string
	ActorID        string
	Limit          int
	Offset         int
}

func (q ListMessagesQuery) Key() string { return listMessagesKey }

type ListMessagesHandler struct {
	UoWFactory uow.Factory
}

func (h *ListMessagesHandler) Handle(ctx context.Context, q ListMessagesQuery) (dto.MessageCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.MessageCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	conv, err := unit.Conversations().ByID(execCtx, domainmessaging.ConversationID(q.ConversationID))
	if err != nil {
		if errors.Is(err, domainmessaging.ErrNotFound) {
			return dto.MessageCollection{}, apperr.NotFound("conversation not found", err)
		}
		return dto.MessageCollection{}, apperr.Unexpected("loading conversation", err)
	}
	if !conv.HasParticipant(domainuser.ID(q.ActorID)) {
		return dto.MessageCollection{}, apperr.Unauthorized("conversation is not visible to this user", nil)
	}

	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	items, err := unit.Conversations().Messages(execCtx, conv.ID, limit, offset)
	if err != nil {
		return dto.MessageCollection{}, apperr.Unexpected("listing messages", err)
	}
	out := make([]dto.MessageView, 0, len(items))
	for _, msg := range items {
		out = append(out, dto.MapMessageView(msg))
	}
	return dto.MessageCollection{Items: out}, nil
}

var _ queries.Handler[ListConversationsQuery, dto.ConversationCollection] = (*ListConversationsHandler)(nil)
var _ queries.Handler[ListMessagesQuery, dto.MessageCollection] = (*ListMessagesHandler)(nil)
