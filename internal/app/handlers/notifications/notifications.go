// Package notifications serves the per-user inbox projected from domain
// events.
package notifications

import (
	"context"
	"errors"
	"time"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/dto"
	"erents/internal/app/handlers/support"
	"erents/internal/app/queries"
	"erents/internal/app/uow"
	domainnotification "erents/internal/domain/notification"
	domainuser "erents/internal/domain/user"
)

const (
	listNotificationsKey = "notifications.list"
	markReadKey          = "notifications.mark_read"
)

var ErrUnitOfWorkRequired = errors.New("notifications: unit of work required")

type ListNotificationsQuery struct {
	UserID     string
	UnreadOnly bool
}

func (q ListNotificationsQuery) Key() string { return listNotificationsKey }

type ListNotificationsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListNotificationsHandler) Handle(ctx context.Context, q ListNotificationsQuery) (dto.NotificationCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.NotificationCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Notifications().ListByUser(execCtx, domainuser.ID(q.UserID), q.UnreadOnly)
	if err != nil {
		return dto.NotificationCollection{}, apperr.Unexpected("listing notifications", err)
	}
	out := make([]dto.NotificationView, 0, len(items))
	for _, n := range items {
		out = append(out, dto.MapNotificationView(n))
	}
	return dto.NotificationCollection{Items: out}, nil
}

type MarkReadCommand struct {
	NotificationID string
	UserID         string
	Now            time.Time
}

func (c MarkReadCommand) Key() string { return markReadKey }

type MarkReadResult struct {
	NotificationID string `json:"notification_id"`
}

type MarkReadHandler struct {
	UoWFactory uow.Factory
}

func (h *MarkReadHandler) Handle(ctx context.Context, cmd MarkReadCommand) (*MarkReadResult, error) {
	unit, ctx, managed, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, ErrUnitOfWorkRequired
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	err = unit.Notifications().MarkRead(ctx, domainnotification.NotificationID(cmd.NotificationID), domainuser.ID(cmd.UserID))
	if err != nil {
		if errors.Is(err, domainnotification.ErrNotFound) {
			return nil, apperr.NotFound("notification not found", err)
		}
		return nil, apperr.Unexpected("marking notification read", err)
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing mark-read", err)
		}
		committed = true
	}
	return &MarkReadResult{NotificationID: cmd.NotificationID}, nil
}

var _ queries.Handler[ListNotificationsQuery, dto.NotificationCollection] = (*ListNotificationsHandler)(nil)
var _ commands.Handler[MarkReadCommand, *MarkReadResult] = (*MarkReadHandler)(nil)
