package memory

import (
	"context"
	"sort"
	"sync"

	domainnotification "erents/internal/domain/notification"
	domainuser "erents/internal/domain/user"
)

// NotificationRepository stores in-app notifications in memory.
type NotificationRepository struct {
	mu    sync.RWMutex
	items map[domainnotification.NotificationID]*domainnotification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[domainnotification.NotificationID]*domainnotification.Notification)}
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID domainuser.ID, unreadOnly bool) ([]*domainnotification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainnotification.Notification, 0)
	for _, note := range r.items {
		if note.UserID != userID {
			continue
		}
		if unreadOnly && note.Read {
			continue
		}
		out = append(out, note)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NotificationRepository) Save(ctx context.Context, note *domainnotification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[note.ID] = note
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id domainnotification.NotificationID, userID domainuser.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.items[id]
	if !ok || note.UserID != userID {
		return domainnotification.ErrNotFound
	}
	note.Read = true
	return nil
}

var _ domainnotification.Repository = (*NotificationRepository)(nil)
