package memory

import (
	"context"
	"sort"
	"sync"

	domainmessaging "erents/internal/domain/messaging"
	domainproperty "erents/internal/domain/property"
	domainuser "erents/internal/domain/user"
)

// ConversationRepository stores conversations and their messages in memory.
type ConversationRepository struct {
	mu       sync.RWMutex
	threads  map[domainmessaging.ConversationID]*domainmessaging.Conversation
	messages map[domainmessaging.ConversationID][]*domainmessaging.Message
}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		threads:  make(map[domainmessaging.ConversationID]*domainmessaging.Conversation),
		messages: make(map[domainmessaging.ConversationID][]*domainmessaging.Message),
	}
}

func (r *ConversationRepository) ByID(ctx context.Context, id domainmessaging.ConversationID) (*domainmessaging.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	thread, ok := r.threads[id]
	if !ok {
		return nil, domainmessaging.ErrNotFound
	}
	return thread, nil
}

func (r *ConversationRepository) ForProperty(ctx context.Context, propertyID domainproperty.ID, tenantID domainuser.ID) (*domainmessaging.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, thread := range r.threads {
		if thread.PropertyID == propertyID && thread.TenantID == tenantID {
			return thread, nil
		}
	}
	return nil, domainmessaging.ErrNotFound
}

func (r *ConversationRepository) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainmessaging.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainmessaging.Conversation, 0)
	for _, thread := range r.threads {
		if thread.HasParticipant(userID) {
			out = append(out, thread)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastMessageAt.Equal(out[j].LastMessageAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out, nil
}

func (r *ConversationRepository) Save(ctx context.Context, thread *domainmessaging.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threads[thread.ID] = thread
	return nil
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, msg *domainmessaging.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.threads[msg.ConversationID]; !ok {
		return domainmessaging.ErrNotFound
	}
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], msg)
	return nil
}

// Messages returns the newest page first.
func (r *ConversationRepository) Messages(ctx context.Context, id domainmessaging.ConversationID, limit, offset int) ([]*domainmessaging.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.threads[id]; !ok {
		return nil, domainmessaging.ErrNotFound
	}
	all := r.messages[id]
	ordered := make([]*domainmessaging.Message, len(all))
	copy(ordered, all)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID > ordered[j].ID
		}
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})
	total := len(ordered)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return ordered[offset:end], nil
}

var _ domainmessaging.Repository = (*ConversationRepository)(nil)
