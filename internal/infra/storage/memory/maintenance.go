package memory

import (
	"context"
	"sort"
	"sync"

	domainmaintenance "erents/internal/domain/maintenance"
	domainproperty "erents/internal/domain/property"
	domainuser "erents/internal/domain/user"
)

// MaintenanceRepository stores tickets in memory.
type MaintenanceRepository struct {
	mu    sync.RWMutex
	items map[domainmaintenance.TicketID]*domainmaintenance.Ticket
}

func NewMaintenanceRepository() *MaintenanceRepository {
	return &MaintenanceRepository{items: make(map[domainmaintenance.TicketID]*domainmaintenance.Ticket)}
}

func (r *MaintenanceRepository) ByID(ctx context.Context, id domainmaintenance.TicketID) (*domainmaintenance.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.items[id]
	if !ok {
		return nil, domainmaintenance.ErrNotFound
	}
	return ticket, nil
}

func (r *MaintenanceRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainmaintenance.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainmaintenance.Ticket, 0)
	for _, ticket := range r.items {
		if ticket.PropertyID == propertyID {
			out = append(out, ticket)
		}
	}
	sortTickets(out)
	return out, nil
}

func (r *MaintenanceRepository) ListByReporter(ctx context.Context, reporterID domainuser.ID) ([]*domainmaintenance.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainmaintenance.Ticket, 0)
	for _, ticket := range r.items {
		if ticket.ReporterID == reporterID {
			out = append(out, ticket)
		}
	}
	sortTickets(out)
	return out, nil
}

func (r *MaintenanceRepository) Save(ctx context.Context, ticket *domainmaintenance.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[ticket.ID] = ticket
	return nil
}

func sortTickets(tickets []*domainmaintenance.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		if tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].ID < tickets[j].ID
		}
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}

var _ domainmaintenance.Repository = (*MaintenanceRepository)(nil)
