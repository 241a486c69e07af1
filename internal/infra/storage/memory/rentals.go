package memory

import (
	"context"
	"sort"
	"sync"

	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
	"erents/internal/domain/shared/daterange"
	domainuser "erents/internal/domain/user"
)

// RentalRepository stores lease requests in memory.
type RentalRepository struct {
	mu    sync.RWMutex
	items map[domainrental.RequestID]*domainrental.Request
}

func NewRentalRepository() *RentalRepository {
	return &RentalRepository{items: make(map[domainrental.RequestID]*domainrental.Request)}
}

func (r *RentalRepository) ByID(ctx context.Context, id domainrental.RequestID) (*domainrental.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.items[id]
	if !ok {
		return nil, domainrental.ErrNotFound
	}
	return req, nil
}

func (r *RentalRepository) Save(ctx context.Context, req *domainrental.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.Version++
	r.items[req.ID] = req
	return nil
}

func (r *RentalRepository) Delete(ctx context.Context, id domainrental.RequestID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainrental.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *RentalRepository) ListByTenant(ctx context.Context, tenantID domainuser.ID) ([]*domainrental.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainrental.Request, 0)
	for _, req := range r.items {
		if req.TenantID == tenantID {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

func (r *RentalRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainrental.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainrental.Request, 0)
	for _, req := range r.items {
		if req.PropertyID == propertyID {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

func (r *RentalRepository) ApprovedOverlapping(ctx context.Context, propertyID domainproperty.ID, dr daterange.DateRange, exclude domainrental.RequestID) ([]*domainrental.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainrental.Request, 0)
	for _, req := range r.items {
		if req.PropertyID != propertyID || req.Status != domainrental.StatusApproved {
			continue
		}
		if exclude != "" && req.ID == exclude {
			continue
		}
		if req.Range.Overlaps(dr) {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

func sortRequests(reqs []*domainrental.Request) {
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].RequestedAt.Equal(reqs[j].RequestedAt) {
			return reqs[i].ID < reqs[j].ID
		}
		return reqs[i].RequestedAt.After(reqs[j].RequestedAt)
	})
}

var _ domainrental.Repository = (*RentalRepository)(nil)
