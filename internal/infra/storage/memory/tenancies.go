package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainproperty "erents/internal/domain/property"
	domaintenancy "erents/internal/domain/tenancy"
	domainuser "erents/internal/domain/user"
)

// TenancyRepository stores lease records in memory.
type TenancyRepository struct {
	mu    sync.RWMutex
	items map[domaintenancy.TenancyID]*domaintenancy.Tenancy
}

func NewTenancyRepository() *TenancyRepository {
	return &TenancyRepository{items: make(map[domaintenancy.TenancyID]*domaintenancy.Tenancy)}
}

func (r *TenancyRepository) ByID(ctx context.Context, id domaintenancy.TenancyID) (*domaintenancy.Tenancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lease, ok := r.items[id]
	if !ok {
		return nil, domaintenancy.ErrNotFound
	}
	return lease, nil
}

func (r *TenancyRepository) ActiveByProperty(ctx context.Context, propertyID domainproperty.ID) (*domaintenancy.Tenancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, lease := range r.items {
		if lease.PropertyID == propertyID && lease.Status == domaintenancy.StatusActive {
			return lease, nil
		}
	}
	return nil, domaintenancy.ErrNotFound
}

func (r *TenancyRepository) ActiveEndingBefore(ctx context.Context, now time.Time) ([]*domaintenancy.Tenancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now = now.UTC()
	out := make([]*domaintenancy.Tenancy, 0)
	for _, lease := range r.items {
		if lease.Status == domaintenancy.StatusActive && !lease.Lease.End.After(now) {
			out = append(out, lease)
		}
	}
	sortTenancies(out)
	return out, nil
}

func (r *TenancyRepository) ListByTenant(ctx context.Context, tenantID domainuser.ID) ([]*domaintenancy.Tenancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaintenancy.Tenancy, 0)
	for _, lease := range r.items {
		if lease.TenantID == tenantID {
			out = append(out, lease)
		}
	}
	sortTenancies(out)
	return out, nil
}

func (r *TenancyRepository) Save(ctx context.Context, lease *domaintenancy.Tenancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[lease.ID] = lease
	return nil
}

func sortTenancies(leases []*domaintenancy.Tenancy) {
	sort.Slice(leases, func(i, j int) bool {
		if leases[i].CreatedAt.Equal(leases[j].CreatedAt) {
			return leases[i].ID < leases[j].ID
		}
		return leases[i].CreatedAt.After(leases[j].CreatedAt)
	})
}

var _ domaintenancy.Repository = (*TenancyRepository)(nil)
