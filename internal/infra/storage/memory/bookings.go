package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainbooking "erents/internal/domain/booking"
	domainproperty "erents/internal/domain/property"
	"erents/internal/domain/shared/daterange"
	domainuser "erents/internal/domain/user"
)

// BookingRepository stores confirmed stays in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stay, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return stay, nil
}

func (r *BookingRepository) ByRequest(ctx context.Context, requestID string) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if requestID == "" {
		return nil, domainbooking.ErrNotFound
	}
	for _, stay := range r.items {
		if stay.RequestID == requestID {
			return stay, nil
		}
	}
	return nil, domainbooking.ErrNotFound
}

func (r *BookingRepository) Save(ctx context.Context, stay *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stay.Version++
	r.items[stay.ID] = stay
	return nil
}

func (r *BookingRepository) ListByTenant(ctx context.Context, tenantID domainuser.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, stay := range r.items {
		if stay.TenantID == tenantID {
			out = append(out, stay)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, stay := range r.items {
		if stay.PropertyID == propertyID {
			out = append(out, stay)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) ClaimedOverlapping(ctx context.Context, propertyID domainproperty.ID, dr daterange.DateRange) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, stay := range r.items {
		if stay.PropertyID != propertyID {
			continue
		}
		if stay.Status != domainbooking.StatusUpcoming && stay.Status != domainbooking.StatusActive {
			continue
		}
		if stay.Range.Overlaps(dr) {
			out = append(out, stay)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) DueForAdvance(ctx context.Context, now time.Time) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now = now.UTC()
	out := make([]*domainbooking.Booking, 0)
	for _, stay := range r.items {
		switch stay.Status {
		case domainbooking.StatusUpcoming:
			if !stay.Range.Start.After(now) {
				out = append(out, stay)
			}
		case domainbooking.StatusActive:
			if !stay.Range.End.After(now) {
				out = append(out, stay)
			}
		}
	}
	sortBookings(out)
	return out, nil
}

func sortBookings(stays []*domainbooking.Booking) {
	sort.Slice(stays, func(i, j int) bool {
		if stays[i].CreatedAt.Equal(stays[j].CreatedAt) {
			return stays[i].ID < stays[j].ID
		}
		return stays[i].CreatedAt.After(stays[j].CreatedAt)
	})
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
