package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "erents/internal/domain/booking"
	domainproperty "erents/internal/domain/property"
	domainreviews "erents/internal/domain/reviews"
	domainuser "erents/internal/domain/user"
)

// ReviewRepository stores reviews keyed by booking and author so duplicate
// submissions are detected in O(1).
type ReviewRepository struct {
	mu        sync.RWMutex
	byBooking map[string]*domainreviews.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{byBooking: make(map[string]*domainreviews.Review)}
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID, authorID domainuser.ID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if review, ok := r.byBooking[reviewKey(bookingID, authorID)]; ok {
		return review, nil
	}
	return nil, domainreviews.ErrNotFound
}

func (r *ReviewRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID, limit, offset int) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainreviews.Review, 0)
	for _, review := range r.byBooking {
		if review.PropertyID == propertyID {
			matches = append(matches, review)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	total := len(matches)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matches[offset:end], nil
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byBooking[reviewKey(review.BookingID, review.AuthorID)] = review
	return nil
}

func reviewKey(bookingID domainbooking.BookingID, authorID domainuser.ID) string {
	return string(bookingID) + ":" + string(authorID)
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
