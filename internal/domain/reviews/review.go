package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"erents/internal/domain/booking"
	"erents/internal/domain/property"
	"erents/internal/domain/shared/events"
	"erents/internal/domain/user"
)

var (
	ErrInvalidRating = errors.New("reviews: rating must be between 1 and 5")
	ErrNotFound      = errors.New("reviews: not found")
)

type ReviewID string

// Review is a tenant's rating of a property after a completed stay.
type Review struct {
	ID         ReviewID
	BookingID  booking.BookingID
	AuthorID   user.ID
	PropertyID property.ID
	Rating     int
	Text       string
	CreatedAt  time.Time
	events.EventRecorder
}

type Repository interface {
	ByBooking(ctx context.Context, bookingID booking.BookingID, authorID user.ID) (*Review, error)
	ListByProperty(ctx context.Context, propertyID property.ID, limit, offset int) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID         ReviewID
	BookingID  booking.BookingID
	AuthorID   user.ID
	PropertyID property.ID
	Rating     int
	Text       string
	Now        time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	review := &Review{
		ID:         params.ID,
		BookingID:  params.BookingID,
		AuthorID:   params.AuthorID,
		PropertyID: params.PropertyID,
		Rating:     params.Rating,
		Text:       strings.TrimSpace(params.Text),
		CreatedAt:  params.Now.UTC(),
	}
	review.Record(ReviewSubmitted{ReviewID: review.ID, PropertyID: review.PropertyID, Rating: review.Rating, At: review.CreatedAt})
	return review, nil
}

func (r *Review) UpdateText(text string, rating int, now time.Time) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	r.Text = strings.TrimSpace(text)
	r.Rating = rating
	r.Record(ReviewUpdated{ReviewID: r.ID, At: now.UTC()})
	return nil
}

type ReviewSubmitted struct {
	ReviewID   ReviewID
	PropertyID property.ID
	Rating     int
	At         time.Time
}

func (e ReviewSubmitted) EventName() string     { return "review.submitted" }
func (e ReviewSubmitted) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewSubmitted) OccurredAt() time.Time { return e.At }

type ReviewUpdated struct {
	ReviewID ReviewID
	At       time.Time
}

func (e ReviewUpdated) EventName() string     { return "review.updated" }
func (e ReviewUpdated) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewUpdated) OccurredAt() time.Time { return e.At }
