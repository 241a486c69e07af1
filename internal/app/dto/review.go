package dto

import (
	"time"

	domainreviews "erents/internal/domain/reviews"
)

type ReviewSummary struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	AuthorID   string    `json:"author_id"`
	PropertyID string    `json:"property_id"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewCollection struct {
	Items []ReviewSummary `json:"items"`
}

func MapReviewSummary(r *domainreviews.Review) ReviewSummary {
	return ReviewSummary{
		ID:         string(r.ID),
		BookingID:  string(r.BookingID),
		AuthorID:   string(r.AuthorID),
		PropertyID: string(r.PropertyID),
		Rating:     r.Rating,
		Text:       r.Text,
		CreatedAt:  r.CreatedAt,
	}
}
