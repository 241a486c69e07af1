// Package reviews implements the post-stay review flow.
package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainbooking "erents/internal/domain/booking"
	domainreviews "erents/internal/domain/reviews"
	domainuser "erents/internal/domain/user"
)

const submitReviewKey = "reviews.submit"

var (
	ErrUnitOfWorkRequired = errors.New("reviews: unit of work required")
	ErrAlreadyReviewed    = errors.New("reviews: booking already reviewed by this user")
	ErrStayNotFinished    = errors.New("reviews: stay has not finished")
)

type SubmitReviewCommand struct {
	BookingID string
	AuthorID  string
	Rating    int
	Text      string
	Now       time.Time
}

func (c SubmitReviewCommand) Key() string { return submitReviewKey }

type SubmitReviewResult struct {
	ReviewID string `json:"review_id"`
}

// SubmitReviewHandler accepts one review per booking and author, only after
// the stay completed.
type SubmitReviewHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*SubmitReviewResult, error) {
	unit, ctx, managed, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	stay, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		if errors.Is(err, domainbooking.ErrNotFound) {
			return nil, apperr.NotFound("booking not found", err)
		}
		return nil, apperr.Unexpected("loading booking", err)
	}
	author := domainuser.ID(cmd.AuthorID)
	if stay.TenantID != author {
		return nil, apperr.Unauthorized("only the booking tenant may review", nil)
	}
	if stay.Status != domainbooking.StatusCompleted {
		return nil, apperr.InvalidState("stay has not finished", ErrStayNotFinished)
	}

	if _, err := unit.Reviews().ByBooking(ctx, stay.ID, author); err == nil {
		return nil, apperr.InvalidState("booking already reviewed", ErrAlreadyReviewed)
	} else if !errors.Is(err, domainreviews.ErrNotFound) {
		return nil, apperr.Unexpected("checking existing review", err)
	}

	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:         domainreviews.ReviewID(uuid.NewString()),
		BookingID:  stay.ID,
		AuthorID:   author,
		PropertyID: stay.PropertyID,
		Rating:     cmd.Rating,
		Text:       cmd.Text,
		Now:        now,
	})
	if err != nil {
		return nil, apperr.Validation("building review", err)
	}

	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, apperr.Unexpected("saving review", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, review); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing review", err)
		}
		committed = true
	}
	return &SubmitReviewResult{ReviewID: string(review.ID)}, nil
}

var _ commands.Handler[SubmitReviewCommand, *SubmitReviewResult] = (*SubmitReviewHandler)(nil)
