package reviews

import (
	"context"
	"errors"
	"time"

	"erents/internal/app/apperr"
	"erents/internal/app/commands"
	"erents/internal/app/outbox"
	"erents/internal/app/uow"
	domainbooking "erents/internal/domain/booking"
	domainreviews "erents/internal/domain/reviews"
	domainuser "erents/internal/domain/user"
)

const updateReviewKey = "reviews.update"

type UpdateReviewCommand struct {
	BookingID string
	AuthorID  string
	Rating    int
	Text      string
	Now       time.Time
}

func (c UpdateReviewCommand) Key() string { return updateReviewKey }

type UpdateReviewResult struct {
	ReviewID string `json:"review_id"`
}

type UpdateReviewHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *UpdateReviewHandler) Handle(ctx context.Context, cmd UpdateReviewCommand) (*UpdateReviewResult, error) {
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

	review, err := unit.Reviews().ByBooking(ctx, domainbooking.BookingID(cmd.BookingID), domainuser.ID(cmd.AuthorID))
	if err != nil {
		if errors.Is(err, domainreviews.ErrNotFound) {
			return nil, apperr.NotFound("review not found", err)
		}
		return nil, apperr.Unexpected("loading review", err)
	}
	if err := review.UpdateText(cmd.Text, cmd.Rating, now); err != nil {
		return nil, apperr.Validation("updating review", err)
	}
	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, apperr.Unexpected("saving review", err)
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, review); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, apperr.Unexpected("committing review update", err)
		}
		committed = true
	}
	return &UpdateReviewResult{ReviewID: string(review.ID)}, nil
}

var _ commands.Handler[UpdateReviewCommand, *UpdateReviewResult] = (*UpdateReviewHandler)(nil)
