package reviews

import (
	"context"

	"erents/internal/app/apperr"
	"erents/internal/app/dto"
	handlersupport "erents/internal/app/handlers/support"
	"erents/internal/app/queries"
	"erents/internal/app/uow"
	domainproperty "erents/internal/domain/property"
)

const listPropertyReviewsKey = "reviews.list.property"

type ListPropertyReviewsQuery struct {
	PropertyID string
	Limit      int
	Offset     int
}

func (q ListPropertyReviewsQuery) Key() string { return listPropertyReviewsKey }

type ListPropertyReviewsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListPropertyReviewsHandler) Handle(ctx context.Context, q ListPropertyReviewsQuery) (dto.ReviewCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	items, err := unit.Reviews().ListByProperty(execCtx, domainproperty.ID(q.PropertyID), limit, offset)
	if err != nil {
		return dto.ReviewCollection{}, apperr.Unexpected("listing reviews", err)
	}
	out := make([]dto.ReviewSummary, 0, len(items))
	for _, review := range items {
		out = append(out, dto.MapReviewSummary(review))
	}
	return dto.ReviewCollection{Items: out}, nil
}

var _ queries.Handler[ListPropertyReviewsQuery, dto.ReviewCollection] = (*ListPropertyReviewsHandler)(nil)
