// Package availability answers whether a property is free for a date range.
// It is the single gate consulted at request creation, request approval and
// booking creation, so the non-overlap invariant has one owner.
package availability

import (
	"context"
	"log/slog"

	"erents/internal/app/uow"
	"erents/internal/domain/property"
	"erents/internal/domain/rental"
	"erents/internal/domain/shared/daterange"
)

type Checker struct {
	Logger *slog.Logger
}

// Check reports whether the property is free over dr under half-open
// semantics. An approved rental request (other than exclude) or a booking
// still claiming its dates makes the range unavailable. Adjacent ranges do
// not conflict.
//
// The check fails closed: a repository error is logged and reported as
// unavailable rather than letting a double-let through.
func (c *Checker) Check(ctx context.Context, unit uow.UnitOfWork, propertyID property.ID, dr daterange.DateRange, exclude rental.RequestID) (bool, error) {
	requests, err := unit.Rentals().ApprovedOverlapping(ctx, propertyID, dr, exclude)
	if err != nil {
		c.log(ctx, "availability check failed on rental requests", propertyID, err)
		return false, err
	}
	if len(requests) > 0 {
		return false, nil
	}

	bookings, err := unit.Bookings().ClaimedOverlapping(ctx, propertyID, dr)
	if err != nil {
		c.log(ctx, "availability check failed on bookings", propertyID, err)
		return false, err
	}
	if len(bookings) > 0 {
		return false, nil
	}
	return true, nil
}

func (c *Checker) log(ctx context.Context, msg string, propertyID property.ID, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.ErrorContext(ctx, msg, "property_id", propertyID, "error", err)
}
