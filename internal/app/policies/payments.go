// Package policies holds the outbound ports the application depends on.
package policies

import (
	"context"

	"erents/internal/domain/shared/money"
)

// PaymentsPort fronts the payment provider. Booking creation places a hold,
// activation captures it, cancellation refunds the calculated amount.
type PaymentsPort interface {
	PlaceHold(ctx context.Context, bookingID string, amount money.Money) (string, error)
	Capture(ctx context.Context, holdID string) error
	Refund(ctx context.Context, bookingID string, amount money.Money) error
}
