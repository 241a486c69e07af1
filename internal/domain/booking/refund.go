package booking

import (
	"time"

	"erents/internal/domain/shared/money"
)

const (
	fullRefundDays = 7
	halfRefundPct  = 50
)

// Refund applies the tiered cancellation policy: a full refund at seven or
// more whole days before the stay starts, half between one and six days,
// nothing on the start day or later.
func Refund(total money.Money, start, cancelAt time.Time) money.Money {
	days := daysUntil(start, cancelAt)
	switch {
	case days >= fullRefundDays:
		return total
	case days >= 1:
		return total.Percent(halfRefundPct)
	default:
		return money.Money{Amount: 0, Currency: total.Currency}
	}
}

func daysUntil(start, from time.Time) int {
	diff := start.UTC().Sub(from.UTC())
	if diff <= 0 {
		return 0
	}
	return int(diff.Hours() / 24)
}
