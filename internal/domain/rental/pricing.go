package rental

import (
	"errors"

	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/money"
)

var ErrLeaseTooShort = errors.New("rental: lease must cover at least one month")

// extraGuestPercent is the per-month surcharge, as a share of the monthly
// rent, charged for each guest beyond the second.
const extraGuestPercent = 10

// Quote is the derived price of a lease proposal.
type Quote struct {
	Months    int
	Monthly   money.Money
	Surcharge money.Money
	Total     money.Money
}

// Price derives the lease total from the property's monthly rate. The lease
// length is billed in started 30-day months; parties of more than two guests
// pay a 10%-of-rent surcharge per extra guest per month.
func Price(monthly money.Money, dr daterange.DateRange, guests int) (Quote, error) {
	months := dr.Months()
	if months <= 0 {
		return Quote{}, ErrLeaseTooShort
	}
	base := monthly.Multiply(int64(months))
	surcharge := money.Money{Currency: monthly.Currency}
	if guests > 2 {
		perGuestMonth := monthly.Percent(extraGuestPercent)
		surcharge = perGuestMonth.Multiply(int64(guests - 2)).Multiply(int64(months))
	}
	total, err := base.Add(surcharge)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Months:    months,
		Monthly:   monthly,
		Surcharge: surcharge,
		Total:     total,
	}, nil
}
