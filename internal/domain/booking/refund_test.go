package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"erents/internal/domain/shared/money"
)

func TestRefund(t *testing.T) {
	total := money.Must(100000, "EUR")
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		cancelAt time.Time
		want     int64
	}{
		{"seven days before", start.AddDate(0, 0, -7), 100000},
		{"well in advance", start.AddDate(0, 0, -30), 100000},
		{"six days before", start.AddDate(0, 0, -6), 50000},
		{"one day before", start.AddDate(0, 0, -1), 50000},
		{"on the start day", start, 0},
		{"hours before start", start.Add(-5 * time.Hour), 0},
		{"after the stay began", start.AddDate(0, 0, 3), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			refund := Refund(total, start, tc.cancelAt)
			assert.Equal(t, tc.want, refund.Amount)
			assert.Equal(t, "EUR", refund.Currency)
		})
	}
}
