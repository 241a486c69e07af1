package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/money"
)

func TestPrice(t *testing.T) {
	monthly := money.Must(60000, "EUR") // 600.00/month
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("one month two guests", func(t *testing.T) {
		dr, err := daterange.New(start, start.AddDate(0, 0, 30))
		require.NoError(t, err)
		quote, err := Price(monthly, dr, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, quote.Months)
		assert.Equal(t, int64(60000), quote.Total.Amount)
		assert.True(t, quote.Surcharge.IsZero())
	})

	t.Run("extra guests pay ten percent per month each", func(t *testing.T) {
		dr, err := daterange.New(start, start.AddDate(0, 0, 60))
		require.NoError(t, err)
		quote, err := Price(monthly, dr, 4)
		require.NoError(t, err)
		// 2 months base 1200.00 plus 10% x 2 extra guests x 2 months = 240.00
		assert.Equal(t, 2, quote.Months)
		assert.Equal(t, int64(24000), quote.Surcharge.Amount)
		assert.Equal(t, int64(144000), quote.Total.Amount)
	})

	t.Run("partial month bills as a full month", func(t *testing.T) {
		dr, err := daterange.New(start, start.AddDate(0, 0, 31))
		require.NoError(t, err)
		quote, err := Price(monthly, dr, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, quote.Months)
		assert.Equal(t, int64(120000), quote.Total.Amount)
	})

	t.Run("annual lease", func(t *testing.T) {
		dr, err := daterange.New(start, start.AddDate(0, 0, 360))
		require.NoError(t, err)
		quote, err := Price(monthly, dr, 3)
		require.NoError(t, err)
		assert.Equal(t, 12, quote.Months)
		// 12 x 600 base plus 10% x 1 extra guest x 12 months.
		assert.Equal(t, int64(720000+72000), quote.Total.Amount)
	})

	t.Run("empty range rejected", func(t *testing.T) {
		_, err := Price(monthly, daterange.DateRange{Start: start, End: start}, 2)
		assert.ErrorIs(t, err, ErrLeaseTooShort)
	})
}
