package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erents/internal/domain/property"
	"erents/internal/domain/shared/daterange"
	"erents/internal/domain/shared/money"
)

var testNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func testProperty(t *testing.T, bedrooms int) *property.Property {
	t.Helper()
	p, err := property.New(property.CreateParams{
		ID:          "prop-1",
		OwnerID:     "owner-1",
		Title:       "Canal-side apartment",
		Address:     property.Address{Line1: "Keizersgracht 1", City: "Amsterdam", Country: "NL"},
		Bedrooms:    bedrooms,
		Bathrooms:   1,
		Price:       money.Must(120000, "EUR"),
		RentingType: property.RentMonthly,
		Now:         testNow,
	})
	require.NoError(t, err)
	return p
}

func leaseRange(t *testing.T, startOffsetDays, lengthDays int) daterange.DateRange {
	t.Helper()
	start := testNow.AddDate(0, 0, startOffsetDays)
	dr, err := daterange.New(start, start.AddDate(0, 0, lengthDays))
	require.NoError(t, err)
	return dr
}

func TestValidate(t *testing.T) {
	t.Run("valid candidate", func(t *testing.T) {
		err := Validate(Candidate{
			Property: testProperty(t, 2),
			Range:    leaseRange(t, 14, 365),
			Guests:   2,
			Now:      testNow,
		})
		assert.NoError(t, err)
	})

	t.Run("minimum lease accepted at exactly 180 days", func(t *testing.T) {
		err := Validate(Candidate{
			Property: testProperty(t, 2),
			Range:    leaseRange(t, 14, 180),
			Guests:   2,
			Now:      testNow,
		})
		assert.NoError(t, err)
	})

	t.Run("violations accumulate", func(t *testing.T) {
		err := Validate(Candidate{
			Property: testProperty(t, 1),
			Range:    leaseRange(t, 14, 150),
			Guests:   5,
			Now:      testNow,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Violations, 2)
		assert.Contains(t, verr.Violations[0], "at least 6 months")
		assert.Contains(t, verr.Violations[1], "sleeps at most 2 guests")
	})

	t.Run("start too far ahead", func(t *testing.T) {
		err := Validate(Candidate{
			Property: testProperty(t, 2),
			Range:    leaseRange(t, 400, 365),
			Guests:   2,
			Now:      testNow,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Violations, 1)
		assert.Contains(t, verr.Violations[0], "365 days ahead")
	})

	t.Run("start in the past", func(t *testing.T) {
		err := Validate(Candidate{
			Property: testProperty(t, 2),
			Range:    leaseRange(t, -2, 365),
			Guests:   2,
			Now:      testNow,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Violations[0], "in the past")
	})

	t.Run("missing property", func(t *testing.T) {
		err := Validate(Candidate{
			Range:  leaseRange(t, 14, 365),
			Guests: 2,
			Now:    testNow,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Violations[0], "property does not exist")
	})

	t.Run("property not available", func(t *testing.T) {
		p := testProperty(t, 2)
		require.NoError(t, p.MarkOccupied(testNow))
		err := Validate(Candidate{
			Property: p,
			Range:    leaseRange(t, 14, 365),
			Guests:   2,
			Now:      testNow,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Violations[0], "not available")
	})

	t.Run("guest count required", func(t *testing.T) {
		err := Validate(Candidate{
			Property: testProperty(t, 2),
			Range:    leaseRange(t, 14, 365),
			Guests:   0,
			Now:      testNow,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Violations[0], "at least one guest")
	})

	t.Run("inverted range reports a single range violation", func(t *testing.T) {
		err := Validate(Candidate{
			Property: testProperty(t, 2),
			Range:    daterange.DateRange{Start: testNow.AddDate(0, 0, 30), End: testNow.AddDate(0, 0, 10)},
			Guests:   2,
			Now:      testNow,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Violations, 1)
		assert.Contains(t, verr.Violations[0], "end date must be after start date")
	})
}
