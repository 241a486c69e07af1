package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	dr, err := New(start, end)
	require.NoError(t, err)
	return dr
}

func TestNew(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		dr, err := New(day(2026, 3, 1), day(2026, 9, 1))
		require.NoError(t, err)
		assert.Equal(t, day(2026, 3, 1), dr.Start)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := New(day(2026, 9, 1), day(2026, 3, 1))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("empty range", func(t *testing.T) {
		_, err := New(day(2026, 3, 1), day(2026, 3, 1))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("zero times", func(t *testing.T) {
		_, err := New(time.Time{}, day(2026, 3, 1))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, day(2026, 3, 1), day(2026, 9, 1))

	t.Run("overlapping", func(t *testing.T) {
		other := mustRange(t, day(2026, 8, 31), day(2027, 3, 1))
		assert.True(t, base.Overlaps(other))
		assert.True(t, other.Overlaps(base))
	})

	t.Run("contained", func(t *testing.T) {
		other := mustRange(t, day(2026, 4, 1), day(2026, 5, 1))
		assert.True(t, base.Overlaps(other))
	})

	t.Run("adjacent ranges do not overlap", func(t *testing.T) {
		after := mustRange(t, day(2026, 9, 1), day(2027, 3, 1))
		before := mustRange(t, day(2025, 9, 1), day(2026, 3, 1))
		assert.False(t, base.Overlaps(after))
		assert.False(t, base.Overlaps(before))
		assert.True(t, base.Adjacent(after))
		assert.True(t, base.Adjacent(before))
	})

	t.Run("disjoint", func(t *testing.T) {
		other := mustRange(t, day(2027, 1, 1), day(2027, 7, 1))
		assert.False(t, base.Overlaps(other))
	})
}

func TestDaysAndMonths(t *testing.T) {
	cases := []struct {
		name   string
		days   int
		months int
	}{
		{"one day", 1, 1},
		{"thirty days", 30, 1},
		{"thirty-one days", 31, 2},
		{"sixty days", 60, 2},
		{"half year", 180, 6},
		{"half year plus a day", 181, 7},
		{"full year", 360, 12},
	}
	start := day(2026, 1, 1)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dr := mustRange(t, start, start.AddDate(0, 0, tc.days))
			assert.Equal(t, tc.days, dr.Days())
			assert.Equal(t, tc.months, dr.Months())
		})
	}
}

func TestContainsDate(t *testing.T) {
	dr := mustRange(t, day(2026, 3, 1), day(2026, 9, 1))
	assert.True(t, dr.ContainsDate(day(2026, 3, 1)), "start is inclusive")
	assert.True(t, dr.ContainsDate(day(2026, 8, 31)))
	assert.False(t, dr.ContainsDate(day(2026, 9, 1)), "end is exclusive")
	assert.False(t, dr.ContainsDate(day(2026, 2, 28)))
}

func TestFromMonths(t *testing.T) {
	dr, err := FromMonths(day(2026, 3, 1), 6)
	require.NoError(t, err)
	assert.Equal(t, 180, dr.Days())
	assert.Equal(t, 6, dr.Months())

	_, err = FromMonths(day(2026, 3, 1), 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
