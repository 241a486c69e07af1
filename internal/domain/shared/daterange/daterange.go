package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: end must be after start")

// DateRange is a half-open interval [Start, End): touching endpoints do not
// overlap, so a stay ending on a given day can be followed by one starting
// the same day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: start.UTC(), End: end.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if !dr.End.After(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the whole number of days covered by the range.
func (dr DateRange) Days() int {
	return int(dr.End.Sub(dr.Start).Hours() / 24)
}

// Months returns the lease length in months, a month being any started
// 30-day slice of the range.
func (dr DateRange) Months() int {
	days := dr.Days()
	if days <= 0 {
		return 0
	}
	return (days + 29) / 30
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Start.Before(other.End) && other.Start.Before(dr.End)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !dr.Start.After(other.Start) && !dr.End.Before(other.End)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return !t.Before(dr.Start) && t.Before(dr.End)
}

func (dr DateRange) Adjacent(other DateRange) bool {
	return dr.End.Equal(other.Start) || dr.Start.Equal(other.End)
}

// FromMonths derives the lease range from a start date and a duration in
// months of 30 days each.
func FromMonths(start time.Time, months int) (DateRange, error) {
	if months <= 0 {
		return DateRange{}, ErrInvalidRange
	}
	start = start.UTC()
	return New(start, start.AddDate(0, 0, months*30))
}
