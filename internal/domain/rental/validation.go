package rental

import (
	"fmt"
	"strings"
	"time"

	"erents/internal/domain/property"
	"erents/internal/domain/shared/daterange"
)

const (
	// MinLeaseDays is the shortest accepted lease (six 30-day months).
	MinLeaseDays = 180
	// MaxAdvanceDays caps how far ahead a lease may be requested.
	MaxAdvanceDays = 365
)

// ValidationError carries every violated rule at once so callers can render
// the full error set instead of fixing one field at a time.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "rental: validation failed: " + strings.Join(e.Violations, "; ")
}

// Candidate is a rental request proposal before it is accepted into the
// system. Property is nil when the referenced property does not exist.
type Candidate struct {
	Property *property.Property
	Range    daterange.DateRange
	Guests   int
	Now      time.Time
}

// Validate applies the business policy without short-circuiting; a nil
// return means the candidate passed every rule.
func Validate(c Candidate) error {
	var violations []string
	add := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	today := truncateToDay(c.Now)
	start := truncateToDay(c.Range.Start)

	if c.Range.Validate() != nil {
		add("end date must be after start date")
	} else {
		if start.Before(today) {
			add("start date cannot be in the past")
		}
		if days := c.Range.Days(); days < MinLeaseDays {
			add("lease must cover at least 6 months (%d days), got %d days", MinLeaseDays, days)
		}
		if ahead := int(start.Sub(today).Hours() / 24); ahead > MaxAdvanceDays {
			add("start date cannot be more than %d days ahead", MaxAdvanceDays)
		}
	}
	if c.Guests < 1 {
		add("at least one guest is required")
	}

	if c.Property == nil {
		add("property does not exist")
	} else {
		if !c.Property.IsAvailable() {
			add("property is not available for rent")
		}
		if max := c.Property.MaxGuests(); c.Guests > max {
			add("property sleeps at most %d guests, got %d", max, c.Guests)
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
