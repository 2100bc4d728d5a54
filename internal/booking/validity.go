package booking

import (
	"errors"
	"time"

	"staybook/internal/api"
)

var (
	ErrInvalidRange = errors.New("endDate cannot be on or before startDate")
	ErrPastStart    = errors.New("startDate cannot be in the past")
)

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(api.DateFormat, s)
}

// ValidateRange checks a proposed date range. The past-start rule is
// only enforced when creating a booking, never when rescheduling one,
// matching the API's historical behavior.
func ValidateRange(start, end, now time.Time, enforcePastStart bool) error {
	if !end.After(start) {
		return ErrInvalidRange
	}
	if enforcePastStart && start.Before(now) {
		return ErrPastStart
	}
	return nil
}

// FindConflict returns the first existing booking whose start or end
// date falls within [start, end]. Both boundaries are inclusive, so a
// booking ending exactly on start, or starting exactly on end, counts
// as a conflict. A range lying strictly inside an existing booking
// does not; that quirk is part of the API contract. excludeID skips
// the booking being rescheduled.
func FindConflict(existing []Booking, start, end time.Time, excludeID int) *Booking {
	for i := range existing {
		b := &existing[i]
		if b.ID == excludeID {
			continue
		}
		if within(b.StartDate, start, end) || within(b.EndDate, start, end) {
			return b
		}
	}
	return nil
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
