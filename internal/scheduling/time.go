package scheduling

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reservafacil/backend/internal/model"
)

// DefaultDurationMinutes applies when a reservation does not state its
// own duration.
const DefaultDurationMinutes = 120

// MinutesOfDay parses an "HH:MM" label into minutes from midnight.
func MinutesOfDay(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", hhmm)
	}
	return h*60 + m, nil
}

// FormatMinutes renders minutes from midnight as an "HH:MM" label.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Interval is a half-open [Start, End) span in minutes from midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps uses half-open semantics: an interval ending exactly when
// another begins does not overlap it.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

func effectiveDuration(r *model.Reservation) int {
	if r.DurationMinutes > 0 {
		return r.DurationMinutes
	}
	return DefaultDurationMinutes
}

// reservationInterval converts a reservation to its occupied interval.
// Unparseable times report an error instead of silently occupying
// nothing.
func reservationInterval(r *model.Reservation) (Interval, error) {
	start, err := MinutesOfDay(r.Time)
	if err != nil {
		return Interval{}, fmt.Errorf("reservation %s: %w", r.ID, err)
	}
	return Interval{Start: start, End: start + effectiveDuration(r)}, nil
}
