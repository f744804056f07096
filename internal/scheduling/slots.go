package scheduling

import (
	"fmt"

	"github.com/reservafacil/backend/internal/model"
)

// SlotConfig is the restaurant-wide admission control configuration.
// It is slot-exact on purpose: duration-aware overlap belongs to the
// per-table conflict check, not here.
type SlotConfig struct {
	OpeningTime string
	ClosingTime string
	SlotMinutes int
	Ceiling     int // max aggregate guests per slot
}

func ConfigFromRestaurant(r *model.Restaurant) SlotConfig {
	return SlotConfig{
		OpeningTime: r.OpeningTime,
		ClosingTime: r.ClosingTime,
		SlotMinutes: r.SlotMinutes,
		Ceiling:     r.SlotCapacity,
	}
}

// TimeSlot is one admission-control bucket for a given day.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Capacity  int    `json:"capacity"`
	Reserved  int    `json:"reserved"`
}

// BuildTimeSlots enumerates slots from opening to closing at the
// configured granularity and aggregates reserved guests per slot from
// the day's non-cancelled reservations.
func BuildTimeSlots(cfg SlotConfig, reservations []*model.Reservation) ([]TimeSlot, error) {
	open, err := MinutesOfDay(cfg.OpeningTime)
	if err != nil {
		return nil, fmt.Errorf("opening time: %w", err)
	}
	close, err := MinutesOfDay(cfg.ClosingTime)
	if err != nil {
		return nil, fmt.Errorf("closing time: %w", err)
	}
	if cfg.SlotMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", cfg.SlotMinutes)
	}

	reserved := make(map[string]int)
	for _, r := range reservations {
		if !r.Active() {
			continue
		}
		reserved[r.Time] += r.Guests
	}

	var slots []TimeSlot
	for t := open; t < close; t += cfg.SlotMinutes {
		label := FormatMinutes(t)
		count := reserved[label]
		slots = append(slots, TimeSlot{
			Time:      label,
			Available: count < cfg.Ceiling,
			Capacity:  cfg.Ceiling,
			Reserved:  count,
		})
	}
	return slots, nil
}

// CheckAvailability reports whether guests more can be admitted at the
// exact slot without exceeding the per-slot ceiling.
func CheckAvailability(cfg SlotConfig, reservations []*model.Reservation, slot string, guests int) (bool, error) {
	if _, err := MinutesOfDay(slot); err != nil {
		return false, err
	}
	current := 0
	for _, r := range reservations {
		if r.Active() && r.Time == slot {
			current += r.Guests
		}
	}
	return current+guests <= cfg.Ceiling, nil
}
