package model

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant carries the operating configuration the scheduler reads:
// opening hours, slot granularity, the per-slot guest ceiling and the
// default reservation duration.
type Restaurant struct {
	ID                     uuid.UUID `json:"id"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	Address                string    `json:"address"`
	OpeningTime            string    `json:"opening_time"` // "HH:MM"
	ClosingTime            string    `json:"closing_time"` // "HH:MM"
	SlotMinutes            int       `json:"slot_minutes"`
	SlotCapacity           int       `json:"slot_capacity"` // max guests per slot
	DefaultDurationMinutes int       `json:"default_duration_minutes"`
	MaxPartySize           int       `json:"max_party_size"`
	AdvanceBookingDays     int       `json:"advance_booking_days"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
