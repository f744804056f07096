package model

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationOccupied  ReservationStatus = "occupied"
	ReservationBlocked   ReservationStatus = "blocked"
)

// statusTransitions maps a status to the statuses it may move into.
// Cancelled is terminal from the scheduler's point of view.
var statusTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationOccupied, ReservationCancelled},
	ReservationOccupied:  {ReservationCancelled},
	ReservationBlocked:   {ReservationCancelled},
}

func ValidStatusTransition(from, to ReservationStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TablePreference is the customer-stated table type wish, mapped to
// preferred zones by the scoring engine.
type TablePreference string

const (
	PreferenceNone    TablePreference = ""
	PreferenceAny     TablePreference = "any"
	PreferenceWindow  TablePreference = "window"
	PreferenceTerrace TablePreference = "terrace"
	PreferencePrivate TablePreference = "private"
	PreferenceBar     TablePreference = "bar"
)

const (
	CreatedByCustomer = "customer"
	CreatedByManager  = "manager"
)

type Reservation struct {
	ID              uuid.UUID         `json:"id"`
	RestaurantID    uuid.UUID         `json:"restaurant_id"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	Date            time.Time         `json:"date"` // calendar day, midnight UTC
	Time            string            `json:"time"` // "HH:MM", slot-aligned
	Guests          int               `json:"guests"`
	Status          ReservationStatus `json:"status"`
	TablePreference TablePreference   `json:"table_preference,omitempty"`
	DurationMinutes int               `json:"duration_minutes"`
	TableID         *uuid.UUID        `json:"table_id"` // nil means unassigned
	SpecialRequests string            `json:"special_requests,omitempty"`
	CreatedBy       string            `json:"created_by"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Active reports whether the reservation still occupies capacity.
func (r *Reservation) Active() bool {
	return r.Status != ReservationCancelled
}

func (r *Reservation) Assigned() bool {
	return r.TableID != nil
}

func (r *Reservation) AssignedTo(tableID uuid.UUID) bool {
	return r.TableID != nil && *r.TableID == tableID
}
