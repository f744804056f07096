package scheduling

import (
	"github.com/google/uuid"

	"github.com/reservafacil/backend/internal/model"
)

// HasConflict reports whether placing candidate on tableID would
// overlap any reservation already bound to that table, either durably
// (existing) or earlier in the same batch (pending). Cancelled
// reservations never conflict. Intervals are half-open, so a
// reservation starting exactly when another ends is fine.
func HasConflict(tableID uuid.UUID, candidate *model.Reservation, existing []*model.Reservation, pending []Assignment) (bool, error) {
	want, err := reservationInterval(candidate)
	if err != nil {
		return false, err
	}

	for _, r := range existing {
		if r.ID == candidate.ID || !r.Active() || !r.AssignedTo(tableID) {
			continue
		}
		have, err := reservationInterval(r)
		if err != nil {
			return false, err
		}
		if want.Overlaps(have) {
			return true, nil
		}
	}

	for _, a := range pending {
		if a.Table.ID != tableID || a.Reservation.ID == candidate.ID {
			continue
		}
		have, err := reservationInterval(a.Reservation)
		if err != nil {
			return false, err
		}
		if want.Overlaps(have) {
			return true, nil
		}
	}

	return false, nil
}
