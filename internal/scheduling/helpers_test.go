package scheduling

import (
	"github.com/google/uuid"

	"github.com/reservafacil/backend/internal/model"
)

func testTable(number, capacity int, zone model.ZoneKind) *model.Table {
	return &model.Table{
		ID:       uuid.New(),
		Number:   number,
		Capacity: capacity,
		Zone:     zone,
		Shape:    model.ShapeSquare,
		Kind:     model.TableStandard,
		Geometry: model.Geometry{X: float64(number) * 500, Y: 0, Width: 80, Height: 80},
	}
}

func testReservation(at string, guests int) *model.Reservation {
	return &model.Reservation{
		ID:     uuid.New(),
		Time:   at,
		Guests: guests,
		Status: model.ReservationConfirmed,
	}
}

func onTable(r *model.Reservation, t *model.Table) *model.Reservation {
	id := t.ID
	r.TableID = &id
	return r
}
