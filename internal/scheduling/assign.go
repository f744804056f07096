package scheduling

import (
	"sort"
	"strings"

	"github.com/reservafacil/backend/internal/model"
)

// Assignment binds a reservation to a table with the score that won.
// It stays transient until the orchestrator writes the table id back
// onto the reservation.
type Assignment struct {
	Reservation *model.Reservation `json:"reservation"`
	Table       *model.Table       `json:"table"`
	Score       int                `json:"score"`
	Reasons     []string           `json:"reasons"`
}

// Plan is the outcome of one batch run over a day. Unassigned is a
// normal result, not a failure: some parties simply do not fit.
type Plan struct {
	Assignments []Assignment
	Unassigned  []*model.Reservation
}

// PlanDay computes assignments for every unassigned, non-cancelled
// reservation of the day. Larger parties pick first; within equal
// size, earlier times go first. Each assignment joins the pending set
// so later reservations in the same batch see the table as taken.
func PlanDay(tables []*model.Table, dayReservations []*model.Reservation) (Plan, error) {
	var plan Plan

	queue := make([]*model.Reservation, 0, len(dayReservations))
	for _, r := range dayReservations {
		if r.Active() && !r.Assigned() {
			queue = append(queue, r)
		}
	}
	sortByPriority(queue)

	for _, res := range queue {
		best, err := BestTable(res, tables, dayReservations, plan.Assignments)
		if err != nil {
			return Plan{}, err
		}
		if best == nil {
			plan.Unassigned = append(plan.Unassigned, res)
			continue
		}
		plan.Assignments = append(plan.Assignments, *best)
	}
	return plan, nil
}

// BestTable scores every feasible table for the reservation and
// returns the winner, or nil when none fits. Ties break on the lower
// table number, then the table id, so repeated runs over the same
// input produce the same plan.
func BestTable(res *model.Reservation, tables []*model.Table, existing []*model.Reservation, pending []Assignment) (*Assignment, error) {
	var best *Assignment
	for _, table := range tables {
		if table.Capacity < res.Guests {
			continue
		}
		conflict, err := HasConflict(table.ID, res, existing, pending)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}
		score := Score(table, res, existing, tables)
		candidate := Assignment{Reservation: res, Table: table, Score: score.Total, Reasons: score.Reasons}
		if best == nil || betterThan(candidate, *best) {
			c := candidate
			best = &c
		}
	}
	return best, nil
}

func betterThan(a, b Assignment) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Table.Number != b.Table.Number {
		return a.Table.Number < b.Table.Number
	}
	return a.Table.ID.String() < b.Table.ID.String()
}

func sortByPriority(queue []*model.Reservation) {
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].Guests != queue[j].Guests {
			return queue[i].Guests > queue[j].Guests
		}
		if queue[i].Time != queue[j].Time {
			return queue[i].Time < queue[j].Time
		}
		return strings.Compare(queue[i].ID.String(), queue[j].ID.String()) < 0
	})
}
