package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservafacil/backend/internal/model"
	"github.com/reservafacil/backend/internal/scheduling"
)

// AssignmentService is the orchestrator: it turns the pure planning
// core into durable table bindings, one reservation at a time.
type AssignmentService struct {
	reservationStore ReservationStore
	tableStore       TableStore
	logger           *zap.Logger
}

func NewAssignmentService(reservationStore ReservationStore, tableStore TableStore, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		reservationStore: reservationStore,
		tableStore:       tableStore,
		logger:           logger,
	}
}

// AssignmentRecord is the durable echo of one committed assignment.
type AssignmentRecord struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	TableID       uuid.UUID `json:"table_id"`
	TableNumber   int       `json:"table_number"`
	Score         int       `json:"score"`
	Reasons       []string  `json:"reasons"`
}

// BatchResult reports a full batch run. Unassigned reservations are a
// normal outcome, listed so the manager can place them by hand.
type BatchResult struct {
	Assignments []AssignmentRecord `json:"assignments"`
	Unassigned  []uuid.UUID        `json:"unassigned"`
}

// AutoAssignDay plans and commits tables for every unassigned
// reservation of the day, under the per-day advisory lock.
func (s *AssignmentService) AutoAssignDay(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*BatchResult, error) {
	var result *BatchResult
	err := s.reservationStore.WithDayLock(ctx, restaurantID, date, func(ctx context.Context) error {
		var err error
		result, err = s.planAndCommit(ctx, restaurantID, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReoptimizeFullDay clears every binding of the day and re-runs the
// batch from scratch. A full re-shuffle, not an incremental fix.
func (s *AssignmentService) ReoptimizeFullDay(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*BatchResult, error) {
	var result *BatchResult
	err := s.reservationStore.WithDayLock(ctx, restaurantID, date, func(ctx context.Context) error {
		if err := s.reservationStore.ClearAssignmentsForDate(ctx, restaurantID, date); err != nil {
			return err
		}
		var err error
		result, err = s.planAndCommit(ctx, restaurantID, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AssignmentService) planAndCommit(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*BatchResult, error) {
	tables, err := s.tableStore.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	reservations, err := s.reservationStore.ListByDate(ctx, restaurantID, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	plan, err := scheduling.PlanDay(tables, reservations)
	if err != nil {
		return nil, fmt.Errorf("plan day: %w", err)
	}

	result := &BatchResult{}
	for _, a := range plan.Assignments {
		// Commits are checkpoint-safe: a cancellation between
		// reservations leaves the already written bindings valid.
		if err := ctx.Err(); err != nil {
			return result, err
		}
		tableID := a.Table.ID
		if err := s.reservationStore.AssignTable(ctx, a.Reservation.ID, &tableID); err != nil {
			return result, fmt.Errorf("commit assignment: %w", err)
		}
		result.Assignments = append(result.Assignments, AssignmentRecord{
			ReservationID: a.Reservation.ID,
			TableID:       a.Table.ID,
			TableNumber:   a.Table.Number,
			Score:         a.Score,
			Reasons:       a.Reasons,
		})
	}
	for _, r := range plan.Unassigned {
		result.Unassigned = append(result.Unassigned, r.ID)
	}

	s.logger.Info("Batch assignment completed",
		zap.String("restaurant_id", restaurantID.String()),
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("assigned", len(result.Assignments)),
		zap.Int("unassigned", len(result.Unassigned)))

	return result, nil
}

// SingleResult reports a manual assignment. Warning is advisory: a
// table more than twice the party size is flagged, not refused.
type SingleResult struct {
	Record  AssignmentRecord `json:"record"`
	Warning string           `json:"warning,omitempty"`
}

func (s *AssignmentService) AssignSingle(ctx context.Context, reservationID, tableID uuid.UUID) (*SingleResult, error) {
	res, err := s.reservationStore.GetByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if res == nil {
		return nil, ErrNotFound
	}
	table, err := s.tableStore.GetByID(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	if table == nil {
		return nil, ErrNotFound
	}

	if table.Capacity < res.Guests {
		var verr model.ValidationErrors
		verr.Addf("table %d seats %d, party of %d does not fit", table.Number, table.Capacity, res.Guests)
		return nil, verr.Err()
	}

	dayReservations, err := s.reservationStore.ListByDate(ctx, res.RestaurantID, res.Date)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	conflict, err := scheduling.HasConflict(tableID, res, dayReservations, nil)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, fmt.Errorf("%w: table %d at %s", ErrConflict, table.Number, res.Time)
	}

	tables, err := s.tableStore.ListByRestaurant(ctx, res.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	score := scheduling.Score(table, res, dayReservations, tables)

	if err := s.reservationStore.AssignTable(ctx, reservationID, &tableID); err != nil {
		return nil, fmt.Errorf("assign table: %w", err)
	}

	result := &SingleResult{
		Record: AssignmentRecord{
			ReservationID: reservationID,
			TableID:       tableID,
			TableNumber:   table.Number,
			Score:         score.Total,
			Reasons:       score.Reasons,
		},
	}
	if table.Capacity > res.Guests*2 {
		result.Warning = fmt.Sprintf("mesa para %d asignada a un grupo de %d", table.Capacity, res.Guests)
	}

	s.logger.Info("Table assigned",
		zap.String("reservation_id", reservationID.String()),
		zap.Int("table_number", table.Number),
		zap.Int("score", score.Total))

	return result, nil
}

// Unassign clears the reservation's table unconditionally.
func (s *AssignmentService) Unassign(ctx context.Context, reservationID uuid.UUID) error {
	res, err := s.reservationStore.GetByID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("get reservation: %w", err)
	}
	if res == nil {
		return ErrNotFound
	}

	if err := s.reservationStore.AssignTable(ctx, reservationID, nil); err != nil {
		return fmt.Errorf("unassign table: %w", err)
	}

	s.logger.Info("Table unassigned", zap.String("reservation_id", reservationID.String()))
	return nil
}
