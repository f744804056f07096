package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reservafacil/backend/internal/model"
	"github.com/reservafacil/backend/internal/repository/base"
)

const reservationColumns = `id, restaurant_id, customer_name, customer_email, customer_phone,
		       date, time_slot, guests, status, table_preference, duration_minutes,
		       table_id, special_requests, created_by, created_at, updated_at`

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var r model.Reservation
	err := row.Scan(
		&r.ID,
		&r.RestaurantID,
		&r.CustomerName,
		&r.CustomerEmail,
		&r.CustomerPhone,
		&r.Date,
		&r.Time,
		&r.Guests,
		&r.Status,
		&r.TablePreference,
		&r.DurationMinutes,
		&r.TableID,
		&r.SpecialRequests,
		&r.CreatedBy,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *ReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	query := `
		INSERT INTO reservations (id, restaurant_id, customer_name, customer_email, customer_phone,
		                          date, time_slot, guests, status, table_preference, duration_minutes,
		                          table_id, special_requests, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}

	err := r.pool.QueryRow(
		ctx, query,
		res.ID,
		res.RestaurantID,
		res.CustomerName,
		res.CustomerEmail,
		res.CustomerPhone,
		res.Date,
		res.Time,
		res.Guests,
		res.Status,
		res.TablePreference,
		res.DurationMinutes,
		res.TableID,
		res.SpecialRequests,
		res.CreatedBy,
	).Scan(&res.CreatedAt, &res.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}

	return res, nil
}

// ListByDate returns every reservation of the restaurant's day, in
// every status. Filtering by status is the caller's business.
func (r *ReservationRepository) ListByDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE restaurant_id = $1 AND date = $2
		ORDER BY time_slot, created_at
	`

	rows, err := r.pool.Query(ctx, query, restaurantID, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations by date: %w", err)
	}
	defer rows.Close()

	var reservations []*model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}

// ListConfirmedByDate returns confirmed reservations across all
// restaurants for one day. Used by the reminder task.
func (r *ReservationRepository) ListConfirmedByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE date = $1 AND status = 'confirmed'
		ORDER BY restaurant_id, time_slot
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list confirmed reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reservation not found")
	}

	return nil
}

// AssignTable binds or clears (tableID nil) the reservation's table.
func (r *ReservationRepository) AssignTable(ctx context.Context, id uuid.UUID, tableID *uuid.UUID) error {
	query := `
		UPDATE reservations
		SET table_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := r.pool.Exec(ctx, query, tableID, id)
	if err != nil {
		return fmt.Errorf("assign table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reservation not found")
	}

	return nil
}

// ClearAssignmentsForDate drops every table binding of the day, the
// first step of a full re-optimization.
func (r *ReservationRepository) ClearAssignmentsForDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) error {
	query := `
		UPDATE reservations
		SET table_id = NULL, updated_at = NOW()
		WHERE restaurant_id = $1 AND date = $2 AND table_id IS NOT NULL
	`

	if _, err := r.pool.Exec(ctx, query, restaurantID, date); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}

	return nil
}

// DistinctCustomerEmails lists unique addresses from the restaurant's
// non-cancelled reservation history. Campaign recipients come from
// here.
func (r *ReservationRepository) DistinctCustomerEmails(ctx context.Context, restaurantID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT customer_email
		FROM reservations
		WHERE restaurant_id = $1 AND status != 'cancelled' AND customer_email != ''
		ORDER BY customer_email
	`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list customer emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, email)
	}

	return emails, rows.Err()
}

// WithDayLock runs fn under a per-(restaurant, date) advisory lock so
// two batch runs over the same day cannot interleave on stale
// snapshots. The lock is transaction-scoped and released on commit.
func (r *ReservationRepository) WithDayLock(ctx context.Context, restaurantID uuid.UUID, date time.Time, fn func(ctx context.Context) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	key := fmt.Sprintf("assign:%s:%s", restaurantID, date.Format("2006-01-02"))
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("acquire day lock: %w", err)
	}

	if err := fn(ctx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
