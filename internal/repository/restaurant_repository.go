package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reservafacil/backend/internal/model"
	"github.com/reservafacil/backend/internal/repository/base"
)

const restaurantColumns = `id, name, email, phone, address, opening_time, closing_time,
		       slot_minutes, slot_capacity, default_duration_minutes,
		       max_party_size, advance_booking_days, created_at, updated_at`

type RestaurantRepository struct {
	pool *pgxpool.Pool
}

func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

func scanRestaurant(row pgx.Row) (*model.Restaurant, error) {
	var r model.Restaurant
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Email,
		&r.Phone,
		&r.Address,
		&r.OpeningTime,
		&r.ClosingTime,
		&r.SlotMinutes,
		&r.SlotCapacity,
		&r.DefaultDurationMinutes,
		&r.MaxPartySize,
		&r.AdvanceBookingDays,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *RestaurantRepository) Create(ctx context.Context, rest *model.Restaurant) error {
	query := `
		INSERT INTO restaurants (id, name, email, phone, address, opening_time, closing_time,
		                         slot_minutes, slot_capacity, default_duration_minutes,
		                         max_party_size, advance_booking_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	if rest.ID == uuid.Nil {
		rest.ID = uuid.New()
	}

	err := r.pool.QueryRow(
		ctx, query,
		rest.ID,
		rest.Name,
		rest.Email,
		rest.Phone,
		rest.Address,
		rest.OpeningTime,
		rest.ClosingTime,
		rest.SlotMinutes,
		rest.SlotCapacity,
		rest.DefaultDurationMinutes,
		rest.MaxPartySize,
		rest.AdvanceBookingDays,
	).Scan(&rest.CreatedAt, &rest.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create restaurant: %w", err)
	}

	return nil
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`

	rest, err := scanRestaurant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get restaurant by id: %w", err)
	}

	return rest, nil
}

func (r *RestaurantRepository) UpdateSettings(ctx context.Context, rest *model.Restaurant) error {
	query := `
		UPDATE restaurants
		SET name = $1, email = $2, phone = $3, address = $4,
		    opening_time = $5, closing_time = $6, slot_minutes = $7, slot_capacity = $8,
		    default_duration_minutes = $9, max_party_size = $10, advance_booking_days = $11,
		    updated_at = NOW()
		WHERE id = $12
	`

	tag, err := r.pool.Exec(
		ctx, query,
		rest.Name,
		rest.Email,
		rest.Phone,
		rest.Address,
		rest.OpeningTime,
		rest.ClosingTime,
		rest.SlotMinutes,
		rest.SlotCapacity,
		rest.DefaultDurationMinutes,
		rest.MaxPartySize,
		rest.AdvanceBookingDays,
		rest.ID,
	)
	if err != nil {
		return fmt.Errorf("update restaurant settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("restaurant not found")
	}

	return nil
}
