package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reservafacil/backend/internal/model"
)

type ZoneRepository struct {
	pool *pgxpool.Pool
}

func NewZoneRepository(pool *pgxpool.Pool) *ZoneRepository {
	return &ZoneRepository{pool: pool}
}

func (r *ZoneRepository) Create(ctx context.Context, z *model.Zone) error {
	query := `
		INSERT INTO zones (id, restaurant_id, kind, label)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query, z.ID, z.RestaurantID, z.Kind, z.Label).Scan(&z.CreatedAt)
	if err != nil {
		return fmt.Errorf("create zone: %w", err)
	}

	return nil
}

func (r *ZoneRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Zone, error) {
	query := `
		SELECT id, restaurant_id, kind, label, created_at
		FROM zones
		WHERE restaurant_id = $1
		ORDER BY kind
	`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	var zones []*model.Zone
	for rows.Next() {
		var z model.Zone
		if err := rows.Scan(&z.ID, &z.RestaurantID, &z.Kind, &z.Label, &z.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, &z)
	}

	return zones, rows.Err()
}
