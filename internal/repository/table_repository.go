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

const tableColumns = `id, restaurant_id, number, capacity, zone, shape, kind,
		       x, y, width, height, features, created_at, updated_at`

type TableRepository struct {
	pool *pgxpool.Pool
}

func NewTableRepository(pool *pgxpool.Pool) *TableRepository {
	return &TableRepository{pool: pool}
}

func scanTable(row pgx.Row) (*model.Table, error) {
	var t model.Table
	err := row.Scan(
		&t.ID,
		&t.RestaurantID,
		&t.Number,
		&t.Capacity,
		&t.Zone,
		&t.Shape,
		&t.Kind,
		&t.Geometry.X,
		&t.Geometry.Y,
		&t.Geometry.Width,
		&t.Geometry.Height,
		&t.Features,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) Create(ctx context.Context, t *model.Table) error {
	query := `
		INSERT INTO tables (id, restaurant_id, number, capacity, zone, shape, kind,
		                    x, y, width, height, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	err := r.pool.QueryRow(
		ctx, query,
		t.ID,
		t.RestaurantID,
		t.Number,
		t.Capacity,
		t.Zone,
		t.Shape,
		t.Kind,
		t.Geometry.X,
		t.Geometry.Y,
		t.Geometry.Width,
		t.Geometry.Height,
		t.Features,
	).Scan(&t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	return nil
}

func (r *TableRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE id = $1`

	t, err := scanTable(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get table by id: %w", err)
	}

	return t, nil
}

func (r *TableRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Table, error) {
	query := `
		SELECT ` + tableColumns + `
		FROM tables
		WHERE restaurant_id = $1
		ORDER BY number
	`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []*model.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}

	return tables, rows.Err()
}

func (r *TableRepository) Update(ctx context.Context, t *model.Table) error {
	query := `
		UPDATE tables
		SET number = $1, capacity = $2, zone = $3, shape = $4, kind = $5,
		    x = $6, y = $7, width = $8, height = $9, features = $10, updated_at = NOW()
		WHERE id = $11
	`

	tag, err := r.pool.Exec(
		ctx, query,
		t.Number,
		t.Capacity,
		t.Zone,
		t.Shape,
		t.Kind,
		t.Geometry.X,
		t.Geometry.Y,
		t.Geometry.Width,
		t.Geometry.Height,
		t.Features,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table not found")
	}

	return nil
}

func (r *TableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table not found")
	}

	return nil
}
