package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reservafacil/backend/internal/model"
	"github.com/reservafacil/backend/internal/repository/base"
)

type CampaignRepository struct {
	pool *pgxpool.Pool
}

func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	query := `
		INSERT INTO campaigns (id, restaurant_id, subject, body, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query, c.ID, c.RestaurantID, c.Subject, c.Body, c.Status).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}

	return nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	query := `
		SELECT id, restaurant_id, subject, body, status, sent_count, sent_at, created_at
		FROM campaigns
		WHERE id = $1
	`

	var c model.Campaign
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.RestaurantID,
		&c.Subject,
		&c.Body,
		&c.Status,
		&c.SentCount,
		&c.SentAt,
		&c.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get campaign by id: %w", err)
	}

	return &c, nil
}

func (r *CampaignRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Campaign, error) {
	query := `
		SELECT id, restaurant_id, subject, body, status, sent_count, sent_at, created_at
		FROM campaigns
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*model.Campaign
	for rows.Next() {
		var c model.Campaign
		err := rows.Scan(&c.ID, &c.RestaurantID, &c.Subject, &c.Body, &c.Status, &c.SentCount, &c.SentAt, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, &c)
	}

	return campaigns, rows.Err()
}

func (r *CampaignRepository) MarkSent(ctx context.Context, id uuid.UUID, sentCount int, sentAt time.Time) error {
	query := `
		UPDATE campaigns
		SET status = 'sent', sent_count = $1, sent_at = $2
		WHERE id = $3 AND status = 'draft'
	`

	tag, err := r.pool.Exec(ctx, query, sentCount, sentAt, id)
	if err != nil {
		return fmt.Errorf("mark campaign sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("campaign not found or already sent")
	}

	return nil
}
