package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reservafacil/backend/internal/model"
)

// Store interfaces are defined on the consumer side so the scheduling
// services can run against in-memory fakes in tests. The pgx
// repositories satisfy them.

type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	ListByDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) ([]*model.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error
	AssignTable(ctx context.Context, id uuid.UUID, tableID *uuid.UUID) error
	ClearAssignmentsForDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) error
	DistinctCustomerEmails(ctx context.Context, restaurantID uuid.UUID) ([]string, error)
	WithDayLock(ctx context.Context, restaurantID uuid.UUID, date time.Time, fn func(ctx context.Context) error) error
}

type TableStore interface {
	Create(ctx context.Context, t *model.Table) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Table, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Table, error)
	Update(ctx context.Context, t *model.Table) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ZoneStore interface {
	Create(ctx context.Context, z *model.Zone) error
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Zone, error)
}

type RestaurantStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)
	UpdateSettings(ctx context.Context, rest *model.Restaurant) error
}

type CampaignStore interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Campaign, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentCount int, sentAt time.Time) error
}
