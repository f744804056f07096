package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservafacil/backend/internal/model"
	"github.com/reservafacil/backend/internal/scheduling"
)

const (
	minTableCapacity = 1
	maxTableCapacity = 20

	minSlotMinutes = 15
	maxSlotMinutes = 120
)

// FloorService manages the floor layout: tables and zones. The
// scheduler treats its output as read-only for the duration of a run.
type FloorService struct {
	tableStore      TableStore
	zoneStore       ZoneStore
	restaurantStore RestaurantStore
	logger          *zap.Logger
}

func NewFloorService(tableStore TableStore, zoneStore ZoneStore, restaurantStore RestaurantStore, logger *zap.Logger) *FloorService {
	return &FloorService{
		tableStore:      tableStore,
		zoneStore:       zoneStore,
		restaurantStore: restaurantStore,
		logger:          logger,
	}
}

func (s *FloorService) ListTables(ctx context.Context, restaurantID uuid.UUID) ([]*model.Table, error) {
	return s.tableStore.ListByRestaurant(ctx, restaurantID)
}

func (s *FloorService) ListZones(ctx context.Context, restaurantID uuid.UUID) ([]*model.Zone, error) {
	return s.zoneStore.ListByRestaurant(ctx, restaurantID)
}

func (s *FloorService) CreateTable(ctx context.Context, t *model.Table) error {
	if err := s.validateTable(ctx, t, uuid.Nil); err != nil {
		return err
	}
	if err := s.tableStore.Create(ctx, t); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	s.logger.Info("Table created",
		zap.String("table_id", t.ID.String()),
		zap.Int("number", t.Number),
		zap.Int("capacity", t.Capacity),
		zap.String("zone", string(t.Zone)))
	return nil
}

func (s *FloorService) UpdateTable(ctx context.Context, t *model.Table) error {
	existing, err := s.tableStore.GetByID(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("get table: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if err := s.validateTable(ctx, t, t.ID); err != nil {
		return err
	}
	if err := s.tableStore.Update(ctx, t); err != nil {
		return fmt.Errorf("update table: %w", err)
	}

	s.logger.Info("Table updated", zap.String("table_id", t.ID.String()))
	return nil
}

func (s *FloorService) GetTable(ctx context.Context, id uuid.UUID) (*model.Table, error) {
	t, err := s.tableStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *FloorService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	existing, err := s.tableStore.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get table: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if err := s.tableStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete table: %w", err)
	}

	s.logger.Info("Table deleted", zap.String("table_id", id.String()))
	return nil
}

// DuplicateTable copies a table under the next free number, offset on
// the floor plan so the copy is visible next to the original.
func (s *FloorService) DuplicateTable(ctx context.Context, id uuid.UUID) (*model.Table, error) {
	original, err := s.tableStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	if original == nil {
		return nil, ErrNotFound
	}

	tables, err := s.tableStore.ListByRestaurant(ctx, original.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	nextNumber := 0
	for _, t := range tables {
		if t.Number > nextNumber {
			nextNumber = t.Number
		}
	}
	nextNumber++

	copied := *original
	copied.ID = uuid.New()
	copied.Number = nextNumber
	copied.Geometry.X += 20
	copied.Geometry.Y += 20
	copied.Features = append([]string(nil), original.Features...)

	if err := s.tableStore.Create(ctx, &copied); err != nil {
		return nil, fmt.Errorf("duplicate table: %w", err)
	}

	s.logger.Info("Table duplicated",
		zap.String("original_id", original.ID.String()),
		zap.String("copy_id", copied.ID.String()),
		zap.Int("number", copied.Number))
	return &copied, nil
}

func (s *FloorService) validateTable(ctx context.Context, t *model.Table, selfID uuid.UUID) error {
	var verr model.ValidationErrors

	if t.Capacity < minTableCapacity || t.Capacity > maxTableCapacity {
		verr.Addf("capacity must be between %d and %d, got %d", minTableCapacity, maxTableCapacity, t.Capacity)
	}
	if t.Number <= 0 {
		verr.Addf("table number must be positive")
	}
	if !model.ValidZoneKind(t.Zone) {
		verr.Addf("unknown zone %q", t.Zone)
	} else {
		zones, err := s.zoneStore.ListByRestaurant(ctx, t.RestaurantID)
		if err != nil {
			return fmt.Errorf("list zones: %w", err)
		}
		if len(zones) > 0 && !zoneConfigured(zones, t.Zone) {
			verr.Addf("zone %q is not configured for this restaurant", t.Zone)
		}
	}

	tables, err := s.tableStore.ListByRestaurant(ctx, t.RestaurantID)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	for _, other := range tables {
		if other.ID != selfID && other.Number == t.Number {
			verr.Addf("table number %d already exists", t.Number)
			break
		}
	}

	return verr.Err()
}

func zoneConfigured(zones []*model.Zone, kind model.ZoneKind) bool {
	for _, z := range zones {
		if z.Kind == kind {
			return true
		}
	}
	return false
}

// UpdateRestaurantSettings validates the operating configuration the
// scheduler depends on before persisting it.
func (s *FloorService) UpdateRestaurantSettings(ctx context.Context, rest *model.Restaurant) error {
	existing, err := s.restaurantStore.GetByID(ctx, rest.ID)
	if err != nil {
		return fmt.Errorf("get restaurant: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}

	var verr model.ValidationErrors
	if rest.SlotMinutes < minSlotMinutes || rest.SlotMinutes > maxSlotMinutes {
		verr.Addf("slot duration must be between %d and %d minutes, got %d", minSlotMinutes, maxSlotMinutes, rest.SlotMinutes)
	}
	if rest.SlotCapacity < 1 {
		verr.Addf("slot capacity must be at least 1")
	}
	open, errOpen := scheduling.MinutesOfDay(rest.OpeningTime)
	close, errClose := scheduling.MinutesOfDay(rest.ClosingTime)
	if errOpen != nil {
		verr.Addf("invalid opening time %q", rest.OpeningTime)
	}
	if errClose != nil {
		verr.Addf("invalid closing time %q", rest.ClosingTime)
	}
	if errOpen == nil && errClose == nil && open >= close {
		verr.Addf("opening time %s must be before closing time %s", rest.OpeningTime, rest.ClosingTime)
	}
	if err := verr.Err(); err != nil {
		return err
	}

	if err := s.restaurantStore.UpdateSettings(ctx, rest); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	s.logger.Info("Restaurant settings updated", zap.String("restaurant_id", rest.ID.String()))
	return nil
}
