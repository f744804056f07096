package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservafacil/backend/internal/scheduling"
)

// AvailabilityService answers slot-level questions: which slots exist
// for a day and whether N more guests fit into one. Per-table conflict
// checking is the assignment service's job.
type AvailabilityService struct {
	restaurantStore  RestaurantStore
	reservationStore ReservationStore
	logger           *zap.Logger
}

func NewAvailabilityService(restaurantStore RestaurantStore, reservationStore ReservationStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		restaurantStore:  restaurantStore,
		reservationStore: reservationStore,
		logger:           logger,
	}
}

func (s *AvailabilityService) GetAvailableTimeSlots(ctx context.Context, restaurantID uuid.UUID, date time.Time) ([]scheduling.TimeSlot, error) {
	rest, err := s.restaurantStore.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	if rest == nil {
		return nil, ErrNotFound
	}

	reservations, err := s.reservationStore.ListByDate(ctx, restaurantID, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	slots, err := scheduling.BuildTimeSlots(scheduling.ConfigFromRestaurant(rest), reservations)
	if err != nil {
		return nil, fmt.Errorf("build time slots: %w", err)
	}
	return slots, nil
}

func (s *AvailabilityService) CheckAvailability(ctx context.Context, restaurantID uuid.UUID, date time.Time, slot string, guests int) (bool, error) {
	rest, err := s.restaurantStore.GetByID(ctx, restaurantID)
	if err != nil {
		return false, fmt.Errorf("get restaurant: %w", err)
	}
	if rest == nil {
		return false, ErrNotFound
	}

	reservations, err := s.reservationStore.ListByDate(ctx, restaurantID, date)
	if err != nil {
		return false, fmt.Errorf("list reservations: %w", err)
	}

	return scheduling.CheckAvailability(scheduling.ConfigFromRestaurant(rest), reservations, slot, guests)
}
