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

type ReservationService struct {
	restaurantStore  RestaurantStore
	reservationStore ReservationStore
	notifier         *NotificationService
	logger           *zap.Logger
	now              func() time.Time
}

func NewReservationService(
	restaurantStore RestaurantStore,
	reservationStore ReservationStore,
	notifier *NotificationService,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		restaurantStore:  restaurantStore,
		reservationStore: reservationStore,
		notifier:         notifier,
		logger:           logger,
		now:              time.Now,
	}
}

type CreateReservationInput struct {
	RestaurantID    uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Date            time.Time
	Time            string
	Guests          int
	TablePreference model.TablePreference
	DurationMinutes int
	SpecialRequests string
	CreatedBy       string
}

// CreateReservation validates the request against the restaurant's
// configuration and the slot ceiling, then stores it. Customers start
// at pending; manager-created reservations are confirmed right away.
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*model.Reservation, error) {
	rest, err := s.restaurantStore.GetByID(ctx, input.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	if rest == nil {
		return nil, ErrNotFound
	}

	if err := s.validate(rest, input); err != nil {
		return nil, err
	}

	reservations, err := s.reservationStore.ListByDate(ctx, input.RestaurantID, input.Date)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	ok, err := scheduling.CheckAvailability(scheduling.ConfigFromRestaurant(rest), reservations, input.Time, input.Guests)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSlotFull
	}

	status := model.ReservationPending
	if input.CreatedBy == model.CreatedByManager {
		status = model.ReservationConfirmed
	}
	duration := input.DurationMinutes
	if duration <= 0 {
		duration = rest.DefaultDurationMinutes
	}

	res := &model.Reservation{
		ID:              uuid.New(),
		RestaurantID:    input.RestaurantID,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		Date:            input.Date,
		Time:            input.Time,
		Guests:          input.Guests,
		Status:          status,
		TablePreference: input.TablePreference,
		DurationMinutes: duration,
		SpecialRequests: input.SpecialRequests,
		CreatedBy:       input.CreatedBy,
	}

	if err := s.reservationStore.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.logger.Info("Reservation created",
		zap.String("reservation_id", res.ID.String()),
		zap.String("restaurant_id", res.RestaurantID.String()),
		zap.String("date", res.Date.Format("2006-01-02")),
		zap.String("time", res.Time),
		zap.Int("guests", res.Guests),
		zap.String("status", string(res.Status)))

	if res.Status == model.ReservationConfirmed {
		s.notifier.SendConfirmation(ctx, rest, res)
	}

	return res, nil
}

func (s *ReservationService) validate(rest *model.Restaurant, input CreateReservationInput) error {
	var verr model.ValidationErrors

	if input.CustomerName == "" {
		verr.Addf("customer name is required")
	}
	if input.Guests < 1 {
		verr.Addf("guest count must be at least 1")
	}
	if rest.MaxPartySize > 0 && input.Guests > rest.MaxPartySize {
		verr.Addf("guest count %d exceeds maximum party size %d", input.Guests, rest.MaxPartySize)
	}
	if input.CreatedBy != model.CreatedByCustomer && input.CreatedBy != model.CreatedByManager {
		verr.Addf("created_by must be customer or manager")
	}

	today := s.now().Truncate(24 * time.Hour)
	if input.Date.Before(today) {
		verr.Addf("date %s is in the past", input.Date.Format("2006-01-02"))
	}
	if rest.AdvanceBookingDays > 0 {
		limit := today.AddDate(0, 0, rest.AdvanceBookingDays)
		if input.Date.After(limit) {
			verr.Addf("date %s is beyond the %d-day booking window", input.Date.Format("2006-01-02"), rest.AdvanceBookingDays)
		}
	}

	at, err := scheduling.MinutesOfDay(input.Time)
	if err != nil {
		verr.Addf("invalid time %q", input.Time)
	} else {
		open, errOpen := scheduling.MinutesOfDay(rest.OpeningTime)
		close, errClose := scheduling.MinutesOfDay(rest.ClosingTime)
		if errOpen == nil && errClose == nil {
			if at < open || at >= close {
				verr.Addf("time %s is outside opening hours %s-%s", input.Time, rest.OpeningTime, rest.ClosingTime)
			} else if rest.SlotMinutes > 0 && (at-open)%rest.SlotMinutes != 0 {
				verr.Addf("time %s is not aligned to %d-minute slots", input.Time, rest.SlotMinutes)
			}
		}
	}

	return verr.Err()
}

// ChangeStatus moves a reservation through its lifecycle; disallowed
// moves return ErrInvalidTransition.
func (s *ReservationService) ChangeStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error) {
	res, err := s.reservationStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if res == nil {
		return nil, ErrNotFound
	}

	if !model.ValidStatusTransition(res.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, status)
	}

	if err := s.reservationStore.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	previous := res.Status
	res.Status = status

	s.logger.Info("Reservation status changed",
		zap.String("reservation_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))

	rest, err := s.restaurantStore.GetByID(ctx, res.RestaurantID)
	if err == nil && rest != nil {
		switch status {
		case model.ReservationConfirmed:
			s.notifier.SendConfirmation(ctx, rest, res)
		case model.ReservationCancelled:
			s.notifier.SendCancellation(ctx, rest, res)
		}
	}

	return res, nil
}

func (s *ReservationService) Cancel(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.ChangeStatus(ctx, id, model.ReservationCancelled)
}

func (s *ReservationService) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	res, err := s.reservationStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

func (s *ReservationService) ListDay(ctx context.Context, restaurantID uuid.UUID, date time.Time) ([]*model.Reservation, error) {
	return s.reservationStore.ListByDate(ctx, restaurantID, date)
}
