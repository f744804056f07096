package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservafacil/backend/internal/model"
	"github.com/reservafacil/backend/internal/service"
)

type reminderReservations interface {
	ListConfirmedByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error)
}

type reminderRestaurants interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)
}

// Reminder runs the background reminder task: once a day it mails
// every confirmed reservation of the following day.
type Reminder struct {
	reservations reminderReservations
	restaurants  reminderRestaurants
	notifier     *service.NotificationService
	logger       *zap.Logger
	stopChan     chan struct{}
}

func NewReminder(reservations reminderReservations, restaurants reminderRestaurants, notifier *service.NotificationService, logger *zap.Logger) *Reminder {
	return &Reminder{
		reservations: reservations,
		restaurants:  restaurants,
		notifier:     notifier,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

func (r *Reminder) Start(ctx context.Context) {
	r.logger.Info("Starting reminder scheduler")
	go r.run(ctx)
}

func (r *Reminder) Stop() {
	r.logger.Info("Stopping reminder scheduler")
	close(r.stopChan)
}

func (r *Reminder) run(ctx context.Context) {
	// First pass right away, then every 24 hours.
	r.sendReminders(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sendReminders(ctx)
		case <-r.stopChan:
			r.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			r.logger.Info("Reminder task cancelled")
			return
		}
	}
}

func (r *Reminder) sendReminders(ctx context.Context) {
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)

	reservations, err := r.reservations.ListConfirmedByDate(ctx, tomorrow)
	if err != nil {
		r.logger.Error("Failed to list reservations for reminders", zap.Error(err))
		return
	}

	restaurants := make(map[uuid.UUID]*model.Restaurant)
	sent := 0
	for _, res := range reservations {
		rest, ok := restaurants[res.RestaurantID]
		if !ok {
			rest, err = r.restaurants.GetByID(ctx, res.RestaurantID)
			if err != nil || rest == nil {
				r.logger.Error("Failed to load restaurant for reminder",
					zap.String("restaurant_id", res.RestaurantID.String()),
					zap.Error(err))
				continue
			}
			restaurants[res.RestaurantID] = rest
		}
		r.notifier.SendReminder(ctx, rest, res)
		sent++
	}

	r.logger.Info("Reminder pass completed",
		zap.String("date", tomorrow.Format("2006-01-02")),
		zap.Int("reminders", sent))
}
