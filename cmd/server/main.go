package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/reservafacil/backend/internal/app"
	"github.com/reservafacil/backend/internal/config"
	"github.com/reservafacil/backend/internal/httpapi"
	"github.com/reservafacil/backend/internal/repository"
	"github.com/reservafacil/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting reservation server",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	reservationRepo := repository.NewReservationRepository(pool)
	tableRepo := repository.NewTableRepository(pool)
	zoneRepo := repository.NewZoneRepository(pool)
	restaurantRepo := repository.NewRestaurantRepository(pool)
	campaignRepo := repository.NewCampaignRepository(pool)

	provider := service.NewProvider(cfg.EmailProvider, logger)
	notifier := service.NewNotificationService(provider, logger)

	availabilitySvc := service.NewAvailabilityService(restaurantRepo, reservationRepo, logger)
	reservationSvc := service.NewReservationService(restaurantRepo, reservationRepo, notifier, logger)
	assignmentSvc := service.NewAssignmentService(reservationRepo, tableRepo, logger)
	floorSvc := service.NewFloorService(tableRepo, zoneRepo, restaurantRepo, logger)
	campaignSvc := service.NewCampaignService(campaignRepo, reservationRepo, provider, logger)

	reminder := app.NewReminder(reservationRepo, restaurantRepo, notifier, logger)
	reminder.Start(ctx)
	defer reminder.Stop()

	handler := httpapi.NewHandler(availabilitySvc, reservationSvc, assignmentSvc, floorSvc, campaignSvc, logger)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		logger.Fatal("HTTP server failed", zap.Error(err))
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
