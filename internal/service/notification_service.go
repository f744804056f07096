package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/reservafacil/backend/internal/model"
)

// Provider delivers one message to one recipient. Actual email
// transport lives behind this interface; the default just logs.
type Provider interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

func NewProvider(kind string, logger *zap.Logger) Provider {
	switch kind {
	case "", "log":
		return logProvider{logger: logger}
	case "noop":
		return noopProvider{}
	default:
		return webhookProvider{url: kind}
	}
}

type logProvider struct {
	logger *zap.Logger
}

func (p logProvider) Send(ctx context.Context, recipient, subject, body string) error {
	p.logger.Info("Email dispatched",
		zap.String("recipient", recipient),
		zap.String("subject", subject))
	return nil
}

type noopProvider struct{}

func (noopProvider) Send(ctx context.Context, recipient, subject, body string) error {
	return nil
}

type webhookProvider struct {
	url string
}

func (p webhookProvider) Send(ctx context.Context, recipient, subject, body string) error {
	payload, err := json.Marshal(map[string]string{
		"recipient": recipient,
		"subject":   subject,
		"body":      body,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New("notification webhook rejected request")
	}
	return nil
}

type NotificationService struct {
	provider Provider
	logger   *zap.Logger
}

func NewNotificationService(provider Provider, logger *zap.Logger) *NotificationService {
	return &NotificationService{provider: provider, logger: logger}
}

func confirmationMessage(rest *model.Restaurant, res *model.Reservation) (string, string) {
	subject := fmt.Sprintf("Reserva confirmada en %s", rest.Name)
	body := fmt.Sprintf(
		"Hola %s,\n\nTu reserva para %d personas el %s a las %s está confirmada.\n\n¡Te esperamos!\n%s",
		res.CustomerName, res.Guests, res.Date.Format("02/01/2006"), res.Time, rest.Name)
	return subject, body
}

func cancellationMessage(rest *model.Restaurant, res *model.Reservation) (string, string) {
	subject := fmt.Sprintf("Reserva cancelada en %s", rest.Name)
	body := fmt.Sprintf(
		"Hola %s,\n\nTu reserva del %s a las %s ha sido cancelada.\n\nEsperamos verte pronto.\n%s",
		res.CustomerName, res.Date.Format("02/01/2006"), res.Time, rest.Name)
	return subject, body
}

func reminderMessage(rest *model.Restaurant, res *model.Reservation) (string, string) {
	subject := fmt.Sprintf("Recordatorio de tu reserva en %s", rest.Name)
	body := fmt.Sprintf(
		"Hola %s,\n\nTe recordamos tu reserva para %d personas mañana %s a las %s.\n\n¡Hasta mañana!\n%s",
		res.CustomerName, res.Guests, res.Date.Format("02/01/2006"), res.Time, rest.Name)
	return subject, body
}

func (s *NotificationService) send(ctx context.Context, res *model.Reservation, subject, body string) {
	if res.CustomerEmail == "" {
		return
	}
	if err := s.provider.Send(ctx, res.CustomerEmail, subject, body); err != nil {
		// Notification failures never block the reservation flow.
		s.logger.Error("Failed to send notification",
			zap.String("reservation_id", res.ID.String()),
			zap.String("subject", subject),
			zap.Error(err))
	}
}

func (s *NotificationService) SendConfirmation(ctx context.Context, rest *model.Restaurant, res *model.Reservation) {
	subject, body := confirmationMessage(rest, res)
	s.send(ctx, res, subject, body)
}

func (s *NotificationService) SendCancellation(ctx context.Context, rest *model.Restaurant, res *model.Reservation) {
	subject, body := cancellationMessage(rest, res)
	s.send(ctx, res, subject, body)
}

func (s *NotificationService) SendReminder(ctx context.Context, rest *model.Restaurant, res *model.Reservation) {
	subject, body := reminderMessage(rest, res)
	s.send(ctx, res, subject, body)
}
