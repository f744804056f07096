package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservafacil/backend/internal/model"
)

// CampaignService is the rudimentary marketing module: one-shot
// mailings to every past customer. No segmentation, no tracking.
type CampaignService struct {
	campaignStore    CampaignStore
	reservationStore ReservationStore
	provider         Provider
	logger           *zap.Logger
	now              func() time.Time
}

func NewCampaignService(campaignStore CampaignStore, reservationStore ReservationStore, provider Provider, logger *zap.Logger) *CampaignService {
	return &CampaignService{
		campaignStore:    campaignStore,
		reservationStore: reservationStore,
		provider:         provider,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *CampaignService) CreateCampaign(ctx context.Context, restaurantID uuid.UUID, subject, body string) (*model.Campaign, error) {
	var verr model.ValidationErrors
	if subject == "" {
		verr.Addf("subject is required")
	}
	if body == "" {
		verr.Addf("body is required")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	c := &model.Campaign{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Subject:      subject,
		Body:         body,
		Status:       model.CampaignDraft,
	}
	if err := s.campaignStore.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	s.logger.Info("Campaign created",
		zap.String("campaign_id", c.ID.String()),
		zap.String("subject", c.Subject))
	return c, nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context, restaurantID uuid.UUID) ([]*model.Campaign, error) {
	return s.campaignStore.ListByRestaurant(ctx, restaurantID)
}

// SendCampaign dispatches a draft to every distinct customer email
// from the restaurant's reservation history. Individual delivery
// failures are logged and skipped; the campaign still counts as sent.
func (s *CampaignService) SendCampaign(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	c, err := s.campaignStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.Status != model.CampaignDraft {
		var verr model.ValidationErrors
		verr.Addf("campaign is %s, only drafts can be sent", c.Status)
		return nil, verr.Err()
	}

	recipients, err := s.reservationStore.DistinctCustomerEmails(ctx, c.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}

	sent := 0
	for _, email := range recipients {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.provider.Send(ctx, email, c.Subject, c.Body); err != nil {
			s.logger.Error("Failed to send campaign email",
				zap.String("campaign_id", c.ID.String()),
				zap.String("recipient", email),
				zap.Error(err))
			continue
		}
		sent++
	}

	sentAt := s.now()
	if err := s.campaignStore.MarkSent(ctx, id, sent, sentAt); err != nil {
		return nil, fmt.Errorf("mark sent: %w", err)
	}
	c.Status = model.CampaignSent
	c.SentCount = sent
	c.SentAt = &sentAt

	s.logger.Info("Campaign sent",
		zap.String("campaign_id", c.ID.String()),
		zap.Int("recipients", len(recipients)),
		zap.Int("delivered", sent))
	return c, nil
}
