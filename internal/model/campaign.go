package model

import (
	"time"

	"github.com/google/uuid"
)

type CampaignStatus string

const (
	CampaignDraft CampaignStatus = "draft"
	CampaignSent  CampaignStatus = "sent"
)

// Campaign is a one-shot mailing to past customers. No segmentation,
// no tracking; recipients are derived from reservation history at send
// time.
type Campaign struct {
	ID           uuid.UUID      `json:"id"`
	RestaurantID uuid.UUID      `json:"restaurant_id"`
	Subject      string         `json:"subject"`
	Body         string         `json:"body"`
	Status       CampaignStatus `json:"status"`
	SentCount    int            `json:"sent_count"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
