package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProviderGoogle = "GOOGLE"
	ProviderEmail  = "EMAIL"
)

type Account struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Provider   string    `json:"provider"`
	ProviderID string    `json:"provider_id"`
	CreatedAt  time.Time `json:"created_at"`
}
