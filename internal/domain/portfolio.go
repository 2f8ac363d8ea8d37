package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedPortfolio is a named snapshot of the calculator inputs.
type SavedPortfolio struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Assets        []Asset   `json:"assets"`
	NewMoney      float64   `json:"newMoney"`
	EnableSelling bool      `json:"enableSelling"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
