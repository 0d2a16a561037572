package entities

import (
	"time"

	"github.com/google/uuid"
)

// ServicePricing holds the platform's tiered lead prices. A job-level
// override beats all tiers; with no active pricing configured leads are free.
type ServicePricing struct {
	ID               uuid.UUID `json:"id"`
	SmallPriceCents  int64     `json:"smallPriceCents"`
	MediumPriceCents int64     `json:"mediumPriceCents"`
	LargePriceCents  int64     `json:"largePriceCents"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// TierPrice returns the configured price for a job size.
func (p *ServicePricing) TierPrice(size JobSize) int64 {
	switch size {
	case JobSizeSmall:
		return p.SmallPriceCents
	case JobSizeMedium:
		return p.MediumPriceCents
	case JobSizeLarge:
		return p.LargePriceCents
	}
	return 0
}
