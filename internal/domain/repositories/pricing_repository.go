package repositories

import (
	"context"

	"leadmarket.backend/internal/domain/entities"
)

// ServicePricingRepository defines tiered lead pricing operations.
// GetActive returns ErrNotFound when no pricing is configured; callers treat
// that as free access, not a failure.
type ServicePricingRepository interface {
	GetActive(ctx context.Context) (*entities.ServicePricing, error)
	Upsert(ctx context.Context, pricing *entities.ServicePricing) error
}
