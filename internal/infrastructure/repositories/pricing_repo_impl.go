package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/infrastructure/models"
)

// ServicePricingRepository implements tiered lead pricing operations
type ServicePricingRepository struct {
	db *gorm.DB
}

// NewServicePricingRepository creates a new service pricing repository
func NewServicePricingRepository(db *gorm.DB) *ServicePricingRepository {
	return &ServicePricingRepository{db: db}
}

// GetActive gets the newest active pricing configuration
func (r *ServicePricingRepository) GetActive(ctx context.Context) (*entities.ServicePricing, error) {
	var m models.ServicePricing
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Upsert deactivates current pricing and inserts the new configuration, so
// pricing history stays queryable.
func (r *ServicePricingRepository) Upsert(ctx context.Context, pricing *entities.ServicePricing) error {
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ServicePricing{}).
			Where("active = ?", true).
			Updates(map[string]interface{}{
				"active":     false,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		m := &models.ServicePricing{
			ID:               pricing.ID,
			SmallPriceCents:  pricing.SmallPriceCents,
			MediumPriceCents: pricing.MediumPriceCents,
			LargePriceCents:  pricing.LargePriceCents,
			Active:           true,
			CreatedAt:        pricing.CreatedAt,
			UpdatedAt:        pricing.UpdatedAt,
		}
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		pricing.ID = m.ID
		pricing.Active = true
		return nil
	})
}

func (r *ServicePricingRepository) toEntity(m *models.ServicePricing) *entities.ServicePricing {
	return &entities.ServicePricing{
		ID:               m.ID,
		SmallPriceCents:  m.SmallPriceCents,
		MediumPriceCents: m.MediumPriceCents,
		LargePriceCents:  m.LargePriceCents,
		Active:           m.Active,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
