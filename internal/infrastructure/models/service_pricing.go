package models

import (
	"time"

	"github.com/google/uuid"
)

type ServicePricing struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SmallPriceCents  int64     `gorm:"not null;default:0"`
	MediumPriceCents int64     `gorm:"not null;default:0"`
	LargePriceCents  int64     `gorm:"not null;default:0"`
	Active           bool      `gorm:"not null;default:true;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
