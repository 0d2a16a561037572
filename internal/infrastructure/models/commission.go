package models

import (
	"time"

	"github.com/google/uuid"
)

type CommissionPayment struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	JobID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ContractorID        uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID          uuid.UUID `gorm:"type:uuid;not null;index"`
	FinalJobAmountCents int64     `gorm:"not null"`
	CommissionRate      float64   `gorm:"not null"`
	CommissionCents     int64     `gorm:"column:commission_amount_cents;not null"`
	VatCents            int64     `gorm:"column:vat_amount_cents;not null;default:0"`
	TotalCents          int64     `gorm:"column:total_amount_cents;not null"`
	Status              string    `gorm:"type:varchar(20);not null;index"`
	DueDate             time.Time `gorm:"not null;index"`
	PaidAt              *time.Time
	WaivedReason        *string `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Invoice struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CommissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	JobID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ContractorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Number       string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	AmountCents  int64     `gorm:"not null"`
	Status       string    `gorm:"type:varchar(20);not null"`
	IssuedAt     time.Time `gorm:"not null"`
	SettledAt    *time.Time
}
