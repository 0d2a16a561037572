package models

import (
	"time"

	"github.com/google/uuid"
)

type JobAccess struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	JobID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_accesses_job_contractor"`
	ContractorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_accesses_job_contractor"`
	AccessMethod    string    `gorm:"type:varchar(20);not null"`
	PaidAmountCents *int64
	AccessedAt      time.Time `gorm:"not null"`
}

type LeadPayment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	JobID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ContractorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ChargeID      string    `gorm:"type:varchar(255);not null"`
	AmountCents   int64     `gorm:"not null"`
	RefundedCents int64     `gorm:"not null;default:0"`
	Status        string    `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
