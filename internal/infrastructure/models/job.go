package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Job struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CustomerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Title             string    `gorm:"type:varchar(255);not null"`
	Description       string    `gorm:"type:text"`
	Status            string    `gorm:"type:varchar(50);not null;index"`
	JobSize           string    `gorm:"type:varchar(20);not null"`
	BudgetCents       *int64
	LeadPriceOverride *int64     `gorm:"column:lead_price_override_cents"`
	MaxContractors    int        `gorm:"not null"`
	WonByContractorID *uuid.UUID `gorm:"type:uuid;index"`
	FinalAmountCents  *int64
	StartDate         *time.Time
	CompletedAt       *time.Time
	CustomerConfirmed bool `gorm:"not null;default:false"`
	CommissionPaid    bool `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

type JobApplication struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	JobID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_applications_job_contractor"`
	ContractorID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_applications_job_contractor"`
	Status            string    `gorm:"type:varchar(20);not null;index"`
	ProposedRateCents int64     `gorm:"not null"`
	Message           string    `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
