package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Contractor struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	BusinessName       string    `gorm:"type:varchar(255);not null"`
	CreditsBalance     int64     `gorm:"not null;default:0"`
	WeeklyCreditsLimit int64     `gorm:"not null;default:0"`
	LastCreditReset    *time.Time
	Status             string `gorm:"type:varchar(20);not null;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

type CreditTransaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ContractorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type         string    `gorm:"type:varchar(20);not null"`
	Amount       int64     `gorm:"not null"`
	Description  string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index"`
}
