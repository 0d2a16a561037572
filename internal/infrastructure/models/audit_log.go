package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ActorID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Action      string    `gorm:"type:varchar(50);not null;index"`
	EntityType  string    `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity"`
	EntityID    uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_logs_entity"`
	BeforeState string    `gorm:"type:jsonb"`
	AfterState  string    `gorm:"type:jsonb"`
	Reason      string    `gorm:"type:text"`
	CreatedAt   time.Time
}
