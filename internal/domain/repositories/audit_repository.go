package repositories

import (
	"context"

	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
)

// AuditLogRepository defines audit trail operations
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entities.AuditLog) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*entities.AuditLog, error)
}
