package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"leadmarket.backend/internal/domain/entities"
	"leadmarket.backend/internal/infrastructure/models"
)

// AuditLogRepository implements the append-only audit trail
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create appends an audit entry
func (r *AuditLogRepository) Create(ctx context.Context, entry *entities.AuditLog) error {
	db := GetDB(ctx, r.db)
	m := &models.AuditLog{
		ID:          entry.ID,
		ActorID:     entry.ActorID,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		BeforeState: entry.BeforeState,
		AfterState:  entry.AfterState,
		Reason:      entry.Reason,
		CreatedAt:   entry.CreatedAt,
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	entry.ID = m.ID
	return nil
}

// ListByEntity lists the audit trail for one entity, oldest first
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*entities.AuditLog, error) {
	var ms []models.AuditLog
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	entries := make([]*entities.AuditLog, 0, len(ms))
	for i := range ms {
		m := ms[i]
		entries = append(entries, &entities.AuditLog{
			ID:          m.ID,
			ActorID:     m.ActorID,
			Action:      m.Action,
			EntityType:  m.EntityType,
			EntityID:    m.EntityID,
			BeforeState: m.BeforeState,
			AfterState:  m.AfterState,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt,
		})
	}
	return entries, nil
}
