package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/infrastructure/models"
)

// InvoiceRepository implements invoice data operations
type InvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create creates a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entities.Invoice) error {
	db := GetDB(ctx, r.db)
	m := &models.Invoice{
		ID:           invoice.ID,
		CommissionID: invoice.CommissionID,
		JobID:        invoice.JobID,
		ContractorID: invoice.ContractorID,
		Number:       invoice.Number,
		AmountCents:  invoice.AmountCents,
		Status:       string(invoice.Status),
		IssuedAt:     invoice.IssuedAt,
		SettledAt:    invoice.SettledAt,
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	invoice.ID = m.ID
	return nil
}

// GetByCommissionID gets the invoice issued for a commission
func (r *InvoiceRepository) GetByCommissionID(ctx context.Context, commissionID uuid.UUID) (*entities.Invoice, error) {
	var m models.Invoice
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("commission_id = ?", commissionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// MarkPaid settles the invoice issued for a commission
func (r *InvoiceRepository) MarkPaid(ctx context.Context, commissionID uuid.UUID, settledAt time.Time) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Invoice{}).
		Where("commission_id = ? AND status = ?", commissionID, entities.InvoiceStatusOpen).
		Updates(map[string]interface{}{
			"status":     entities.InvoiceStatusPaid,
			"settled_at": settledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkVoid voids the invoice issued for a commission
func (r *InvoiceRepository) MarkVoid(ctx context.Context, commissionID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Invoice{}).
		Where("commission_id = ? AND status = ?", commissionID, entities.InvoiceStatusOpen).
		Updates(map[string]interface{}{
			"status": entities.InvoiceStatusVoid,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepository) toEntity(m *models.Invoice) *entities.Invoice {
	return &entities.Invoice{
		ID:           m.ID,
		CommissionID: m.CommissionID,
		JobID:        m.JobID,
		ContractorID: m.ContractorID,
		Number:       m.Number,
		AmountCents:  m.AmountCents,
		Status:       entities.InvoiceStatus(m.Status),
		IssuedAt:     m.IssuedAt,
		SettledAt:    m.SettledAt,
	}
}
