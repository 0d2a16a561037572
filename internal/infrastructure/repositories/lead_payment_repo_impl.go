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

// LeadPaymentRepository implements lead charge data operations
type LeadPaymentRepository struct {
	db *gorm.DB
}

// NewLeadPaymentRepository creates a new lead payment repository
func NewLeadPaymentRepository(db *gorm.DB) *LeadPaymentRepository {
	return &LeadPaymentRepository{db: db}
}

// Create records a captured gateway charge
func (r *LeadPaymentRepository) Create(ctx context.Context, payment *entities.LeadPayment) error {
	db := GetDB(ctx, r.db)
	m := &models.LeadPayment{
		ID:            payment.ID,
		JobID:         payment.JobID,
		ContractorID:  payment.ContractorID,
		ChargeID:      payment.ChargeID,
		AmountCents:   payment.AmountCents,
		RefundedCents: payment.RefundedCents,
		Status:        string(payment.Status),
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	payment.ID = m.ID
	return nil
}

// GetByID gets a lead payment by ID
func (r *LeadPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.LeadPayment, error) {
	var m models.LeadPayment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByJobAndContractor gets the charge behind a PAYMENT-method access
func (r *LeadPaymentRepository) GetByJobAndContractor(ctx context.Context, jobID, contractorID uuid.UUID) (*entities.LeadPayment, error) {
	var m models.LeadPayment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("job_id = ? AND contractor_id = ?", jobID, contractorID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ApplyRefund accumulates a refund and updates the payment status
func (r *LeadPaymentRepository) ApplyRefund(ctx context.Context, id uuid.UUID, amountCents int64, status entities.LeadPaymentStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.LeadPayment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"refunded_cents": gorm.Expr("refunded_cents + ?", amountCents),
			"status":         status,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *LeadPaymentRepository) toEntity(m *models.LeadPayment) *entities.LeadPayment {
	return &entities.LeadPayment{
		ID:            m.ID,
		JobID:         m.JobID,
		ContractorID:  m.ContractorID,
		ChargeID:      m.ChargeID,
		AmountCents:   m.AmountCents,
		RefundedCents: m.RefundedCents,
		Status:        entities.LeadPaymentStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
