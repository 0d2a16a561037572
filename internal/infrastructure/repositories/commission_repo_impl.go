package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/infrastructure/models"
)

// CommissionRepository implements commission settlement data operations
type CommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a new commission repository
func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// Create inserts a commission row. The unique job_id index turns a racing
// second settlement into ErrCommissionSettled.
func (r *CommissionRepository) Create(ctx context.Context, commission *entities.CommissionPayment) error {
	db := GetDB(ctx, r.db)
	m := r.toModel(commission)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainerrors.ErrCommissionSettled
		}
		return err
	}
	commission.ID = m.ID
	return nil
}

// GetByID gets a commission by ID
func (r *CommissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CommissionPayment, error) {
	var m models.CommissionPayment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByJobID gets the commission for a job
func (r *CommissionRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*entities.CommissionPayment, error) {
	var m models.CommissionPayment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("job_id = ?", jobID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// MarkPaid transitions a settleable commission to PAID. The status guard in
// the WHERE clause keeps PAID and WAIVED terminal.
func (r *CommissionRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.CommissionPayment{}).
		Where("id = ? AND status IN ?", id, settleableStatuses()).
		Updates(map[string]interface{}{
			"status":     entities.CommissionStatusPaid,
			"paid_at":    paidAt,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.settleConflict(ctx, id)
	}
	return nil
}

// MarkWaived transitions a settleable commission to WAIVED
func (r *CommissionRepository) MarkWaived(ctx context.Context, id uuid.UUID, reason string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.CommissionPayment{}).
		Where("id = ? AND status IN ?", id, settleableStatuses()).
		Updates(map[string]interface{}{
			"status":        entities.CommissionStatusWaived,
			"waived_reason": reason,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.settleConflict(ctx, id)
	}
	return nil
}

// MarkOverdue flips PENDING rows to OVERDUE. Rows already settled between
// the listing and this update are left alone.
func (r *CommissionRepository) MarkOverdue(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Model(&models.CommissionPayment{}).
		Where("id IN ? AND status = ?", ids, entities.CommissionStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.CommissionStatusOverdue,
			"updated_at": time.Now(),
		}).Error
}

// ListPendingPastDue lists PENDING commissions whose due date has passed
func (r *CommissionRepository) ListPendingPastDue(ctx context.Context, now time.Time, limit int) ([]*entities.CommissionPayment, error) {
	var ms []models.CommissionPayment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("status = ? AND due_date < ?", entities.CommissionStatusPending, now).
		Order("due_date ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	commissions := make([]*entities.CommissionPayment, 0, len(ms))
	for i := range ms {
		commissions = append(commissions, r.toEntity(&ms[i]))
	}
	return commissions, nil
}

// ListByContractor lists a contractor's commissions with pagination
func (r *CommissionRepository) ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.CommissionPayment, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.CommissionPayment{}).
		Where("contractor_id = ?", contractorID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.CommissionPayment
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	commissions := make([]*entities.CommissionPayment, 0, len(ms))
	for i := range ms {
		commissions = append(commissions, r.toEntity(&ms[i]))
	}
	return commissions, int(total), nil
}

// HasOpenDebt reports whether the contractor has another OVERDUE commission
func (r *CommissionRepository) HasOpenDebt(ctx context.Context, contractorID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	var count int64
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Model(&models.CommissionPayment{}).
		Where("contractor_id = ? AND status = ? AND id != ?",
			contractorID, entities.CommissionStatusOverdue, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// settleConflict reports why a guarded settlement update matched no rows.
func (r *CommissionRepository) settleConflict(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	var count int64
	if err := db.WithContext(ctx).Model(&models.CommissionPayment{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return domainerrors.ErrCommissionFinal
}

func settleableStatuses() []string {
	return []string{
		string(entities.CommissionStatusPending),
		string(entities.CommissionStatusOverdue),
	}
}

func (r *CommissionRepository) toModel(c *entities.CommissionPayment) *models.CommissionPayment {
	return &models.CommissionPayment{
		ID:                  c.ID,
		JobID:               c.JobID,
		ContractorID:        c.ContractorID,
		CustomerID:          c.CustomerID,
		FinalJobAmountCents: c.FinalJobAmountCents,
		CommissionRate:      c.CommissionRate,
		CommissionCents:     c.CommissionCents,
		VatCents:            c.VatCents,
		TotalCents:          c.TotalCents,
		Status:              string(c.Status),
		DueDate:             c.DueDate,
		PaidAt:              c.PaidAt,
		WaivedReason:        c.WaivedReason.Ptr(),
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func (r *CommissionRepository) toEntity(m *models.CommissionPayment) *entities.CommissionPayment {
	return &entities.CommissionPayment{
		ID:                  m.ID,
		JobID:               m.JobID,
		ContractorID:        m.ContractorID,
		CustomerID:          m.CustomerID,
		FinalJobAmountCents: m.FinalJobAmountCents,
		CommissionRate:      m.CommissionRate,
		CommissionCents:     m.CommissionCents,
		VatCents:            m.VatCents,
		TotalCents:          m.TotalCents,
		Status:              entities.CommissionStatus(m.Status),
		DueDate:             m.DueDate,
		PaidAt:              m.PaidAt,
		WaivedReason:        null.StringFromPtr(m.WaivedReason),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
