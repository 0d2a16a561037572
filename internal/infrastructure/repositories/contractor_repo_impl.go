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

// ContractorRepository implements contractor account operations
type ContractorRepository struct {
	db *gorm.DB
}

// NewContractorRepository creates a new contractor repository
func NewContractorRepository(db *gorm.DB) *ContractorRepository {
	return &ContractorRepository{db: db}
}

// Create creates a new contractor
func (r *ContractorRepository) Create(ctx context.Context, contractor *entities.Contractor) error {
	db := GetDB(ctx, r.db)
	m := r.toModel(contractor)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	contractor.ID = m.ID
	return nil
}

// GetByID gets a contractor by ID
func (r *ContractorRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Contractor, error) {
	var m models.Contractor
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserID gets a contractor by owning user
func (r *ContractorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Contractor, error) {
	var m models.Contractor
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// DebitBalance decrements the balance with the sufficiency guard inside the
// UPDATE's WHERE clause, so a concurrent debit can never push it negative.
func (r *ContractorRepository) DebitBalance(ctx context.Context, id uuid.UUID, amount int64) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Contractor{}).
		Where("id = ? AND credits_balance >= ?", id, amount).
		Updates(map[string]interface{}{
			"credits_balance": gorm.Expr("credits_balance - ?", amount),
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing contractor from a short balance.
		var count int64
		if err := db.WithContext(ctx).Model(&models.Contractor{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrInsufficientCredits
	}
	return nil
}

// CreditBalance increments the balance
func (r *ContractorRepository) CreditBalance(ctx context.Context, id uuid.UUID, amount int64) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Contractor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"credits_balance": gorm.Expr("credits_balance + ?", amount),
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ResetBalance sets the balance and stamps last_credit_reset
func (r *ContractorRepository) ResetBalance(ctx context.Context, id uuid.UUID, balance int64, at time.Time) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Contractor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"credits_balance":   balance,
			"last_credit_reset": at,
			"updated_at":        at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateStatus updates the contractor's account standing
func (r *ContractorRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ContractorStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Contractor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListDueForReset lists contractors whose weekly reset is due
func (r *ContractorRepository) ListDueForReset(ctx context.Context, before time.Time, limit int) ([]*entities.Contractor, error) {
	var ms []models.Contractor
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("weekly_credits_limit > 0").
		Where("last_credit_reset IS NULL OR last_credit_reset < ?", before).
		Order("last_credit_reset ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	contractors := make([]*entities.Contractor, 0, len(ms))
	for i := range ms {
		contractors = append(contractors, r.toEntity(&ms[i]))
	}
	return contractors, nil
}

func (r *ContractorRepository) toModel(c *entities.Contractor) *models.Contractor {
	return &models.Contractor{
		ID:                 c.ID,
		UserID:             c.UserID,
		BusinessName:       c.BusinessName,
		CreditsBalance:     c.CreditsBalance,
		WeeklyCreditsLimit: c.WeeklyCreditsLimit,
		LastCreditReset:    c.LastCreditReset,
		Status:             string(c.Status),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (r *ContractorRepository) toEntity(m *models.Contractor) *entities.Contractor {
	return &entities.Contractor{
		ID:                 m.ID,
		UserID:             m.UserID,
		BusinessName:       m.BusinessName,
		CreditsBalance:     m.CreditsBalance,
		WeeklyCreditsLimit: m.WeeklyCreditsLimit,
		LastCreditReset:    m.LastCreditReset,
		Status:             entities.ContractorStatus(m.Status),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
