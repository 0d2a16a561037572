package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"leadmarket.backend/internal/domain/entities"
	"leadmarket.backend/internal/infrastructure/models"
)

// CreditTransactionRepository implements the append-only credit ledger
type CreditTransactionRepository struct {
	db *gorm.DB
}

// NewCreditTransactionRepository creates a new credit transaction repository
func NewCreditTransactionRepository(db *gorm.DB) *CreditTransactionRepository {
	return &CreditTransactionRepository{db: db}
}

// Create appends a ledger entry. Entries are never updated or deleted.
func (r *CreditTransactionRepository) Create(ctx context.Context, tx *entities.CreditTransaction) error {
	db := GetDB(ctx, r.db)
	m := &models.CreditTransaction{
		ID:           tx.ID,
		ContractorID: tx.ContractorID,
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt,
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	tx.ID = m.ID
	return nil
}

// ListByContractor lists ledger entries, newest first
func (r *CreditTransactionRepository) ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.CreditTransaction, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.CreditTransaction{}).
		Where("contractor_id = ?", contractorID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.CreditTransaction
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	txs := make([]*entities.CreditTransaction, 0, len(ms))
	for i := range ms {
		m := ms[i]
		txs = append(txs, &entities.CreditTransaction{
			ID:           m.ID,
			ContractorID: m.ContractorID,
			Type:         entities.CreditTransactionType(m.Type),
			Amount:       m.Amount,
			Description:  m.Description,
			CreatedAt:    m.CreatedAt,
		})
	}
	return txs, int(total), nil
}

// SumByContractor returns the signed sum of the contractor's entries
func (r *CreditTransactionRepository) SumByContractor(ctx context.Context, contractorID uuid.UUID) (int64, error) {
	var sum *int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.CreditTransaction{}).
		Select("SUM(CASE WHEN type = ? THEN amount ELSE -amount END)", string(entities.CreditTransactionAddition)).
		Where("contractor_id = ?", contractorID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
