package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
)

// ContractorRepository defines contractor account operations
type ContractorRepository interface {
	Create(ctx context.Context, contractor *entities.Contractor) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Contractor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Contractor, error)
	// DebitBalance decrements credits_balance only while the balance covers
	// the amount (the guard lives in the UPDATE itself); returns
	// ErrInsufficientCredits when no row qualified.
	DebitBalance(ctx context.Context, id uuid.UUID, amount int64) error
	CreditBalance(ctx context.Context, id uuid.UUID, amount int64) error
	// ResetBalance sets the balance to the weekly limit and stamps
	// last_credit_reset.
	ResetBalance(ctx context.Context, id uuid.UUID, balance int64, at time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ContractorStatus) error
	ListDueForReset(ctx context.Context, before time.Time, limit int) ([]*entities.Contractor, error)
}

// CreditTransactionRepository defines the append-only credit ledger
type CreditTransactionRepository interface {
	Create(ctx context.Context, tx *entities.CreditTransaction) error
	ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.CreditTransaction, int, error)
	// SumByContractor returns the signed sum of all entries, used to
	// reconcile against the live balance.
	SumByContractor(ctx context.Context, contractorID uuid.UUID) (int64, error)
}
