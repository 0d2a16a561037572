package entities

import (
	"time"

	"github.com/google/uuid"
)

// ContractorStatus represents contractor account standing
type ContractorStatus string

const (
	ContractorStatusActive    ContractorStatus = "ACTIVE"
	ContractorStatusSuspended ContractorStatus = "SUSPENDED"
)

// Contractor represents a contractor account.
// CreditsBalance never goes negative; every change to it has a matching
// CreditTransaction row.
type Contractor struct {
	ID                 uuid.UUID        `json:"id"`
	UserID             uuid.UUID        `json:"userId"`
	BusinessName       string           `json:"businessName"`
	CreditsBalance     int64            `json:"creditsBalance"`
	WeeklyCreditsLimit int64            `json:"weeklyCreditsLimit"`
	LastCreditReset    *time.Time       `json:"lastCreditReset,omitempty"`
	Status             ContractorStatus `json:"status"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// CreditTransactionType represents the direction of a ledger entry
type CreditTransactionType string

const (
	CreditTransactionAddition  CreditTransactionType = "ADDITION"
	CreditTransactionDeduction CreditTransactionType = "DEDUCTION"
)

// CreditTransaction is an append-only ledger entry. The signed sum of a
// contractor's entries reconciles with their current balance.
type CreditTransaction struct {
	ID           uuid.UUID             `json:"id"`
	ContractorID uuid.UUID             `json:"contractorId"`
	Type         CreditTransactionType `json:"type"`
	Amount       int64                 `json:"amount"`
	Description  string                `json:"description"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// Signed returns the entry amount with its accounting sign applied.
func (t *CreditTransaction) Signed() int64 {
	if t.Type == CreditTransactionDeduction {
		return -t.Amount
	}
	return t.Amount
}
