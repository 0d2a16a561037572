package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	domainRepos "leadmarket.backend/internal/domain/repositories"
	"leadmarket.backend/pkg/logger"
	"leadmarket.backend/pkg/utils"
)

// CreditLedgerUsecase manages contractor credit balances. Every balance
// change is paired with an append-only CreditTransaction row in the same
// transaction; the balance never goes negative.
type CreditLedgerUsecase struct {
	contractorRepo domainRepos.ContractorRepository
	creditTxRepo   domainRepos.CreditTransactionRepository
	auditRepo      domainRepos.AuditLogRepository
	uow            domainRepos.UnitOfWork
}

func NewCreditLedgerUsecase(
	contractorRepo domainRepos.ContractorRepository,
	creditTxRepo domainRepos.CreditTransactionRepository,
	auditRepo domainRepos.AuditLogRepository,
	uow domainRepos.UnitOfWork,
) *CreditLedgerUsecase {
	return &CreditLedgerUsecase{
		contractorRepo: contractorRepo,
		creditTxRepo:   creditTxRepo,
		auditRepo:      auditRepo,
		uow:            uow,
	}
}

// Debit atomically decrements the contractor's balance and appends a
// DEDUCTION entry. The balance guard lives in the UPDATE itself, so two
// concurrent debits cannot drive the balance negative. Joins an ambient
// transaction when one is in scope.
func (uc *CreditLedgerUsecase) Debit(ctx context.Context, contractorID uuid.UUID, amount int64, description string) error {
	if amount <= 0 {
		return domainerrors.BadRequest("debit amount must be positive")
	}

	return uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.contractorRepo.DebitBalance(txCtx, contractorID, amount); err != nil {
			return err
		}
		return uc.creditTxRepo.Create(txCtx, &entities.CreditTransaction{
			ID:           utils.GenerateUUIDv7(),
			ContractorID: contractorID,
			Type:         entities.CreditTransactionDeduction,
			Amount:       amount,
			Description:  description,
			CreatedAt:    time.Now(),
		})
	})
}

// Credit atomically increments the balance and appends an ADDITION entry.
// It never fails on business grounds.
func (uc *CreditLedgerUsecase) Credit(ctx context.Context, contractorID uuid.UUID, amount int64, reason string) error {
	if amount <= 0 {
		return domainerrors.BadRequest("credit amount must be positive")
	}

	return uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.contractorRepo.CreditBalance(txCtx, contractorID, amount); err != nil {
			return err
		}
		return uc.creditTxRepo.Create(txCtx, &entities.CreditTransaction{
			ID:           utils.GenerateUUIDv7(),
			ContractorID: contractorID,
			Type:         entities.CreditTransactionAddition,
			Amount:       amount,
			Description:  reason,
			CreatedAt:    time.Now(),
		})
	})
}

// AdjustCredits applies an admin-initiated signed delta with a full audit
// entry recording before/after balance and the initiating actor.
func (uc *CreditLedgerUsecase) AdjustCredits(ctx context.Context, actorID, contractorID uuid.UUID, delta int64, reason string) error {
	if delta == 0 {
		return domainerrors.BadRequest("adjustment delta must be non-zero")
	}
	if reason == "" {
		return domainerrors.BadRequest("adjustment reason is required")
	}

	return uc.uow.Do(ctx, func(txCtx context.Context) error {
		contractor, err := uc.contractorRepo.GetByID(txCtx, contractorID)
		if err != nil {
			return domainerrors.NotFound("contractor not found")
		}
		before := contractor.CreditsBalance

		if delta > 0 {
			if err := uc.contractorRepo.CreditBalance(txCtx, contractorID, delta); err != nil {
				return err
			}
		} else {
			if err := uc.contractorRepo.DebitBalance(txCtx, contractorID, -delta); err != nil {
				return err
			}
		}

		txType := entities.CreditTransactionAddition
		amount := delta
		if delta < 0 {
			txType = entities.CreditTransactionDeduction
			amount = -delta
		}
		if err := uc.creditTxRepo.Create(txCtx, &entities.CreditTransaction{
			ID:           utils.GenerateUUIDv7(),
			ContractorID: contractorID,
			Type:         txType,
			Amount:       amount,
			Description:  fmt.Sprintf("Admin adjustment: %s", reason),
			CreatedAt:    time.Now(),
		}); err != nil {
			return err
		}

		return uc.auditRepo.Create(txCtx, &entities.AuditLog{
			ID:          utils.GenerateUUIDv7(),
			ActorID:     actorID,
			Action:      entities.AuditActionCreditAdjustment,
			EntityType:  "contractor",
			EntityID:    contractorID,
			BeforeState: balanceState(before),
			AfterState:  balanceState(before + delta),
			Reason:      reason,
			CreatedAt:   time.Now(),
		})
	})
}

// ResetWeekly refills every eligible contractor's balance to their weekly
// limit, logging an ADDITION for the delta and stamping last_credit_reset.
// Triggered by the scheduled sweep job. Returns how many contractors were
// reset.
func (uc *CreditLedgerUsecase) ResetWeekly(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-CreditResetInterval)
	due, err := uc.contractorRepo.ListDueForReset(ctx, cutoff, OverdueSweepBatchSize)
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, contractor := range due {
		c := contractor
		err := uc.uow.Do(ctx, func(txCtx context.Context) error {
			now := time.Now()
			delta := c.WeeklyCreditsLimit - c.CreditsBalance
			// A contractor already at or above their limit keeps their
			// balance; only the reset timestamp moves. Lowering the balance
			// here would be a mutation with no ledger entry.
			if delta <= 0 {
				return uc.contractorRepo.ResetBalance(txCtx, c.ID, c.CreditsBalance, now)
			}
			if err := uc.contractorRepo.ResetBalance(txCtx, c.ID, c.WeeklyCreditsLimit, now); err != nil {
				return err
			}
			return uc.creditTxRepo.Create(txCtx, &entities.CreditTransaction{
				ID:           utils.GenerateUUIDv7(),
				ContractorID: c.ID,
				Type:         entities.CreditTransactionAddition,
				Amount:       delta,
				Description:  "Weekly credit reset",
				CreatedAt:    now,
			})
		})
		if err != nil {
			logger.Error(ctx, "weekly credit reset failed for contractor",
				zap.String("contractor_id", c.ID.String()), zap.Error(err))
			continue
		}
		reset++
	}
	return reset, nil
}

// History returns the contractor's ledger entries, newest first.
func (uc *CreditLedgerUsecase) History(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.CreditTransaction, int, error) {
	return uc.creditTxRepo.ListByContractor(ctx, contractorID, limit, offset)
}

// Reconcile checks that the live balance equals the signed sum of the
// contractor's ledger entries.
func (uc *CreditLedgerUsecase) Reconcile(ctx context.Context, contractorID uuid.UUID) (bool, error) {
	contractor, err := uc.contractorRepo.GetByID(ctx, contractorID)
	if err != nil {
		return false, err
	}
	sum, err := uc.creditTxRepo.SumByContractor(ctx, contractorID)
	if err != nil {
		return false, err
	}
	return contractor.CreditsBalance == sum, nil
}

func balanceState(balance int64) string {
	b, _ := json.Marshal(map[string]int64{"creditsBalance": balance})
	return string(b)
}
