package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	domainRepos "leadmarket.backend/internal/domain/repositories"
	"leadmarket.backend/internal/domain/services"
	"leadmarket.backend/pkg/logger"
	"leadmarket.backend/pkg/utils"
)

// CommissionUsecase settles the platform fee once a customer confirms a
// completed job. Commission is owed only when the winning contractor's lead
// access consumed a credit; upfront payers owe nothing on the job.
type CommissionUsecase struct {
	jobRepo         domainRepos.JobRepository
	accessRepo      domainRepos.JobAccessRepository
	commissionRepo  domainRepos.CommissionRepository
	invoiceRepo     domainRepos.InvoiceRepository
	contractorRepo  domainRepos.ContractorRepository
	leadPaymentRepo domainRepos.LeadPaymentRepository
	auditRepo       domainRepos.AuditLogRepository
	gateway         services.PaymentGateway
	notifier        services.Notifier
	uow             domainRepos.UnitOfWork
	commissionRate  float64
	dueDays         int
}

func NewCommissionUsecase(
	jobRepo domainRepos.JobRepository,
	accessRepo domainRepos.JobAccessRepository,
	commissionRepo domainRepos.CommissionRepository,
	invoiceRepo domainRepos.InvoiceRepository,
	contractorRepo domainRepos.ContractorRepository,
	leadPaymentRepo domainRepos.LeadPaymentRepository,
	auditRepo domainRepos.AuditLogRepository,
	gateway services.PaymentGateway,
	notifier services.Notifier,
	uow domainRepos.UnitOfWork,
	commissionRate float64,
	dueDays int,
) *CommissionUsecase {
	if commissionRate <= 0 {
		commissionRate = DefaultCommissionRate
	}
	if dueDays <= 0 {
		dueDays = CommissionDueDays
	}
	return &CommissionUsecase{
		jobRepo:         jobRepo,
		accessRepo:      accessRepo,
		commissionRepo:  commissionRepo,
		invoiceRepo:     invoiceRepo,
		contractorRepo:  contractorRepo,
		leadPaymentRepo: leadPaymentRepo,
		auditRepo:       auditRepo,
		gateway:         gateway,
		notifier:        notifier,
		uow:             uow,
		commissionRate:  commissionRate,
		dueDays:         dueDays,
	}
}

// CommissionAmountCents computes the fee for a final job amount at the given
// percentage rate. The commission is VAT-inclusive by convention; no VAT is
// layered on top.
func CommissionAmountCents(finalAmountCents int64, rate float64) int64 {
	return int64(math.Round(float64(finalAmountCents) * rate / 100))
}

// ConfirmCompletion records the customer's confirmation and settles the
// commission in one transaction. The commission_paid guard is re-read and
// set inside the transaction, so retries or concurrent confirmations cannot
// create a second CommissionPayment. Returns the created commission, or nil
// when the winner paid upfront and owes none.
func (uc *CommissionUsecase) ConfirmCompletion(ctx context.Context, jobID, customerID uuid.UUID) (*entities.CommissionPayment, error) {
	var commission *entities.CommissionPayment
	var winnerID uuid.UUID

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		job, err := uc.jobRepo.GetByIDLocked(txCtx, jobID)
		if err != nil {
			return domainerrors.NotFound("job not found")
		}
		if job.CustomerID != customerID {
			return domainerrors.Forbidden("job belongs to another customer")
		}
		if job.Status != entities.JobStatusCompleted {
			return domainerrors.Conflict("job is not awaiting confirmation", domainerrors.ErrInvalidTransition)
		}
		if job.CustomerConfirmed || job.CommissionPaid {
			return domainerrors.Conflict("completion already confirmed", domainerrors.ErrCommissionSettled)
		}
		if !job.FinalAmountCents.Valid || job.FinalAmountCents.Int64 <= 0 {
			return domainerrors.BadRequest("job has no final amount")
		}
		if job.WonByContractorID == nil {
			return domainerrors.Conflict("job has no winning contractor", domainerrors.ErrInvalidTransition)
		}
		winnerID = *job.WonByContractorID

		access, err := uc.accessRepo.GetByJobAndContractor(txCtx, jobID, winnerID)
		if err != nil {
			return domainerrors.InternalError(fmt.Errorf("winner has no access row: %w", err))
		}

		job.CustomerConfirmed = true
		job.UpdatedAt = time.Now()
		if err := uc.jobRepo.Update(txCtx, job); err != nil {
			return err
		}

		// Upfront payers already paid for the lead; no commission ever.
		if access.AccessMethod != entities.AccessMethodCredit {
			return nil
		}

		now := time.Now()
		amount := CommissionAmountCents(job.FinalAmountCents.Int64, uc.commissionRate)
		commission = &entities.CommissionPayment{
			ID:                  utils.GenerateUUIDv7(),
			JobID:               jobID,
			ContractorID:        winnerID,
			CustomerID:          customerID,
			FinalJobAmountCents: job.FinalAmountCents.Int64,
			CommissionRate:      uc.commissionRate,
			CommissionCents:     amount,
			VatCents:            0,
			TotalCents:          amount,
			Status:              entities.CommissionStatusPending,
			DueDate:             now.AddDate(0, 0, uc.dueDays),
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := uc.commissionRepo.Create(txCtx, commission); err != nil {
			return err
		}
		if err := uc.invoiceRepo.Create(txCtx, &entities.Invoice{
			ID:           utils.GenerateUUIDv7(),
			CommissionID: commission.ID,
			JobID:        jobID,
			ContractorID: winnerID,
			Number:       invoiceNumber(now, commission.ID),
			AmountCents:  amount,
			Status:       entities.InvoiceStatusOpen,
			IssuedAt:     now,
		}); err != nil {
			return err
		}
		return uc.jobRepo.MarkCommissionPaid(txCtx, jobID)
	})
	if err != nil {
		return nil, err
	}

	if commission != nil {
		uc.notifier.Notify(ctx, services.Notification{
			RecipientID: winnerID,
			Event:       services.EventCommissionDue,
			Payload: map[string]string{
				"jobId":       jobID.String(),
				"amountCents": fmt.Sprintf("%d", commission.TotalCents),
				"dueDate":     commission.DueDate.Format(time.RFC3339),
			},
		})
	}
	return commission, nil
}

// Waive forgives a PENDING or OVERDUE commission. WAIVED is terminal and the
// job is never re-billed; a contractor suspended over this debt is
// reinstated unless other overdue commissions remain.
func (uc *CommissionUsecase) Waive(ctx context.Context, commissionID, actorID uuid.UUID, reason string) error {
	if reason == "" {
		return domainerrors.BadRequest("waive reason is required")
	}

	var contractorID uuid.UUID
	var reinstated bool
	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		commission, err := uc.commissionRepo.GetByID(txCtx, commissionID)
		if err != nil {
			return domainerrors.NotFound("commission not found")
		}
		if !commission.IsSettleable() {
			return domainerrors.Conflict("commission can no longer be waived", domainerrors.ErrCommissionFinal)
		}
		contractorID = commission.ContractorID
		before := snapshotJSON(commission)

		if err := uc.commissionRepo.MarkWaived(txCtx, commissionID, reason); err != nil {
			return err
		}
		if err := uc.invoiceRepo.MarkVoid(txCtx, commissionID); err != nil {
			return err
		}

		contractor, err := uc.contractorRepo.GetByID(txCtx, contractorID)
		if err != nil {
			return err
		}
		if contractor.Status == entities.ContractorStatusSuspended {
			openDebt, err := uc.commissionRepo.HasOpenDebt(txCtx, contractorID, commissionID)
			if err != nil {
				return err
			}
			if !openDebt {
				if err := uc.contractorRepo.UpdateStatus(txCtx, contractorID, entities.ContractorStatusActive); err != nil {
					return err
				}
				reinstated = true
			}
		}

		commission.Status = entities.CommissionStatusWaived
		commission.WaivedReason = null.StringFrom(reason)
		return uc.auditRepo.Create(txCtx, &entities.AuditLog{
			ID:          utils.GenerateUUIDv7(),
			ActorID:     actorID,
			Action:      entities.AuditActionCommissionWaived,
			EntityType:  "commission_payment",
			EntityID:    commissionID,
			BeforeState: before,
			AfterState:  snapshotJSON(commission),
			Reason:      reason,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return err
	}

	uc.notifier.Notify(ctx, services.Notification{
		RecipientID: contractorID,
		Event:       services.EventCommissionWaived,
		Payload:     map[string]string{"commissionId": commissionID.String()},
	})
	if reinstated {
		uc.notifier.Notify(ctx, services.Notification{
			RecipientID: contractorID,
			Event:       services.EventAccountReinstated,
			Payload:     map[string]string{"commissionId": commissionID.String()},
		})
	}
	return nil
}

// ManualOverridePaid marks a PENDING or OVERDUE commission PAID without a
// gateway transaction, recording the settlement for the audit trail.
func (uc *CommissionUsecase) ManualOverridePaid(ctx context.Context, commissionID, actorID uuid.UUID, reason string) error {
	if reason == "" {
		return domainerrors.BadRequest("override reason is required")
	}

	var contractorID uuid.UUID
	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		commission, err := uc.commissionRepo.GetByID(txCtx, commissionID)
		if err != nil {
			return domainerrors.NotFound("commission not found")
		}
		if !commission.IsSettleable() {
			return domainerrors.Conflict("commission can no longer be settled", domainerrors.ErrCommissionFinal)
		}
		contractorID = commission.ContractorID
		before := snapshotJSON(commission)

		now := time.Now()
		if err := uc.commissionRepo.MarkPaid(txCtx, commissionID, now); err != nil {
			return err
		}
		if err := uc.invoiceRepo.MarkPaid(txCtx, commissionID, now); err != nil {
			return err
		}
		if err := uc.reinstateIfClear(txCtx, contractorID, commissionID); err != nil {
			return err
		}

		commission.Status = entities.CommissionStatusPaid
		commission.PaidAt = &now
		return uc.auditRepo.Create(txCtx, &entities.AuditLog{
			ID:          utils.GenerateUUIDv7(),
			ActorID:     actorID,
			Action:      entities.AuditActionCommissionOverride,
			EntityType:  "commission_payment",
			EntityID:    commissionID,
			BeforeState: before,
			AfterState:  snapshotJSON(commission),
			Reason:      reason,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return err
	}

	uc.notifier.Notify(ctx, services.Notification{
		RecipientID: contractorID,
		Event:       services.EventCommissionPaid,
		Payload:     map[string]string{"commissionId": commissionID.String()},
	})
	return nil
}

// ChargeCommission collects a PENDING or OVERDUE commission through the
// gateway. The idempotency key is the commission id, so a retried collection
// cannot double-charge.
func (uc *CommissionUsecase) ChargeCommission(ctx context.Context, commissionID, actorID uuid.UUID) error {
	commission, err := uc.commissionRepo.GetByID(ctx, commissionID)
	if err != nil {
		return domainerrors.NotFound("commission not found")
	}
	if !commission.IsSettleable() {
		return domainerrors.Conflict("commission can no longer be settled", domainerrors.ErrCommissionFinal)
	}

	if _, err := uc.gateway.Charge(ctx, services.ChargeRequest{
		AmountCents:    commission.TotalCents,
		Currency:       Currency,
		Description:    fmt.Sprintf("Commission for job %s", commission.JobID),
		IdempotencyKey: fmt.Sprintf("commission:%s", commissionID),
		Metadata:       map[string]string{"commissionId": commissionID.String()},
	}); err != nil {
		return domainerrors.GatewayFailure(err)
	}

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := uc.commissionRepo.GetByID(txCtx, commissionID)
		if err != nil {
			return err
		}
		if !current.IsSettleable() {
			// Someone settled it between the charge and this commit; the
			// idempotent charge key makes the gateway side harmless.
			return domainerrors.Conflict("commission settled concurrently", domainerrors.ErrCommissionFinal)
		}
		before := snapshotJSON(current)

		now := time.Now()
		if err := uc.commissionRepo.MarkPaid(txCtx, commissionID, now); err != nil {
			return err
		}
		if err := uc.invoiceRepo.MarkPaid(txCtx, commissionID, now); err != nil {
			return err
		}
		if err := uc.reinstateIfClear(txCtx, current.ContractorID, commissionID); err != nil {
			return err
		}

		current.Status = entities.CommissionStatusPaid
		current.PaidAt = &now
		return uc.auditRepo.Create(txCtx, &entities.AuditLog{
			ID:          utils.GenerateUUIDv7(),
			ActorID:     actorID,
			Action:      entities.AuditActionCommissionCharged,
			EntityType:  "commission_payment",
			EntityID:    commissionID,
			BeforeState: before,
			AfterState:  snapshotJSON(current),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return err
	}

	uc.notifier.Notify(ctx, services.Notification{
		RecipientID: commission.ContractorID,
		Event:       services.EventCommissionPaid,
		Payload:     map[string]string{"commissionId": commissionID.String()},
	})
	return nil
}

// SweepOverdue transitions PENDING commissions past their due date to
// OVERDUE and suspends the owing contractors. Driven by the background
// sweep. Returns how many rows were transitioned.
func (uc *CommissionUsecase) SweepOverdue(ctx context.Context) (int, error) {
	pastDue, err := uc.commissionRepo.ListPendingPastDue(ctx, time.Now(), OverdueSweepBatchSize)
	if err != nil {
		return 0, err
	}
	if len(pastDue) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(pastDue))
	for _, c := range pastDue {
		ids = append(ids, c.ID)
	}

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.commissionRepo.MarkOverdue(txCtx, ids); err != nil {
			return err
		}
		for _, c := range pastDue {
			if err := uc.contractorRepo.UpdateStatus(txCtx, c.ContractorID, entities.ContractorStatusSuspended); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, c := range pastDue {
		uc.notifier.Notify(ctx, services.Notification{
			RecipientID: c.ContractorID,
			Event:       services.EventCommissionOverdue,
			Payload: map[string]string{
				"commissionId": c.ID.String(),
				"amountCents":  fmt.Sprintf("%d", c.TotalCents),
			},
		})
	}
	return len(pastDue), nil
}

// RefundLeadPayment refunds part or all of an upfront lead charge. Refunds
// are idempotent per (payment, amount) key and cumulatively capped at the
// original charge; a full refund marks the payment REFUNDED.
func (uc *CommissionUsecase) RefundLeadPayment(ctx context.Context, paymentID, actorID uuid.UUID, amountCents int64, reason string) (string, error) {
	if amountCents <= 0 {
		return "", domainerrors.BadRequest("refund amount must be positive")
	}
	if reason == "" {
		return "", domainerrors.BadRequest("refund reason is required")
	}

	var refundID string
	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		payment, err := uc.leadPaymentRepo.GetByID(txCtx, paymentID)
		if err != nil {
			return domainerrors.NotFound("lead payment not found")
		}
		if amountCents > payment.RefundableCents() {
			return domainerrors.Conflict("refund exceeds remaining charge", domainerrors.ErrRefundExceedsCharge)
		}
		before := snapshotJSON(payment)

		// Gateway call inside the transaction scope: if it fails nothing
		// local commits; if the commit fails the idempotency key makes the
		// retry safe.
		refundID, err = uc.gateway.Refund(txCtx, services.RefundRequest{
			ChargeID:       payment.ChargeID,
			AmountCents:    amountCents,
			Reason:         reason,
			IdempotencyKey: fmt.Sprintf("refund:%s:%d", paymentID, payment.RefundedCents+amountCents),
		})
		if err != nil {
			return domainerrors.GatewayFailure(err)
		}

		newRefunded := payment.RefundedCents + amountCents
		status := entities.LeadPaymentStatusCaptured
		if newRefunded == payment.AmountCents {
			status = entities.LeadPaymentStatusRefunded
		}
		if err := uc.leadPaymentRepo.ApplyRefund(txCtx, paymentID, amountCents, status); err != nil {
			return err
		}

		payment.RefundedCents = newRefunded
		payment.Status = status
		return uc.auditRepo.Create(txCtx, &entities.AuditLog{
			ID:          utils.GenerateUUIDv7(),
			ActorID:     actorID,
			Action:      entities.AuditActionLeadRefund,
			EntityType:  "lead_payment",
			EntityID:    paymentID,
			BeforeState: before,
			AfterState:  snapshotJSON(payment),
			Reason:      reason,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return "", err
	}

	if payment, getErr := uc.leadPaymentRepo.GetByID(ctx, paymentID); getErr == nil {
		uc.notifier.Notify(ctx, services.Notification{
			RecipientID: payment.ContractorID,
			Event:       services.EventLeadPaymentRefund,
			Payload: map[string]string{
				"paymentId":   paymentID.String(),
				"amountCents": fmt.Sprintf("%d", amountCents),
			},
		})
	}
	return refundID, nil
}

// GetByJob returns the commission for a job, if any.
func (uc *CommissionUsecase) GetByJob(ctx context.Context, jobID uuid.UUID) (*entities.CommissionPayment, error) {
	commission, err := uc.commissionRepo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, domainerrors.NotFound("commission not found")
	}
	return commission, nil
}

// ListByContractor lists a contractor's commissions.
func (uc *CommissionUsecase) ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.CommissionPayment, int, error) {
	return uc.commissionRepo.ListByContractor(ctx, contractorID, limit, offset)
}

// reinstateIfClear lifts a debt suspension once no overdue commission
// remains besides the one being settled.
func (uc *CommissionUsecase) reinstateIfClear(ctx context.Context, contractorID, settlingID uuid.UUID) error {
	contractor, err := uc.contractorRepo.GetByID(ctx, contractorID)
	if err != nil {
		return err
	}
	if contractor.Status != entities.ContractorStatusSuspended {
		return nil
	}
	openDebt, err := uc.commissionRepo.HasOpenDebt(ctx, contractorID, settlingID)
	if err != nil {
		return err
	}
	if openDebt {
		return nil
	}
	return uc.contractorRepo.UpdateStatus(ctx, contractorID, entities.ContractorStatusActive)
}

func snapshotJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Warn(context.Background(), "failed to snapshot audit state", zap.Error(err))
		return "{}"
	}
	return string(b)
}

func invoiceNumber(t time.Time, id uuid.UUID) string {
	return fmt.Sprintf("INV-%s-%s", t.Format("20060102"), id.String()[:8])
}
