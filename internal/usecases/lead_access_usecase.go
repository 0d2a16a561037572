package usecases

import (
	"context"
	"errors"
	"fmt"
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

// LeadAccessUsecase grants contractors visibility into full job details,
// enforcing the per-job capacity cap and exactly-once access per contractor.
// The capacity re-count and the access insert happen inside one transaction;
// the unique (job, contractor) index backstops races the count cannot see.
type LeadAccessUsecase struct {
	jobRepo        domainRepos.JobRepository
	accessRepo     domainRepos.JobAccessRepository
	leadPaymentRepo domainRepos.LeadPaymentRepository
	contractorRepo domainRepos.ContractorRepository
	pricing        *PricingUsecase
	creditLedger   *CreditLedgerUsecase
	gateway        services.PaymentGateway
	notifier       services.Notifier
	uow            domainRepos.UnitOfWork
}

func NewLeadAccessUsecase(
	jobRepo domainRepos.JobRepository,
	accessRepo domainRepos.JobAccessRepository,
	leadPaymentRepo domainRepos.LeadPaymentRepository,
	contractorRepo domainRepos.ContractorRepository,
	pricing *PricingUsecase,
	creditLedger *CreditLedgerUsecase,
	gateway services.PaymentGateway,
	notifier services.Notifier,
	uow domainRepos.UnitOfWork,
) *LeadAccessUsecase {
	return &LeadAccessUsecase{
		jobRepo:         jobRepo,
		accessRepo:      accessRepo,
		leadPaymentRepo: leadPaymentRepo,
		contractorRepo:  contractorRepo,
		pricing:         pricing,
		creditLedger:    creditLedger,
		gateway:         gateway,
		notifier:        notifier,
		uow:             uow,
	}
}

// GrantAccess gives a contractor access to a job's full details, debiting
// either money (gateway charge) or a subscription credit. Repeated calls for
// the same (job, contractor) return the existing row.
func (uc *LeadAccessUsecase) GrantAccess(ctx context.Context, jobID, contractorID uuid.UUID, method entities.AccessMethod) (*entities.JobAccess, error) {
	if method != entities.AccessMethodPayment && method != entities.AccessMethodCredit {
		return nil, domainerrors.BadRequest("invalid access method")
	}

	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, domainerrors.NotFound("job not found")
	}
	if !job.IsOpen() {
		return nil, domainerrors.Conflict("job is not open for lead access", domainerrors.ErrJobNotAvailable)
	}
	if _, err := uc.contractorRepo.GetByID(ctx, contractorID); err != nil {
		return nil, domainerrors.NotFound("contractor not found")
	}

	// Fast path: access already granted.
	if existing, err := uc.accessRepo.GetByJobAndContractor(ctx, jobID, contractorID); err == nil {
		return existing, nil
	}

	price, err := uc.pricing.leadPrice(ctx, job)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	// Capacity pre-check before touching the gateway. The authoritative
	// check runs again inside the transaction below.
	count, err := uc.accessRepo.CountByJob(ctx, jobID)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	if count >= int64(job.MaxContractors) {
		return nil, domainerrors.Conflict("job is fully subscribed", domainerrors.ErrCapacityExceeded)
	}

	var chargeID string
	if method == entities.AccessMethodPayment && price > 0 {
		// At-least-once external call; the key ties retries to the
		// logical operation so a crashed request can be replayed safely.
		chargeID, err = uc.gateway.Charge(ctx, services.ChargeRequest{
			AmountCents:    price,
			Currency:       Currency,
			Description:    fmt.Sprintf("Lead access for job %s", jobID),
			IdempotencyKey: leadChargeKey(jobID, contractorID),
			Metadata: map[string]string{
				"jobId":        jobID.String(),
				"contractorId": contractorID.String(),
			},
		})
		if err != nil {
			return nil, domainerrors.GatewayFailure(err)
		}
	}

	access := &entities.JobAccess{
		ID:           utils.GenerateUUIDv7(),
		JobID:        jobID,
		ContractorID: contractorID,
		AccessMethod: method,
		AccessedAt:   time.Now(),
	}
	if method == entities.AccessMethodPayment {
		access.PaidAmountCents = null.Int64From(price)
	}

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		// Re-verify status and capacity inside the transaction; two
		// contractors racing for the last slot must not both pass.
		lockedJob, err := uc.jobRepo.GetByIDLocked(txCtx, jobID)
		if err != nil {
			return domainerrors.NotFound("job not found")
		}
		if !lockedJob.IsOpen() {
			return domainerrors.Conflict("job is not open for lead access", domainerrors.ErrJobNotAvailable)
		}
		txCount, err := uc.accessRepo.CountByJob(txCtx, jobID)
		if err != nil {
			return err
		}
		if txCount >= int64(lockedJob.MaxContractors) {
			return domainerrors.Conflict("job is fully subscribed", domainerrors.ErrCapacityExceeded)
		}

		if method == entities.AccessMethodCredit && price > 0 {
			if err := uc.creditLedger.Debit(txCtx, contractorID, price, fmt.Sprintf("Lead access for job %s", jobID)); err != nil {
				if errors.Is(err, domainerrors.ErrInsufficientCredits) {
					return domainerrors.InsufficientCredits("credit balance does not cover the lead price")
				}
				return err
			}
		}

		if err := uc.accessRepo.Create(txCtx, access); err != nil {
			return err
		}

		if method == entities.AccessMethodPayment && price > 0 {
			return uc.leadPaymentRepo.Create(txCtx, &entities.LeadPayment{
				ID:           utils.GenerateUUIDv7(),
				JobID:        jobID,
				ContractorID: contractorID,
				ChargeID:     chargeID,
				AmountCents:  price,
				Status:       entities.LeadPaymentStatusCaptured,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		// A concurrent request for the same contractor won the unique
		// index; that request's row is this request's result.
		if errors.Is(err, domainerrors.ErrAlreadyHasAccess) {
			if existing, getErr := uc.accessRepo.GetByJobAndContractor(ctx, jobID, contractorID); getErr == nil {
				return existing, nil
			}
		}
		uc.releaseCharge(ctx, chargeID, price, jobID, contractorID)
		return nil, err
	}

	uc.notifier.Notify(ctx, services.Notification{
		RecipientID: contractorID,
		Event:       services.EventLeadPurchased,
		Payload: map[string]string{
			"jobId":  jobID.String(),
			"method": string(method),
		},
	})

	return access, nil
}

// CheckAccess reports whether the contractor holds a JobAccess row. This is
// the single source of truth for "can this contractor see full job details
// or apply".
func (uc *LeadAccessUsecase) CheckAccess(ctx context.Context, jobID, contractorID uuid.UUID) (bool, error) {
	_, err := uc.accessRepo.GetByJobAndContractor(ctx, jobID, contractorID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListJobAccesses returns every access row for a job.
func (uc *LeadAccessUsecase) ListJobAccesses(ctx context.Context, jobID uuid.UUID) ([]*entities.JobAccess, error) {
	return uc.accessRepo.ListByJob(ctx, jobID)
}

// releaseCharge refunds a captured lead charge whose access insert did not
// commit (capacity lost in the race). Best effort: the idempotent charge key
// also allows a clean retry if this refund fails.
func (uc *LeadAccessUsecase) releaseCharge(ctx context.Context, chargeID string, amount int64, jobID, contractorID uuid.UUID) {
	if chargeID == "" {
		return
	}
	_, err := uc.gateway.Refund(ctx, services.RefundRequest{
		ChargeID:       chargeID,
		AmountCents:    amount,
		Reason:         "lead access not granted",
		IdempotencyKey: fmt.Sprintf("release:%s", chargeID),
	})
	if err != nil {
		logger.Error(ctx, "failed to release lead charge",
			zap.String("charge_id", chargeID),
			zap.String("job_id", jobID.String()),
			zap.String("contractor_id", contractorID.String()),
			zap.Error(err))
	}
}

func leadChargeKey(jobID, contractorID uuid.UUID) string {
	return fmt.Sprintf("lead:%s:%s", jobID, contractorID)
}
