package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	domainRepos "leadmarket.backend/internal/domain/repositories"
	"leadmarket.backend/internal/domain/services"
	"leadmarket.backend/pkg/utils"
)

// JobLifecycleUsecase governs job status transitions from posting through
// completion or cancellation, including winner selection and work-start
// confirmation.
type JobLifecycleUsecase struct {
	jobRepo    domainRepos.JobRepository
	accessRepo domainRepos.JobAccessRepository
	appRepo    domainRepos.JobApplicationRepository
	notifier   services.Notifier
	uow        domainRepos.UnitOfWork
}

func NewJobLifecycleUsecase(
	jobRepo domainRepos.JobRepository,
	accessRepo domainRepos.JobAccessRepository,
	appRepo domainRepos.JobApplicationRepository,
	notifier services.Notifier,
	uow domainRepos.UnitOfWork,
) *JobLifecycleUsecase {
	return &JobLifecycleUsecase{
		jobRepo:    jobRepo,
		accessRepo: accessRepo,
		appRepo:    appRepo,
		notifier:   notifier,
		uow:        uow,
	}
}

// CreateJob creates a job in DRAFT or POSTED state.
func (uc *JobLifecycleUsecase) CreateJob(ctx context.Context, customerID uuid.UUID, input *entities.CreateJobInput) (*entities.Job, error) {
	if input.Title == "" {
		return nil, domainerrors.BadRequest("title is required")
	}
	switch input.JobSize {
	case entities.JobSizeSmall, entities.JobSizeMedium, entities.JobSizeLarge:
	default:
		return nil, domainerrors.BadRequest("invalid job size")
	}

	maxContractors := input.MaxContractors
	if maxContractors <= 0 {
		maxContractors = DefaultMaxContractors
	}
	if maxContractors > MaxContractorsCeiling {
		maxContractors = MaxContractorsCeiling
	}

	status := entities.JobStatusPosted
	if input.Draft {
		status = entities.JobStatusDraft
	}

	job := &entities.Job{
		ID:                utils.GenerateUUIDv7(),
		CustomerID:        customerID,
		Title:             input.Title,
		Description:       input.Description,
		Status:            status,
		JobSize:           input.JobSize,
		BudgetCents:       null.Int64FromPtr(input.BudgetCents),
		LeadPriceOverride: null.Int64FromPtr(input.LeadPriceOverride),
		MaxContractors:    maxContractors,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := uc.jobRepo.Create(ctx, job); err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return job, nil
}

// PostJob publishes a DRAFT job.
func (uc *JobLifecycleUsecase) PostJob(ctx context.Context, jobID, customerID uuid.UUID) error {
	job, err := uc.ownedJob(ctx, jobID, customerID)
	if err != nil {
		return err
	}
	if job.Status != entities.JobStatusDraft {
		return domainerrors.Conflict("only draft jobs can be posted", domainerrors.ErrInvalidTransition)
	}
	return uc.jobRepo.UpdateStatus(ctx, jobID, entities.JobStatusPosted)
}

// Apply records a contractor's bid. Applying requires a JobAccess row; the
// unique (job, contractor) index rejects duplicates.
func (uc *JobLifecycleUsecase) Apply(ctx context.Context, jobID, contractorID uuid.UUID, proposedRateCents int64, message string) (*entities.JobApplication, error) {
	if proposedRateCents <= 0 {
		return nil, domainerrors.BadRequest("proposed rate must be positive")
	}

	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, domainerrors.NotFound("job not found")
	}
	if job.Status != entities.JobStatusPosted {
		return nil, domainerrors.Conflict("job is not accepting applications", domainerrors.ErrJobNotAvailable)
	}

	if _, err := uc.accessRepo.GetByJobAndContractor(ctx, jobID, contractorID); err != nil {
		return nil, domainerrors.Forbidden("purchase lead access before applying")
	}

	application := &entities.JobApplication{
		ID:                utils.GenerateUUIDv7(),
		JobID:             jobID,
		ContractorID:      contractorID,
		Status:            entities.ApplicationStatusPending,
		ProposedRateCents: proposedRateCents,
		Message:           message,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := uc.appRepo.Create(ctx, application); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("contractor already applied to this job", err)
		}
		return nil, domainerrors.InternalError(err)
	}
	return application, nil
}

// SelectWinner records the customer's choice. The winner must hold a
// JobAccess row; the job stays POSTED until work start is confirmed.
func (uc *JobLifecycleUsecase) SelectWinner(ctx context.Context, jobID, customerID, contractorID uuid.UUID) error {
	return uc.uow.Do(ctx, func(txCtx context.Context) error {
		job, err := uc.jobRepo.GetByIDLocked(txCtx, jobID)
		if err != nil {
			return domainerrors.NotFound("job not found")
		}
		if job.CustomerID != customerID {
			return domainerrors.Forbidden("job belongs to another customer")
		}
		if job.Status != entities.JobStatusPosted {
			return domainerrors.Conflict("winner can only be selected on a posted job", domainerrors.ErrInvalidTransition)
		}
		if _, err := uc.accessRepo.GetByJobAndContractor(txCtx, jobID, contractorID); err != nil {
			return domainerrors.Conflict("selected contractor has no access to this job", domainerrors.ErrNotWinner)
		}

		if err := uc.jobRepo.SetWinner(txCtx, jobID, contractorID); err != nil {
			return err
		}

		// Accept the winner's application if they submitted one.
		if application, err := uc.appRepo.GetByJobAndContractor(txCtx, jobID, contractorID); err == nil {
			if err := uc.appRepo.UpdateStatus(txCtx, application.ID, entities.ApplicationStatusAccepted); err != nil {
				return err
			}
		}
		return nil
	})
}

// ConfirmWorkStart moves the job to IN_PROGRESS, stamps the start date and
// rejects every other pending application in the same transaction.
func (uc *JobLifecycleUsecase) ConfirmWorkStart(ctx context.Context, jobID, customerID uuid.UUID) error {
	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		job, err := uc.jobRepo.GetByIDLocked(txCtx, jobID)
		if err != nil {
			return domainerrors.NotFound("job not found")
		}
		if job.CustomerID != customerID {
			return domainerrors.Forbidden("job belongs to another customer")
		}
		if job.Status != entities.JobStatusPosted {
			return domainerrors.Conflict("work start requires a posted job", domainerrors.ErrInvalidTransition)
		}
		if job.WonByContractorID == nil {
			return domainerrors.Conflict("select a winner before confirming work start", domainerrors.ErrInvalidTransition)
		}

		now := time.Now()
		job.Status = entities.JobStatusInProgress
		job.StartDate = &now
		job.UpdatedAt = now
		if err := uc.jobRepo.Update(txCtx, job); err != nil {
			return err
		}
		return uc.appRepo.RejectOtherPending(txCtx, jobID, *job.WonByContractorID)
	})
	if err != nil {
		return err
	}

	if job, getErr := uc.jobRepo.GetByID(ctx, jobID); getErr == nil && job.WonByContractorID != nil {
		uc.notifier.Notify(ctx, services.Notification{
			RecipientID: *job.WonByContractorID,
			Event:       services.EventWorkStarted,
			Payload:     map[string]string{"jobId": jobID.String()},
		})
	}
	return nil
}

// MarkCompleted lets the winning contractor assert completion with a final
// amount. This is contractor-asserted, not yet settled; settlement happens
// when the customer confirms.
func (uc *JobLifecycleUsecase) MarkCompleted(ctx context.Context, jobID, contractorID uuid.UUID, finalAmountCents int64) error {
	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		job, err := uc.jobRepo.GetByIDLocked(txCtx, jobID)
		if err != nil {
			return domainerrors.NotFound("job not found")
		}
		if job.WonByContractorID == nil || *job.WonByContractorID != contractorID {
			return domainerrors.Forbidden("only the winning contractor can mark completion")
		}
		if job.Status != entities.JobStatusInProgress {
			return domainerrors.Conflict("completion requires a job in progress", domainerrors.ErrInvalidTransition)
		}

		// Fall back to the customer-declared budget when the contractor
		// does not supply an agreed figure.
		if finalAmountCents <= 0 {
			if !job.BudgetCents.Valid || job.BudgetCents.Int64 <= 0 {
				return domainerrors.BadRequest("final amount is required")
			}
			finalAmountCents = job.BudgetCents.Int64
		}

		now := time.Now()
		job.Status = entities.JobStatusCompleted
		job.FinalAmountCents = null.Int64From(finalAmountCents)
		job.CompletedAt = &now
		job.UpdatedAt = now
		return uc.jobRepo.Update(txCtx, job)
	})
	if err != nil {
		return err
	}

	if job, getErr := uc.jobRepo.GetByID(ctx, jobID); getErr == nil {
		uc.notifier.Notify(ctx, services.Notification{
			RecipientID: job.CustomerID,
			Event:       services.EventJobCompleted,
			Payload:     map[string]string{"jobId": jobID.String()},
		})
	}
	return nil
}

// CancelJob cancels a job. COMPLETED jobs are never cancellable.
func (uc *JobLifecycleUsecase) CancelJob(ctx context.Context, jobID, customerID uuid.UUID) error {
	return uc.uow.Do(ctx, func(txCtx context.Context) error {
		job, err := uc.jobRepo.GetByIDLocked(txCtx, jobID)
		if err != nil {
			return domainerrors.NotFound("job not found")
		}
		if job.CustomerID != customerID {
			return domainerrors.Forbidden("job belongs to another customer")
		}
		if !job.CanCancel() {
			return domainerrors.Conflict("job can no longer be cancelled", domainerrors.ErrInvalidTransition)
		}
		return uc.jobRepo.UpdateStatus(txCtx, jobID, entities.JobStatusCancelled)
	})
}

// GetJob returns a job by ID.
func (uc *JobLifecycleUsecase) GetJob(ctx context.Context, jobID uuid.UUID) (*entities.Job, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, domainerrors.NotFound("job not found")
	}
	return job, nil
}

// ListOpenJobs lists DRAFT/POSTED jobs for contractor browsing.
func (uc *JobLifecycleUsecase) ListOpenJobs(ctx context.Context, limit, offset int) ([]*entities.Job, int, error) {
	return uc.jobRepo.ListOpen(ctx, limit, offset)
}

// ListCustomerJobs lists a customer's own jobs.
func (uc *JobLifecycleUsecase) ListCustomerJobs(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entities.Job, int, error) {
	return uc.jobRepo.ListByCustomer(ctx, customerID, limit, offset)
}

// ListApplications lists a job's applications for its owner.
func (uc *JobLifecycleUsecase) ListApplications(ctx context.Context, jobID, customerID uuid.UUID) ([]*entities.JobApplication, error) {
	job, err := uc.ownedJob(ctx, jobID, customerID)
	if err != nil {
		return nil, err
	}
	return uc.appRepo.ListByJob(ctx, job.ID)
}

func (uc *JobLifecycleUsecase) ownedJob(ctx context.Context, jobID, customerID uuid.UUID) (*entities.Job, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, domainerrors.NotFound("job not found")
	}
	if job.CustomerID != customerID {
		return nil, domainerrors.Forbidden("job belongs to another customer")
	}
	return job, nil
}
