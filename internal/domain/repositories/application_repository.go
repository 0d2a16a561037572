package repositories

import (
	"context"

	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
)

// JobApplicationRepository defines application data operations.
// (job_id, contractor_id) carries a unique constraint.
type JobApplicationRepository interface {
	Create(ctx context.Context, application *entities.JobApplication) error
	GetByJobAndContractor(ctx context.Context, jobID, contractorID uuid.UUID) (*entities.JobApplication, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ApplicationStatus) error
	// RejectOtherPending rejects every PENDING application on the job except
	// the winner's, in one statement, inside the caller's transaction.
	RejectOtherPending(ctx context.Context, jobID, winnerContractorID uuid.UUID) error
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entities.JobApplication, error)
}
