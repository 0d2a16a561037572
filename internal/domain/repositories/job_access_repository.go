package repositories

import (
	"context"

	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
)

// JobAccessRepository defines lead access data operations.
// (job_id, contractor_id) carries a unique constraint; Create surfaces
// ErrAlreadyHasAccess on violation.
type JobAccessRepository interface {
	Create(ctx context.Context, access *entities.JobAccess) error
	GetByJobAndContractor(ctx context.Context, jobID, contractorID uuid.UUID) (*entities.JobAccess, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entities.JobAccess, error)
	ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.JobAccess, int, error)
}

// LeadPaymentRepository defines lead charge data operations
type LeadPaymentRepository interface {
	Create(ctx context.Context, payment *entities.LeadPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.LeadPayment, error)
	GetByJobAndContractor(ctx context.Context, jobID, contractorID uuid.UUID) (*entities.LeadPayment, error)
	// ApplyRefund adds amount to refunded_cents and updates status; the
	// cap against the original charge is enforced by the caller inside
	// the same transaction.
	ApplyRefund(ctx context.Context, id uuid.UUID, amountCents int64, status entities.LeadPaymentStatus) error
}
