package repositories

import (
	"context"

	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
)

// JobRepository defines job data operations
type JobRepository interface {
	Create(ctx context.Context, job *entities.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Job, error)
	// GetByIDLocked loads the job with a row lock inside the current
	// transaction scope; used by settlement and winner selection so the
	// commission-paid and winner checks cannot race.
	GetByIDLocked(ctx context.Context, id uuid.UUID) (*entities.Job, error)
	Update(ctx context.Context, job *entities.Job) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.JobStatus) error
	SetWinner(ctx context.Context, id uuid.UUID, contractorID uuid.UUID) error
	// MarkCommissionPaid flips the commission_paid guard only when it is
	// still false; returns ErrCommissionSettled otherwise.
	MarkCommissionPaid(ctx context.Context, id uuid.UUID) error
	ListOpen(ctx context.Context, limit, offset int) ([]*entities.Job, int, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entities.Job, int, error)
}
