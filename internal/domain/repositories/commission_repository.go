package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
)

// CommissionRepository defines commission settlement data operations.
// job_id carries a unique constraint: at most one commission per job.
type CommissionRepository interface {
	Create(ctx context.Context, commission *entities.CommissionPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.CommissionPayment, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*entities.CommissionPayment, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error
	MarkWaived(ctx context.Context, id uuid.UUID, reason string) error
	// MarkOverdue transitions PENDING rows whose due date has passed.
	MarkOverdue(ctx context.Context, ids []uuid.UUID) error
	ListPendingPastDue(ctx context.Context, now time.Time, limit int) ([]*entities.CommissionPayment, error)
	ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.CommissionPayment, int, error)
	// HasOpenDebt reports whether the contractor still has an OVERDUE
	// commission besides the given one.
	HasOpenDebt(ctx context.Context, contractorID uuid.UUID, excludeID uuid.UUID) (bool, error)
}

// InvoiceRepository defines invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entities.Invoice) error
	GetByCommissionID(ctx context.Context, commissionID uuid.UUID) (*entities.Invoice, error)
	MarkPaid(ctx context.Context, commissionID uuid.UUID, settledAt time.Time) error
	MarkVoid(ctx context.Context, commissionID uuid.UUID) error
}
