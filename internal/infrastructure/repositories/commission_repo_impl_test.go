package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
)

func newPendingCommission(contractorID uuid.UUID, due time.Time) *entities.CommissionPayment {
	return &entities.CommissionPayment{
		ID:                  uuid.New(),
		JobID:               uuid.New(),
		ContractorID:        contractorID,
		CustomerID:          uuid.New(),
		FinalJobAmountCents: 100_000,
		CommissionRate:      5.0,
		CommissionCents:     5_000,
		TotalCents:          5_000,
		Status:              entities.CommissionStatusPending,
		DueDate:             due,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
}

func TestCommissionRepository_CreateAndUniquePerJob(t *testing.T) {
	db := newTestDB(t)
	createCommissionTables(t, db)
	repo := NewCommissionRepository(db)
	ctx := context.Background()

	c := newPendingCommission(uuid.New(), time.Now().Add(7*24*time.Hour))
	require.NoError(t, repo.Create(ctx, c))

	// second row for the same job must conflict on the unique index
	second := newPendingCommission(uuid.New(), time.Now())
	second.JobID = c.JobID
	err := repo.Create(ctx, second)
	require.ErrorIs(t, err, domainerrors.ErrCommissionSettled)

	byID, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.ID, byID.ID)

	byJob, err := repo.GetByJobID(ctx, c.JobID)
	require.NoError(t, err)
	require.Equal(t, c.ID, byJob.ID)
}

func TestCommissionRepository_SettlementIsTerminal(t *testing.T) {
	db := newTestDB(t)
	createCommissionTables(t, db)
	repo := NewCommissionRepository(db)
	ctx := context.Background()

	paid := newPendingCommission(uuid.New(), time.Now())
	require.NoError(t, repo.Create(ctx, paid))
	require.NoError(t, repo.MarkPaid(ctx, paid.ID, time.Now()))

	// PAID is terminal: neither a second payment nor a waive may land
	require.ErrorIs(t, repo.MarkPaid(ctx, paid.ID, time.Now()), domainerrors.ErrCommissionFinal)
	require.ErrorIs(t, repo.MarkWaived(ctx, paid.ID, "goodwill"), domainerrors.ErrCommissionFinal)

	waived := newPendingCommission(uuid.New(), time.Now())
	require.NoError(t, repo.Create(ctx, waived))
	require.NoError(t, repo.MarkWaived(ctx, waived.ID, "disputed job"))
	require.ErrorIs(t, repo.MarkPaid(ctx, waived.ID, time.Now()), domainerrors.ErrCommissionFinal)

	got, err := repo.GetByID(ctx, waived.ID)
	require.NoError(t, err)
	require.Equal(t, entities.CommissionStatusWaived, got.Status)
	require.Equal(t, "disputed job", got.WaivedReason.String)

	require.ErrorIs(t, repo.MarkPaid(ctx, uuid.New(), time.Now()), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.MarkWaived(ctx, uuid.New(), "x"), domainerrors.ErrNotFound)
}

func TestCommissionRepository_OverdueSweepFlow(t *testing.T) {
	db := newTestDB(t)
	createCommissionTables(t, db)
	repo := NewCommissionRepository(db)
	ctx := context.Background()

	contractor := uuid.New()
	pastDue := newPendingCommission(contractor, time.Now().Add(-48*time.Hour))
	notDue := newPendingCommission(contractor, time.Now().Add(48*time.Hour))
	alreadyPaid := newPendingCommission(contractor, time.Now().Add(-48*time.Hour))
	require.NoError(t, repo.Create(ctx, pastDue))
	require.NoError(t, repo.Create(ctx, notDue))
	require.NoError(t, repo.Create(ctx, alreadyPaid))
	require.NoError(t, repo.MarkPaid(ctx, alreadyPaid.ID, time.Now()))

	due, err := repo.ListPendingPastDue(ctx, time.Now(), 100)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, pastDue.ID, due[0].ID)

	require.NoError(t, repo.MarkOverdue(ctx, []uuid.UUID{pastDue.ID, alreadyPaid.ID}))
	require.NoError(t, repo.MarkOverdue(ctx, nil))

	got, err := repo.GetByID(ctx, pastDue.ID)
	require.NoError(t, err)
	require.Equal(t, entities.CommissionStatusOverdue, got.Status)

	// a settled row listed in the same sweep batch stays settled
	got, err = repo.GetByID(ctx, alreadyPaid.ID)
	require.NoError(t, err)
	require.Equal(t, entities.CommissionStatusPaid, got.Status)

	hasDebt, err := repo.HasOpenDebt(ctx, contractor, uuid.New())
	require.NoError(t, err)
	require.True(t, hasDebt)

	hasDebt, err = repo.HasOpenDebt(ctx, contractor, pastDue.ID)
	require.NoError(t, err)
	require.False(t, hasDebt)

	list, total, err := repo.ListByContractor(ctx, contractor, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, list, 3)
}

func TestCommissionRepository_DBErrorBranches(t *testing.T) {
	db := newTestDB(t)
	// intentionally skip table creation
	repo := NewCommissionRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	require.Error(t, err)
	_, err = repo.GetByJobID(ctx, uuid.New())
	require.Error(t, err)
	err = repo.Create(ctx, newPendingCommission(uuid.New(), time.Now()))
	require.Error(t, err)
	_, err = repo.ListPendingPastDue(ctx, time.Now(), 10)
	require.Error(t, err)
	_, err = repo.HasOpenDebt(ctx, uuid.New(), uuid.New())
	require.Error(t, err)
}

func TestInvoiceRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	createCommissionTables(t, db)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	inv := &entities.Invoice{
		ID:           uuid.New(),
		CommissionID: uuid.New(),
		JobID:        uuid.New(),
		ContractorID: uuid.New(),
		Number:       "INV-20260831-abcd1234",
		AmountCents:  5_000,
		Status:       entities.InvoiceStatusOpen,
		IssuedAt:     time.Now(),
	}
	require.NoError(t, repo.Create(ctx, inv))

	dup := &entities.Invoice{ID: uuid.New(), CommissionID: inv.CommissionID, JobID: uuid.New(), ContractorID: uuid.New(), Number: "INV-other", AmountCents: 1, Status: entities.InvoiceStatusOpen, IssuedAt: time.Now()}
	require.ErrorIs(t, repo.Create(ctx, dup), domainerrors.ErrAlreadyExists)

	got, err := repo.GetByCommissionID(ctx, inv.CommissionID)
	require.NoError(t, err)
	require.Equal(t, inv.Number, got.Number)

	require.NoError(t, repo.MarkPaid(ctx, inv.CommissionID, time.Now()))
	got, err = repo.GetByCommissionID(ctx, inv.CommissionID)
	require.NoError(t, err)
	require.Equal(t, entities.InvoiceStatusPaid, got.Status)
	require.NotNil(t, got.SettledAt)

	// settled invoices cannot be voided
	require.ErrorIs(t, repo.MarkVoid(ctx, inv.CommissionID), domainerrors.ErrNotFound)

	voidable := &entities.Invoice{ID: uuid.New(), CommissionID: uuid.New(), JobID: uuid.New(), ContractorID: uuid.New(), Number: "INV-void-1", AmountCents: 100, Status: entities.InvoiceStatusOpen, IssuedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, voidable))
	require.NoError(t, repo.MarkVoid(ctx, voidable.CommissionID))
	got, err = repo.GetByCommissionID(ctx, voidable.CommissionID)
	require.NoError(t, err)
	require.Equal(t, entities.InvoiceStatusVoid, got.Status)

	_, err = repo.GetByCommissionID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.MarkPaid(ctx, uuid.New(), time.Now()), domainerrors.ErrNotFound)
}
