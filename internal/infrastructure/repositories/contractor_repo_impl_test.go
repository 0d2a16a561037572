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

func TestContractorRepository_CreateGetUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	createContractorTables(t, db)
	repo := NewContractorRepository(db)
	ctx := context.Background()

	c := &entities.Contractor{
		ID:                 uuid.New(),
		UserID:             uuid.New(),
		BusinessName:       "Nordic Plumbing",
		CreditsBalance:     10,
		WeeklyCreditsLimit: 10,
		Status:             entities.ContractorStatusActive,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	require.NoError(t, repo.Create(ctx, c))

	byID, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.ID, byID.ID)
	require.Equal(t, int64(10), byID.CreditsBalance)

	byUser, err := repo.GetByUserID(ctx, c.UserID)
	require.NoError(t, err)
	require.Equal(t, c.UserID, byUser.UserID)

	dup := &entities.Contractor{ID: uuid.New(), UserID: c.UserID, BusinessName: "dup", Status: entities.ContractorStatusActive}
	require.ErrorIs(t, repo.Create(ctx, dup), domainerrors.ErrAlreadyExists)

	require.NoError(t, repo.UpdateStatus(ctx, c.ID, entities.ContractorStatusSuspended))
	byID, err = repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ContractorStatusSuspended, byID.Status)
}

func TestContractorRepository_DebitGuardsBalance(t *testing.T) {
	db := newTestDB(t)
	createContractorTables(t, db)
	repo := NewContractorRepository(db)
	ctx := context.Background()

	c := &entities.Contractor{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		BusinessName:   "x",
		CreditsBalance: 3,
		Status:         entities.ContractorStatusActive,
	}
	require.NoError(t, repo.Create(ctx, c))

	require.NoError(t, repo.DebitBalance(ctx, c.ID, 2))

	// short balance surfaces as insufficient credits, never negative
	err := repo.DebitBalance(ctx, c.ID, 2)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientCredits)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.CreditsBalance)

	require.NoError(t, repo.CreditBalance(ctx, c.ID, 5))
	got, err = repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, int64(6), got.CreditsBalance)

	err = repo.DebitBalance(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	err = repo.CreditBalance(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestContractorRepository_ResetAndDueListing(t *testing.T) {
	db := newTestDB(t)
	createContractorTables(t, db)
	repo := NewContractorRepository(db)
	ctx := context.Background()

	now := time.Now()
	stale := now.Add(-8 * 24 * time.Hour)

	neverReset := &entities.Contractor{ID: uuid.New(), UserID: uuid.New(), BusinessName: "a", WeeklyCreditsLimit: 10, Status: entities.ContractorStatusActive}
	staleReset := &entities.Contractor{ID: uuid.New(), UserID: uuid.New(), BusinessName: "b", WeeklyCreditsLimit: 5, LastCreditReset: &stale, Status: entities.ContractorStatusActive}
	freshReset := &entities.Contractor{ID: uuid.New(), UserID: uuid.New(), BusinessName: "c", WeeklyCreditsLimit: 5, LastCreditReset: &now, Status: entities.ContractorStatusActive}
	noLimit := &entities.Contractor{ID: uuid.New(), UserID: uuid.New(), BusinessName: "d", WeeklyCreditsLimit: 0, LastCreditReset: &stale, Status: entities.ContractorStatusActive}
	for _, c := range []*entities.Contractor{neverReset, staleReset, freshReset, noLimit} {
		require.NoError(t, repo.Create(ctx, c))
	}

	due, err := repo.ListDueForReset(ctx, now.Add(-7*24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 2)

	require.NoError(t, repo.ResetBalance(ctx, staleReset.ID, 5, now))
	got, err := repo.GetByID(ctx, staleReset.ID)
	require.NoError(t, err)
	require.Equal(t, int64(5), got.CreditsBalance)
	require.NotNil(t, got.LastCreditReset)

	err = repo.ResetBalance(ctx, uuid.New(), 5, now)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestContractorRepository_DBErrorBranches(t *testing.T) {
	db := newTestDB(t)
	// intentionally skip table creation
	repo := NewContractorRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	require.Error(t, err)
	err = repo.DebitBalance(ctx, uuid.New(), 1)
	require.Error(t, err)
	_, err = repo.ListDueForReset(ctx, time.Now(), 10)
	require.Error(t, err)
}

func TestCreditTransactionRepository_LedgerAndSum(t *testing.T) {
	db := newTestDB(t)
	createContractorTables(t, db)
	repo := NewCreditTransactionRepository(db)
	ctx := context.Background()

	contractorID := uuid.New()

	sum, err := repo.SumByContractor(ctx, contractorID)
	require.NoError(t, err)
	require.Equal(t, int64(0), sum)

	entries := []*entities.CreditTransaction{
		{ID: uuid.New(), ContractorID: contractorID, Type: entities.CreditTransactionAddition, Amount: 10, Description: "weekly reset", CreatedAt: time.Now()},
		{ID: uuid.New(), ContractorID: contractorID, Type: entities.CreditTransactionDeduction, Amount: 1, Description: "lead access", CreatedAt: time.Now().Add(time.Second)},
		{ID: uuid.New(), ContractorID: contractorID, Type: entities.CreditTransactionDeduction, Amount: 2, Description: "lead access", CreatedAt: time.Now().Add(2 * time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Create(ctx, e))
	}
	// another contractor's entries must not leak into the sum
	require.NoError(t, repo.Create(ctx, &entities.CreditTransaction{
		ID: uuid.New(), ContractorID: uuid.New(), Type: entities.CreditTransactionAddition, Amount: 100, CreatedAt: time.Now(),
	}))

	sum, err = repo.SumByContractor(ctx, contractorID)
	require.NoError(t, err)
	require.Equal(t, int64(7), sum)

	list, total, err := repo.ListByContractor(ctx, contractorID, 2, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, list, 2)
	require.Equal(t, entities.CreditTransactionDeduction, list[0].Type)
}

func TestCreditTransactionRepository_DBErrorBranches(t *testing.T) {
	db := newTestDB(t)
	// intentionally skip table creation
	repo := NewCreditTransactionRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &entities.CreditTransaction{ID: uuid.New(), ContractorID: uuid.New(), Type: entities.CreditTransactionAddition, Amount: 1})
	require.Error(t, err)
	_, _, err = repo.ListByContractor(ctx, uuid.New(), 10, 0)
	require.Error(t, err)
	_, err = repo.SumByContractor(ctx, uuid.New())
	require.Error(t, err)
}
