package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	domainRepos "leadmarket.backend/internal/domain/repositories"
	"leadmarket.backend/pkg/utils"
)

// RegisterContractorInput represents input for creating a contractor profile
type RegisterContractorInput struct {
	BusinessName       string `json:"businessName" binding:"required"`
	WeeklyCreditsLimit int64  `json:"weeklyCreditsLimit"`
}

// ContractorUsecase manages contractor accounts.
type ContractorUsecase struct {
	contractorRepo domainRepos.ContractorRepository
	creditLedger   *CreditLedgerUsecase
}

func NewContractorUsecase(contractorRepo domainRepos.ContractorRepository, creditLedger *CreditLedgerUsecase) *ContractorUsecase {
	return &ContractorUsecase{
		contractorRepo: contractorRepo,
		creditLedger:   creditLedger,
	}
}

// Register creates the contractor profile for a user. A subscribed contractor
// starts with a full credit allowance; the weekly reset keeps it topped up.
func (uc *ContractorUsecase) Register(ctx context.Context, userID uuid.UUID, input *RegisterContractorInput) (*entities.Contractor, error) {
	if input.WeeklyCreditsLimit < 0 {
		return nil, domainerrors.BadRequest("weekly credits limit cannot be negative")
	}

	now := time.Now()
	contractor := &entities.Contractor{
		ID:                 utils.GenerateUUIDv7(),
		UserID:             userID,
		BusinessName:       input.BusinessName,
		CreditsBalance:     0,
		WeeklyCreditsLimit: input.WeeklyCreditsLimit,
		Status:             entities.ContractorStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.contractorRepo.Create(ctx, contractor); err != nil {
		if err == domainerrors.ErrAlreadyExists {
			return nil, domainerrors.Conflict("contractor profile already exists", err)
		}
		return nil, err
	}

	if input.WeeklyCreditsLimit > 0 {
		if err := uc.creditLedger.Credit(ctx, contractor.ID, input.WeeklyCreditsLimit, "initial credit allowance"); err != nil {
			return nil, err
		}
		contractor.CreditsBalance = input.WeeklyCreditsLimit
	}
	return contractor, nil
}

// GetByUser returns the contractor profile owned by a user.
func (uc *ContractorUsecase) GetByUser(ctx context.Context, userID uuid.UUID) (*entities.Contractor, error) {
	contractor, err := uc.contractorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, domainerrors.NotFound("contractor profile not found")
	}
	return contractor, nil
}

// Get returns a contractor by ID.
func (uc *ContractorUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.Contractor, error) {
	contractor, err := uc.contractorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domainerrors.NotFound("contractor not found")
	}
	return contractor, nil
}
