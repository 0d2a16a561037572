package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	domainRepos "leadmarket.backend/internal/domain/repositories"
)

// ResolveLeadPrice computes the lead price for a job. A positive per-job
// override wins unconditionally; otherwise the tier price for the job size
// applies. With no active pricing configured the lead is free — a degraded
// state, not an error.
func ResolveLeadPrice(job *entities.Job, pricing *entities.ServicePricing) int64 {
	if job.LeadPriceOverride.Valid && job.LeadPriceOverride.Int64 > 0 {
		return job.LeadPriceOverride.Int64
	}
	if pricing == nil || !pricing.Active {
		return 0
	}
	return pricing.TierPrice(job.JobSize)
}

// PricingUsecase resolves lead prices and manages the tier configuration
type PricingUsecase struct {
	pricingRepo domainRepos.ServicePricingRepository
	jobRepo     domainRepos.JobRepository
}

func NewPricingUsecase(pricingRepo domainRepos.ServicePricingRepository, jobRepo domainRepos.JobRepository) *PricingUsecase {
	return &PricingUsecase{pricingRepo: pricingRepo, jobRepo: jobRepo}
}

// LeadPriceForJob loads the active pricing and resolves the price for a job.
func (uc *PricingUsecase) LeadPriceForJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return 0, domainerrors.NotFound("job not found")
	}
	return uc.leadPrice(ctx, job)
}

func (uc *PricingUsecase) leadPrice(ctx context.Context, job *entities.Job) (int64, error) {
	pricing, err := uc.pricingRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return ResolveLeadPrice(job, nil), nil
		}
		return 0, err
	}
	return ResolveLeadPrice(job, pricing), nil
}

// GetActive returns the active tier configuration.
func (uc *PricingUsecase) GetActive(ctx context.Context) (*entities.ServicePricing, error) {
	pricing, err := uc.pricingRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("no active pricing configured")
		}
		return nil, err
	}
	return pricing, nil
}

// UpdatePricing replaces the active tier configuration.
func (uc *PricingUsecase) UpdatePricing(ctx context.Context, pricing *entities.ServicePricing) error {
	if pricing.SmallPriceCents < 0 || pricing.MediumPriceCents < 0 || pricing.LargePriceCents < 0 {
		return domainerrors.BadRequest("tier prices must be non-negative")
	}
	return uc.pricingRepo.Upsert(ctx, pricing)
}
