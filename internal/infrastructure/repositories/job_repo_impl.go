package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/infrastructure/models"
)

// JobRepository implements job data operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job
func (r *JobRepository) Create(ctx context.Context, job *entities.Job) error {
	db := GetDB(ctx, r.db)
	m := r.toModel(job)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	job.ID = m.ID
	return nil
}

// GetByID gets a job by ID
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	var m models.Job
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByIDLocked loads the job with a row lock inside the current transaction
// scope. The sqlite test driver has no FOR UPDATE; there the plain read is
// used and the single-connection in-memory DB serializes anyway.
func (r *JobRepository) GetByIDLocked(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	db := GetDB(ctx, r.db)
	query := db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m models.Job
	if err := query.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Update persists the full job row
func (r *JobRepository) Update(ctx context.Context, job *entities.Job) error {
	db := GetDB(ctx, r.db)
	m := r.toModel(job)
	result := db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"title":                    m.Title,
		"description":              m.Description,
		"status":                   m.Status,
		"job_size":                 m.JobSize,
		"budget_cents":             m.BudgetCents,
		"lead_price_override_cents": m.LeadPriceOverride,
		"max_contractors":          m.MaxContractors,
		"won_by_contractor_id":     m.WonByContractorID,
		"final_amount_cents":       m.FinalAmountCents,
		"start_date":               m.StartDate,
		"completed_at":             m.CompletedAt,
		"customer_confirmed":       m.CustomerConfirmed,
		"updated_at":               time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateStatus updates only the job status
func (r *JobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.JobStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetWinner records the winning contractor
func (r *JobRepository) SetWinner(ctx context.Context, id uuid.UUID, contractorID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"won_by_contractor_id": contractorID,
			"updated_at":           time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkCommissionPaid flips the commission_paid guard exactly once. The
// conditional WHERE makes a second settlement attempt visible as a conflict
// instead of a silent overwrite.
func (r *JobRepository) MarkCommissionPaid(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND commission_paid = ?", id, false).
		Updates(map[string]interface{}{
			"commission_paid": true,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCommissionSettled
	}
	return nil
}

// ListOpen lists DRAFT and POSTED jobs with pagination
func (r *JobRepository) ListOpen(ctx context.Context, limit, offset int) ([]*entities.Job, int, error) {
	openStatuses := []string{string(entities.JobStatusDraft), string(entities.JobStatusPosted)}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("status IN ?", openStatuses).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Job
	if err := r.db.WithContext(ctx).
		Where("status IN ?", openStatuses).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]*entities.Job, 0, len(ms))
	for i := range ms {
		jobs = append(jobs, r.toEntity(&ms[i]))
	}
	return jobs, int(total), nil
}

// ListByCustomer lists a customer's jobs with pagination
func (r *JobRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entities.Job, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Job
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]*entities.Job, 0, len(ms))
	for i := range ms {
		jobs = append(jobs, r.toEntity(&ms[i]))
	}
	return jobs, int(total), nil
}

func (r *JobRepository) toModel(job *entities.Job) *models.Job {
	return &models.Job{
		ID:                job.ID,
		CustomerID:        job.CustomerID,
		Title:             job.Title,
		Description:       job.Description,
		Status:            string(job.Status),
		JobSize:           string(job.JobSize),
		BudgetCents:       job.BudgetCents.Ptr(),
		LeadPriceOverride: job.LeadPriceOverride.Ptr(),
		MaxContractors:    job.MaxContractors,
		WonByContractorID: job.WonByContractorID,
		FinalAmountCents:  job.FinalAmountCents.Ptr(),
		StartDate:         job.StartDate,
		CompletedAt:       job.CompletedAt,
		CustomerConfirmed: job.CustomerConfirmed,
		CommissionPaid:    job.CommissionPaid,
		CreatedAt:         job.CreatedAt,
		UpdatedAt:         job.UpdatedAt,
	}
}

func (r *JobRepository) toEntity(m *models.Job) *entities.Job {
	return &entities.Job{
		ID:                m.ID,
		CustomerID:        m.CustomerID,
		Title:             m.Title,
		Description:       m.Description,
		Status:            entities.JobStatus(m.Status),
		JobSize:           entities.JobSize(m.JobSize),
		BudgetCents:       null.Int64FromPtr(m.BudgetCents),
		LeadPriceOverride: null.Int64FromPtr(m.LeadPriceOverride),
		MaxContractors:    m.MaxContractors,
		WonByContractorID: m.WonByContractorID,
		FinalAmountCents:  null.Int64FromPtr(m.FinalAmountCents),
		StartDate:         m.StartDate,
		CompletedAt:       m.CompletedAt,
		CustomerConfirmed: m.CustomerConfirmed,
		CommissionPaid:    m.CommissionPaid,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
