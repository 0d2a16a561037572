package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/infrastructure/models"
)

// JobApplicationRepository implements application data operations
type JobApplicationRepository struct {
	db *gorm.DB
}

// NewJobApplicationRepository creates a new job application repository
func NewJobApplicationRepository(db *gorm.DB) *JobApplicationRepository {
	return &JobApplicationRepository{db: db}
}

// Create inserts an application. The unique (job_id, contractor_id) index
// turns a second bid from the same contractor into ErrAlreadyExists.
func (r *JobApplicationRepository) Create(ctx context.Context, application *entities.JobApplication) error {
	db := GetDB(ctx, r.db)
	m := r.toModel(application)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	application.ID = m.ID
	return nil
}

// GetByJobAndContractor gets an application for a (job, contractor) pair
func (r *JobApplicationRepository) GetByJobAndContractor(ctx context.Context, jobID, contractorID uuid.UUID) (*entities.JobApplication, error) {
	var m models.JobApplication
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("job_id = ? AND contractor_id = ?", jobID, contractorID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// UpdateStatus updates an application's status
func (r *JobApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ApplicationStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.JobApplication{}).
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

// RejectOtherPending rejects every PENDING application on the job except the
// winner's in a single statement.
func (r *JobApplicationRepository) RejectOtherPending(ctx context.Context, jobID, winnerContractorID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Model(&models.JobApplication{}).
		Where("job_id = ? AND contractor_id != ? AND status = ?",
			jobID, winnerContractorID, entities.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.ApplicationStatusRejected,
			"updated_at": time.Now(),
		}).Error
}

// ListByJob lists every application on a job, oldest first
func (r *JobApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entities.JobApplication, error) {
	var ms []models.JobApplication
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	applications := make([]*entities.JobApplication, 0, len(ms))
	for i := range ms {
		applications = append(applications, r.toEntity(&ms[i]))
	}
	return applications, nil
}

func (r *JobApplicationRepository) toModel(a *entities.JobApplication) *models.JobApplication {
	return &models.JobApplication{
		ID:                a.ID,
		JobID:             a.JobID,
		ContractorID:      a.ContractorID,
		Status:            string(a.Status),
		ProposedRateCents: a.ProposedRateCents,
		Message:           a.Message,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func (r *JobApplicationRepository) toEntity(m *models.JobApplication) *entities.JobApplication {
	return &entities.JobApplication{
		ID:                m.ID,
		JobID:             m.JobID,
		ContractorID:      m.ContractorID,
		Status:            entities.ApplicationStatus(m.Status),
		ProposedRateCents: m.ProposedRateCents,
		Message:           m.Message,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
