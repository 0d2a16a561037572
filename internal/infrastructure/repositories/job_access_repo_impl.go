package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/infrastructure/models"
)

// JobAccessRepository implements lead access data operations
type JobAccessRepository struct {
	db *gorm.DB
}

// NewJobAccessRepository creates a new job access repository
func NewJobAccessRepository(db *gorm.DB) *JobAccessRepository {
	return &JobAccessRepository{db: db}
}

// Create inserts an access row. The unique (job_id, contractor_id) index
// turns a racing duplicate into ErrAlreadyHasAccess.
func (r *JobAccessRepository) Create(ctx context.Context, access *entities.JobAccess) error {
	db := GetDB(ctx, r.db)
	m := &models.JobAccess{
		ID:              access.ID,
		JobID:           access.JobID,
		ContractorID:    access.ContractorID,
		AccessMethod:    string(access.AccessMethod),
		PaidAmountCents: access.PaidAmountCents.Ptr(),
		AccessedAt:      access.AccessedAt,
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainerrors.ErrAlreadyHasAccess
		}
		return err
	}
	access.ID = m.ID
	return nil
}

// GetByJobAndContractor gets the access row for a (job, contractor) pair
func (r *JobAccessRepository) GetByJobAndContractor(ctx context.Context, jobID, contractorID uuid.UUID) (*entities.JobAccess, error) {
	var m models.JobAccess
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

// CountByJob counts access rows for a job
func (r *JobAccessRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var count int64
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Model(&models.JobAccess{}).
		Where("job_id = ?", jobID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByJob lists every access row for a job
func (r *JobAccessRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entities.JobAccess, error) {
	var ms []models.JobAccess
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("accessed_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	accesses := make([]*entities.JobAccess, 0, len(ms))
	for i := range ms {
		accesses = append(accesses, r.toEntity(&ms[i]))
	}
	return accesses, nil
}

// ListByContractor lists a contractor's purchased leads with pagination
func (r *JobAccessRepository) ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.JobAccess, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.JobAccess{}).
		Where("contractor_id = ?", contractorID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.JobAccess
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("accessed_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	accesses := make([]*entities.JobAccess, 0, len(ms))
	for i := range ms {
		accesses = append(accesses, r.toEntity(&ms[i]))
	}
	return accesses, int(total), nil
}

func (r *JobAccessRepository) toEntity(m *models.JobAccess) *entities.JobAccess {
	return &entities.JobAccess{
		ID:              m.ID,
		JobID:           m.JobID,
		ContractorID:    m.ContractorID,
		AccessMethod:    entities.AccessMethod(m.AccessMethod),
		PaidAmountCents: null.Int64FromPtr(m.PaidAmountCents),
		AccessedAt:      m.AccessedAt,
	}
}
