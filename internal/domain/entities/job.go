package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// JobStatus represents job lifecycle status
type JobStatus string

const (
	JobStatusDraft      JobStatus = "DRAFT"
	JobStatusPosted     JobStatus = "POSTED"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusCancelled  JobStatus = "CANCELLED"
)

// JobSize buckets a job for tiered lead pricing
type JobSize string

const (
	JobSizeSmall  JobSize = "SMALL"
	JobSizeMedium JobSize = "MEDIUM"
	JobSizeLarge  JobSize = "LARGE"
)

// Job represents a customer-posted job
type Job struct {
	ID                 uuid.UUID  `json:"id"`
	CustomerID         uuid.UUID  `json:"customerId"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Status             JobStatus  `json:"status"`
	JobSize            JobSize    `json:"jobSize"`
	BudgetCents        null.Int64 `json:"budgetCents,omitempty"`
	LeadPriceOverride  null.Int64 `json:"leadPriceOverrideCents,omitempty"`
	MaxContractors     int        `json:"maxContractors"`
	WonByContractorID  *uuid.UUID `json:"wonByContractorId,omitempty"`
	FinalAmountCents   null.Int64 `json:"finalAmountCents,omitempty"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	CustomerConfirmed  bool       `json:"customerConfirmed"`
	CommissionPaid     bool       `json:"commissionPaid"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// IsOpen reports whether contractors may still buy access to this job.
func (j *Job) IsOpen() bool {
	return j.Status == JobStatusDraft || j.Status == JobStatusPosted
}

// CanCancel reports whether the job may transition to CANCELLED.
// COMPLETED jobs are settled or about to be settled and are never cancellable.
func (j *Job) CanCancel() bool {
	switch j.Status {
	case JobStatusDraft, JobStatusPosted, JobStatusInProgress:
		return true
	}
	return false
}

// CreateJobInput represents input for posting a job
type CreateJobInput struct {
	Title             string  `json:"title" binding:"required"`
	Description       string  `json:"description"`
	JobSize           JobSize `json:"jobSize" binding:"required"`
	BudgetCents       *int64  `json:"budgetCents,omitempty"`
	LeadPriceOverride *int64  `json:"leadPriceOverrideCents,omitempty"`
	MaxContractors    int     `json:"maxContractors"`
	Draft             bool    `json:"draft"`
}
