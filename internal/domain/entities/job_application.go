package entities

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents a job application's status
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusAccepted ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

// JobApplication is a contractor's bid on a job. At most one per
// (job, contractor); applying requires an existing JobAccess row.
type JobApplication struct {
	ID                uuid.UUID         `json:"id"`
	JobID             uuid.UUID         `json:"jobId"`
	ContractorID      uuid.UUID         `json:"contractorId"`
	Status            ApplicationStatus `json:"status"`
	ProposedRateCents int64             `json:"proposedRateCents"`
	Message           string            `json:"message,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}
