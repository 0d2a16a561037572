package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AccessMethod represents how a contractor paid for a lead
type AccessMethod string

const (
	AccessMethodPayment AccessMethod = "PAYMENT"
	AccessMethodCredit  AccessMethod = "CREDIT"
)

// JobAccess grants a contractor visibility into a job's full details.
// At most one row exists per (job, contractor); rows are never updated
// or deleted in normal flow.
type JobAccess struct {
	ID              uuid.UUID    `json:"id"`
	JobID           uuid.UUID    `json:"jobId"`
	ContractorID    uuid.UUID    `json:"contractorId"`
	AccessMethod    AccessMethod `json:"accessMethod"`
	PaidAmountCents null.Int64   `json:"paidAmountCents,omitempty"`
	AccessedAt      time.Time    `json:"accessedAt"`
}

// LeadPaymentStatus represents the state of an upfront lead charge
type LeadPaymentStatus string

const (
	LeadPaymentStatusCaptured LeadPaymentStatus = "CAPTURED"
	LeadPaymentStatusRefunded LeadPaymentStatus = "REFUNDED"
)

// LeadPayment records the gateway charge behind a PAYMENT-method access.
// Refunds are tracked cumulatively and capped at AmountCents.
type LeadPayment struct {
	ID            uuid.UUID         `json:"id"`
	JobID         uuid.UUID         `json:"jobId"`
	ContractorID  uuid.UUID         `json:"contractorId"`
	ChargeID      string            `json:"chargeId"`
	AmountCents   int64             `json:"amountCents"`
	RefundedCents int64             `json:"refundedCents"`
	Status        LeadPaymentStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// RefundableCents returns how much of the original charge can still be refunded.
func (p *LeadPayment) RefundableCents() int64 {
	return p.AmountCents - p.RefundedCents
}
