package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// CommissionStatus represents commission payment status
type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "PENDING"
	CommissionStatusPaid    CommissionStatus = "PAID"
	CommissionStatusOverdue CommissionStatus = "OVERDUE"
	CommissionStatusWaived  CommissionStatus = "WAIVED"
)

// CommissionPayment is the platform's fee record for a settled job.
// Exactly one row exists per job, created only when the winning contractor
// accessed the lead with a credit. WAIVED is terminal.
type CommissionPayment struct {
	ID                  uuid.UUID        `json:"id"`
	JobID               uuid.UUID        `json:"jobId"`
	ContractorID        uuid.UUID        `json:"contractorId"`
	CustomerID          uuid.UUID        `json:"customerId"`
	FinalJobAmountCents int64            `json:"finalJobAmountCents"`
	CommissionRate      float64          `json:"commissionRate"`
	CommissionCents     int64            `json:"commissionAmountCents"`
	VatCents            int64            `json:"vatAmountCents"`
	TotalCents          int64            `json:"totalAmountCents"`
	Status              CommissionStatus `json:"status"`
	DueDate             time.Time        `json:"dueDate"`
	PaidAt              *time.Time       `json:"paidAt,omitempty"`
	WaivedReason        null.String      `json:"waivedReason,omitempty"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

// IsSettleable reports whether the commission can still move to PAID or WAIVED.
func (c *CommissionPayment) IsSettleable() bool {
	return c.Status == CommissionStatusPending || c.Status == CommissionStatusOverdue
}

// InvoiceStatus represents invoice status
type InvoiceStatus string

const (
	InvoiceStatusOpen InvoiceStatus = "OPEN"
	InvoiceStatusPaid InvoiceStatus = "PAID"
	InvoiceStatusVoid InvoiceStatus = "VOID"
)

// Invoice is the billing record created alongside a CommissionPayment.
type Invoice struct {
	ID           uuid.UUID     `json:"id"`
	CommissionID uuid.UUID     `json:"commissionId"`
	JobID        uuid.UUID     `json:"jobId"`
	ContractorID uuid.UUID     `json:"contractorId"`
	Number       string        `json:"number"`
	AmountCents  int64         `json:"amountCents"`
	Status       InvoiceStatus `json:"status"`
	IssuedAt     time.Time     `json:"issuedAt"`
	SettledAt    *time.Time    `json:"settledAt,omitempty"`
}
