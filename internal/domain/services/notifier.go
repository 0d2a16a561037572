package services

import (
	"context"

	"github.com/google/uuid"
)

// Notification events
const (
	EventLeadPurchased     = "LEAD_PURCHASED"
	EventWinnerSelected    = "WINNER_SELECTED"
	EventWorkStarted       = "WORK_STARTED"
	EventJobCompleted      = "JOB_COMPLETED"
	EventCommissionDue     = "COMMISSION_DUE"
	EventCommissionOverdue = "COMMISSION_OVERDUE"
	EventCommissionWaived  = "COMMISSION_WAIVED"
	EventCommissionPaid    = "COMMISSION_PAID"
	EventLeadPaymentRefund = "LEAD_PAYMENT_REFUNDED"
	EventAccountSuspended  = "ACCOUNT_SUSPENDED"
	EventAccountReinstated = "ACCOUNT_REINSTATED"
)

// Notification is a fire-and-forget message to a user.
type Notification struct {
	RecipientID uuid.UUID
	Event       string
	Payload     map[string]string
}

// Notifier dispatches notifications. Implementations must be best-effort:
// a failed dispatch is logged and swallowed, never propagated into the
// caller's transaction.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
