package entities

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records a destructive or financial mutation with before/after
// state and the initiating actor. Every waive, override, refund and credit
// adjustment writes one; no mutation path is exempted.
type AuditLog struct {
	ID          uuid.UUID `json:"id"`
	ActorID     uuid.UUID `json:"actorId"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entityType"`
	EntityID    uuid.UUID `json:"entityId"`
	BeforeState string    `json:"beforeState,omitempty"`
	AfterState  string    `json:"afterState,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Audit actions
const (
	AuditActionCommissionWaived   = "COMMISSION_WAIVED"
	AuditActionCommissionOverride = "COMMISSION_MANUAL_OVERRIDE"
	AuditActionCommissionCharged  = "COMMISSION_CHARGED"
	AuditActionLeadRefund         = "LEAD_PAYMENT_REFUND"
	AuditActionCreditAdjustment   = "CREDIT_ADJUSTMENT"
	AuditActionWeeklyCreditReset  = "WEEKLY_CREDIT_RESET"
)
