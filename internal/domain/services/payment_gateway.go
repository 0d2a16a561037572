package services

import (
	"context"
)

// ChargeRequest describes a gateway charge. IdempotencyKey is derived from
// the logical operation (job+contractor for lead access, commission id for
// commission collection) so retries after a partial failure are safe.
type ChargeRequest struct {
	AmountCents    int64
	Currency       string
	Description    string
	IdempotencyKey string
	Metadata       map[string]string
}

// RefundRequest describes a refund against an earlier charge.
type RefundRequest struct {
	ChargeID       string
	AmountCents    int64
	Reason         string
	IdempotencyKey string
}

// PaymentGateway is the narrow contract to the external payment provider.
// Both calls are at-least-once; the gateway deduplicates on the idempotency
// key.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (chargeID string, err error)
	Refund(ctx context.Context, req RefundRequest) (refundID string, err error)
}
