package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/domain/services"
)

// HTTPGateway talks to the external payment provider over its REST API.
// Charges and refunds carry an Idempotency-Key header so the provider
// deduplicates retries.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway creates a payment gateway client
func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type chargeRequestBody struct {
	AmountCents int64             `json:"amountCents"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type refundRequestBody struct {
	ChargeID    string `json:"chargeId"`
	AmountCents int64  `json:"amountCents"`
	Reason      string `json:"reason,omitempty"`
}

type gatewayResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Charge captures a payment
func (g *HTTPGateway) Charge(ctx context.Context, req services.ChargeRequest) (string, error) {
	body := chargeRequestBody{
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Description: req.Description,
		Metadata:    req.Metadata,
	}
	return g.post(ctx, "/v1/charges", req.IdempotencyKey, body)
}

// Refund returns part or all of an earlier charge
func (g *HTTPGateway) Refund(ctx context.Context, req services.RefundRequest) (string, error) {
	body := refundRequestBody{
		ChargeID:    req.ChargeID,
		AmountCents: req.AmountCents,
		Reason:      req.Reason,
	}
	return g.post(ctx, "/v1/refunds", req.IdempotencyKey, body)
}

func (g *HTTPGateway) post(ctx context.Context, path, idempotencyKey string, body interface{}) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", domainerrors.GatewayFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", domainerrors.GatewayFailure(err)
	}

	var out gatewayResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", domainerrors.GatewayFailure(fmt.Errorf("decode gateway response (status %d): %w", resp.StatusCode, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domainerrors.GatewayFailure(fmt.Errorf("gateway returned %d: %s", resp.StatusCode, out.Error))
	}
	if out.ID == "" {
		return "", domainerrors.GatewayFailure(fmt.Errorf("gateway response missing id (status %s)", out.Status))
	}
	return out.ID, nil
}
