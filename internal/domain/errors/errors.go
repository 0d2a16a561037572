package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrJobNotAvailable     = errors.New("job not available")
	ErrCapacityExceeded    = errors.New("job lead capacity exceeded")
	ErrAlreadyHasAccess    = errors.New("contractor already has access")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidTransition   = errors.New("invalid job status transition")
	ErrNotWinner           = errors.New("contractor is not the job winner")
	ErrCommissionSettled   = errors.New("commission already settled")
	ErrCommissionFinal     = errors.New("commission is in a terminal state")
	ErrRefundExceedsCharge = errors.New("refund exceeds remaining charge")
	ErrGatewayFailure      = errors.New("payment gateway failure")
)

// AppError represents an application error with HTTP status and a
// machine-readable code
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "ERR_NOT_FOUND", message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "ERR_VALIDATION", message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, "ERR_UNAUTHORIZED", message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, "ERR_FORBIDDEN", message, ErrForbidden)
}

// Conflict covers capacity, duplicate-access and wrong-status failures.
// These are always surfaced to the caller, never silently retried.
func Conflict(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, "ERR_CONFLICT", message, err)
}

// InsufficientCredits signals the CREDIT method failed on balance; the caller
// may fall back to the PAYMENT method.
func InsufficientCredits(message string) *AppError {
	return NewAppError(http.StatusPaymentRequired, "ERR_INSUFFICIENT_CREDITS", message, ErrInsufficientCredits)
}

// GatewayFailure wraps an external charge/refund failure. Local state that
// depended on the call must not be committed.
func GatewayFailure(err error) *AppError {
	return NewAppError(http.StatusBadGateway, "ERR_GATEWAY", "payment gateway failure", errors.Join(ErrGatewayFailure, err))
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "ERR_INTERNAL", "internal server error", err)
}
