// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes following domain-driven design
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidPeriod = "INVALID_PERIOD"

	// Business rule violations (422)
	CodeBusinessRule           = "BUSINESS_RULE_VIOLATION"
	CodeInvalidAllocation      = "INVALID_ALLOCATION"
	CodeNoTargets              = "NO_TARGETS"
	CodeDegenerateBasis        = "DEGENERATE_BASIS"
	CodeInsufficientEntities   = "INSUFFICIENT_ENTITIES"
	CodeInvalidTransition      = "INVALID_STATUS_TRANSITION"
	CodeEntryPosted            = "ENTRY_ALREADY_POSTED"
	CodePenOverAllocated       = "PEN_OVER_ALLOCATED"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"

	// Internal invariant failures. Reaching this code indicates a defect,
	// not a recoverable user-facing condition.
	CodeReconciliationMismatch = "RECONCILIATION_MISMATCH"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the platform.
// It implements the error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, amounts, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidPeriod is returned when a reporting period ends before it starts.
func NewInvalidPeriod(start, end string) *AppError {
	return &AppError{
		Code:       CodeInvalidPeriod,
		Message:    "period end must not be before period start",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"periodStart": start, "periodEnd": end},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, entityID any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": entityID},
	}
}

// NewBusinessRule creates a business rule violation error (422)
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInvalidAllocation is returned for malformed allocation requests
// (non-positive total amount, inconsistent lines).
func NewInvalidAllocation(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidAllocation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewNoTargets is returned when an allocation has no target lots.
func NewNoTargets() *AppError {
	return &AppError{
		Code:       CodeNoTargets,
		Message:    "allocation requires at least one target lot",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewDegenerateBasis is returned when the allocation basis sums to zero
// (e.g. every target lot has zero heads).
func NewDegenerateBasis(method string) *AppError {
	return &AppError{
		Code:       CodeDegenerateBasis,
		Message:    "allocation basis sums to zero for all targets",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"method": method},
	}
}

// NewInsufficientEntities is returned when a comparison has fewer than two entities.
func NewInsufficientEntities(got int) *AppError {
	return &AppError{
		Code:       CodeInsufficientEntities,
		Message:    "comparison requires at least two entities",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"got": got},
	}
}

// NewInvalidTransition is returned for backward or skipped status transitions.
func NewInvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:       CodeInvalidTransition,
		Message:    fmt.Sprintf("cannot transition from %s to %s", from, to),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"from": from, "to": to},
	}
}

// NewReconciliationMismatch signals that allocated amounts do not sum to the
// total after the largest-remainder correction. Unreachable in correct code.
func NewReconciliationMismatch(expected, got string) *AppError {
	return &AppError{
		Code:       CodeReconciliationMismatch,
		Message:    "allocated amounts do not reconcile to total",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"expected": expected, "got": got},
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, entityID any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": entityID},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns the appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsCode checks whether err carries the given application error code.
func IsCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
