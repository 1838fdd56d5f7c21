// Package errors provides standardized error handling for the recommendation pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Extraction errors are recoverable via the keyword fallback and never
	// surface to the caller on their own.
	ErrCodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"

	// Compliance rejection is terminal: the session ends with a rejection
	// message and no manager is invoked.
	ErrCodeComplianceRejected ErrorCode = "COMPLIANCE_REJECTED"

	// Manager failures are contained to one manager's result slot.
	ErrCodeManagerFailed ErrorCode = "MANAGER_FAILED"

	// External collaborator outages; recoverable via a fallback path or a
	// degraded result. Timeouts are treated identically.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	ErrCodeSessionCancelled ErrorCode = "SESSION_CANCELLED"

	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewExtractionFailedError creates a retryable extraction error.
func NewExtractionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "Text extraction failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewComplianceRejectedError creates a non-retryable rejection for an
// unsupported jurisdiction or policy violation.
func NewComplianceRejectedError(jurisdiction, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeComplianceRejected,
		Message:   "Request rejected by compliance rules",
		Details:   fmt.Sprintf("jurisdiction: %s, reason: %s", jurisdiction, reason),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewManagerFailedError creates a contained manager error.
func NewManagerFailedError(manager string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeManagerFailed,
		Message:   "Card manager failed",
		Details:   fmt.Sprintf("manager: %s, error: %s", manager, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewServiceUnavailableError creates a retryable external-service error.
func NewServiceUnavailableError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceUnavailable,
		Message:   "External service unavailable",
		Details:   fmt.Sprintf("service: %s, error: %s", service, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionCancelledError marks a session aborted by its caller.
func NewSessionCancelledError(stage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionCancelled,
		Message:   "Session cancelled",
		Details:   fmt.Sprintf("stage: %s", stage),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the error code from an error chain, defaulting to
// SERVICE_UNAVAILABLE for unclassified errors.
func CodeOf(err error) ErrorCode {
	if se, ok := err.(*StandardError); ok {
		return se.Code
	}
	return ErrCodeServiceUnavailable
}
