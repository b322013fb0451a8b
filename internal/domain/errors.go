package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode identifies a class of domain failure.
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Editorial workflow errors
	CodeCardNotFound      ErrorCode = "CARD_NOT_FOUND"
	CodeBatchNotFound     ErrorCode = "BATCH_NOT_FOUND"
	CodeApprovalBlocked   ErrorCode = "APPROVAL_BLOCKED"
	CodePublishBlocked    ErrorCode = "PUBLISH_BLOCKED"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// Session errors
	CodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	CodeInvalidStep     ErrorCode = "INVALID_STEP"

	// Generation errors
	CodeLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
)

// DomainError carries an error code, a human-readable message, an optional
// cause and optional structured context for the HTTP error envelope.
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewCardNotFoundError(cardID string) *DomainError {
	return NewError(CodeCardNotFound, fmt.Sprintf("Card not found with ID: %s", cardID), nil)
}

func NewBatchNotFoundError(batchID string) *DomainError {
	return NewError(CodeBatchNotFound, fmt.Sprintf("Batch not found with ID: %s", batchID), nil)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Session not found with ID: %s", sessionID), nil)
}

// NewApprovalBlockedError reports a failed readiness checklist. The checklist
// is attached as context so clients can render which gates are still open.
func NewApprovalBlockedError(checklist ApprovalChecklist) *DomainError {
	return &DomainError{
		Code:    CodeApprovalBlocked,
		Message: "Card does not meet the approval readiness checklist",
		Context: map[string]interface{}{"checklist": checklist},
	}
}

func NewPublishBlockedError(message string) *DomainError {
	return NewError(CodePublishBlocked, message, nil)
}

func NewInvalidTransitionError(from, to CardStatus) *DomainError {
	return NewError(CodeInvalidTransition,
		fmt.Sprintf("Cannot transition card from %s to %s", from, to), nil)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", cause)
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates per-field validation failures for one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s (and %d more)", e[0].Error(), len(e)-1)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeInvalidFormat,
		Message: fmt.Sprintf("%s has an invalid format: %s", field, value),
	}
}

func NewOutOfRangeError(field string, got, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %d and %d, got %d", field, min, max, got),
	}
}
