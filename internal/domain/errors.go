// Package domain holds the error taxonomy and value types shared by the
// adoption, pet and offer aggregates.
package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a DomainError for transport mapping.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeInvalidIdentifier ErrorCode = "INVALID_IDENTIFIER"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	CodeConflict          ErrorCode = "CONFLICT"
)

// StockShortage carries the quantities reported by an INSUFFICIENT_STOCK error.
type StockShortage struct {
	Requested int `json:"requested"`
	Available int `json:"available"`
}

// DomainError is an expected, caller-facing failure.
type DomainError struct {
	Code    ErrorCode
	Message string
	Stock   *StockShortage
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewValidationError reports malformed or missing caller input.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// NewInvalidIdentifierError reports an id that is not in the store's format.
func NewInvalidIdentifierError(entity, raw string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidIdentifier,
		Message: fmt.Sprintf("invalid %s id: %q", entity, raw),
	}
}

// NewNotFoundError reports a missing entity by id.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

// NewNotFoundMessage reports a missing resource with a custom message.
func NewNotFoundMessage(message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: message}
}

// NewInsufficientStockError reports a request for more units than a pet holds.
func NewInsufficientStockError(requested, available int) *DomainError {
	return &DomainError{
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("Insufficient quantity. Requested: %d, Available: %d", requested, available),
		Stock:   &StockShortage{Requested: requested, Available: available},
	}
}

// NewConflictError reports a write that lost against a concurrent change.
func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

// AsDomainError unwraps err to a *DomainError if there is one in the chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}

// IsNotFound reports whether err is a NOT_FOUND domain error.
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
