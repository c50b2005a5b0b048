package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInvalid            ErrorCode = "INVALID"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeInsufficientStock  ErrorCode = "INSUFFICIENT_STOCK"
	ErrCodeInsufficientCredit ErrorCode = "INSUFFICIENT_CREDIT"
	ErrCodeInactive           ErrorCode = "INACTIVE"
	ErrCodeCurrencyMismatch   ErrorCode = "CURRENCY_MISMATCH"
	ErrCodeCompensation       ErrorCode = "COMPENSATION_FAILED"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal           ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrProductNotFound    = NewError(ErrCodeNotFound, "product not found")
	ErrCustomerNotFound   = NewError(ErrCodeNotFound, "customer not found")
	ErrSaleNotFound       = NewError(ErrCodeNotFound, "sale not found")
	ErrInsufficientStock  = NewError(ErrCodeInsufficientStock, "insufficient stock")
	ErrInsufficientCredit = NewError(ErrCodeInsufficientCredit, "insufficient credit")
	ErrProductInactive    = NewError(ErrCodeInactive, "product is inactive")
	ErrVersionConflict    = NewError(ErrCodeConflict, "aggregate version conflict")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
	ErrEmptySale          = NewError(ErrCodeInvalid, "sale requires at least one item")
	ErrSaleNotDraft       = NewError(ErrCodeInvalid, "sale is no longer editable")
	ErrDuplicateRequest   = NewError(ErrCodeInvalid, "duplicate request")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// CodeOf extracts the domain classification of err, defaulting to internal.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return ErrCodeInternal
}
