// Package domainerrors provides coded domain errors.
//
// Services return these so transports can map a stable machine-readable code
// to a status without inspecting error strings. Stores return sentinel errors
// (pkg/platform/sentinel); services translate them into coded errors at the
// boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a category of domain failure. Codes are part of the public
// API surface: they appear in HTTP error envelopes and in batch results.
type Code string

// Generic codes shared by every module.
const (
	CodeInternal           Code = "internal"
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeInvariantViolation Code = "invariant_violation"
)

// Registrar codes. Each public operation returns success or exactly one of
// these; there is no in-core retry or recovery.
const (
	CodeEmptyLabel      Code = "empty_label"
	CodeLabelTooLong    Code = "label_too_long"
	CodeInvalidLabel    Code = "invalid_label"
	CodeNameTaken       Code = "name_taken"
	CodeNameNotFound    Code = "name_not_found"
	CodeNameExpired     Code = "name_expired"
	CodeInGracePeriod   Code = "in_grace_period"
	CodeTransferToSelf  Code = "transfer_to_self"
	CodeNotOwner        Code = "not_owner"
	CodeNotNameOwner    Code = "not_name_owner"
	CodeNotAdmin        Code = "not_admin"
	CodeZeroFee         Code = "zero_fee"
	CodePercentTooHigh  Code = "percent_too_high"
	CodePaymentFailed   Code = "payment_failed"
	CodeResolverInvalid Code = "resolver_invalid"
)

// Error is a coded domain error. It optionally wraps a cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error with a message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability in handlers.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the outermost code, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to an HTTP status for the JSON error envelope.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeEmptyLabel, CodeLabelTooLong, CodeInvalidLabel,
		CodeZeroFee, CodePercentTooHigh,
		CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNameNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeNameTaken, CodeTransferToSelf, CodeConflict, CodeInvariantViolation:
		return http.StatusConflict
	case CodeNameExpired, CodeInGracePeriod:
		return http.StatusGone
	case CodeNotOwner, CodeNotNameOwner, CodeForbidden:
		return http.StatusForbidden
	case CodeNotAdmin, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodePaymentFailed:
		return http.StatusPaymentRequired
	case CodeResolverInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
