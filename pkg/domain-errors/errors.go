// Package domainerrors defines the discrete failure kinds the ledger can
// produce. Every guarded transition reports one of these codes so callers
// and transports can branch on the kind without string matching.
package domainerrors

import "errors"

// Code identifies a domain failure kind.
type Code string

const (
	CodeNotAuthorized         Code = "NOT_AUTHORIZED"
	CodePolicyExists          Code = "POLICY_EXISTS"
	CodePolicyNotFound        Code = "POLICY_NOT_FOUND"
	CodeInsufficientPremium   Code = "INSUFFICIENT_PREMIUM"
	CodePolicyExpired         Code = "POLICY_EXPIRED"
	CodeInvalidClaim          Code = "INVALID_CLAIM"
	CodeClaimAlreadyProcessed Code = "CLAIM_ALREADY_PROCESSED"
	CodeInvalidCoverage       Code = "INVALID_COVERAGE"
	CodeInvalidPremium        Code = "INVALID_PREMIUM"
	CodeInvalidDuration       Code = "INVALID_DURATION"
	CodeTransferFailed        Code = "TRANSFER_FAILED"
	CodeBadRequest            Code = "BAD_REQUEST"
	CodeInternal              Code = "INTERNAL"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is/As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the code carried by err, or CodeInternal when the chain
// holds no coded error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
