package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks permission for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation conflicts with current resource state.
var ErrConflict = errors.New("conflict with current state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Ledger operation errors. These cover the precondition and commit failures of
// wallet top-ups, purchases and withdrawals.
var (
	// ErrInvalidAmount is returned for non-positive or malformed amounts,
	// before any I/O happens.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientBalance is returned when the wallet cannot cover the
	// requested gross amount. No writes occur.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrMeterNotFound is returned when no live meter reading exists for the
	// target meter type. No writes occur.
	ErrMeterNotFound = errors.New("meter not found")

	// ErrAccountNotFound is returned when the account row does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrCommitFailed is returned when the multi-record commit did not
	// complete. The database transaction guarantees state is unchanged.
	ErrCommitFailed = errors.New("commit failed")

	// ErrReauthRequired is returned when a sensitive credential change is
	// attempted without a fresh password check.
	ErrReauthRequired = errors.New("re-authentication required")
)

// AppError carries an HTTP-style status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
