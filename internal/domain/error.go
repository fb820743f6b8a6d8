package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound               = errors.New("entity not found")
	ErrCourseNotFound         = errors.New("course not found")
	ErrPurchaseNotFound       = errors.New("purchase not found")
	ErrLectureNotFound        = errors.New("lecture not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrValidation             = errors.New("invalid argument")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrSignatureMismatch      = errors.New("payment signature does not match")
	ErrInvalidStateTransition = errors.New("invalid purchase state transition")
	ErrRefundWindowExpired    = errors.New("refund window has expired")
	ErrGatewayUnavailable     = errors.New("payment gateway unavailable")
	ErrGatewayTimeout         = errors.New("payment gateway timed out")
	ErrStoreUnavailable       = errors.New("persistence store unavailable")
	ErrLockNotAcquired        = errors.New("record lock not acquired")
	ErrInvalidExecContext     = errors.New("invalid database execution context")

	// ErrReconciliationRequired marks a purchase whose gateway order exists but
	// whose local record could not be persisted or finalized. It must reach an
	// operator channel, never be swallowed.
	ErrReconciliationRequired = errors.New("purchase requires reconciliation")
)
