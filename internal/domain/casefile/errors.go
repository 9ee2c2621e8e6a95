package casefile

import "errors"

var (
	// ErrCaseNotFound indicates the case doesn't exist in the scope.
	ErrCaseNotFound = errors.New("case not found")
	// ErrCaseClosed indicates an operation was attempted on a closed case.
	ErrCaseClosed = errors.New("case is closed")
	// ErrInvalidClosureState indicates a closure operation not permitted
	// from the current closure sub-state.
	ErrInvalidClosureState = errors.New("invalid closure state for operation")
	// ErrInvalidInput indicates missing or malformed input.
	ErrInvalidInput = errors.New("invalid case input")
	// ErrReferralNotFound indicates the network referral doesn't exist on
	// the case.
	ErrReferralNotFound = errors.New("network referral not found")
)
