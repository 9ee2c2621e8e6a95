package referral

import "errors"

var (
	// ErrReferralNotFound indicates the referral doesn't exist.
	ErrReferralNotFound = errors.New("referral not found")
	// ErrInvalidTransition indicates a transition not permitted from the
	// current status.
	ErrInvalidTransition = errors.New("invalid referral status transition")
	// ErrIncompleteDevolution indicates a return without the mandatory
	// structured payload.
	ErrIncompleteDevolution = errors.New("devolution payload incomplete")
	// ErrInvalidInput indicates missing or malformed input.
	ErrInvalidInput = errors.New("invalid referral input")
)
