package workflow

import "errors"

var (
	// ErrEmptyConfiguration indicates a configuration with no stages.
	ErrEmptyConfiguration = errors.New("workflow configuration needs at least one stage")
	// ErrEmptyStageCode indicates a stage without a code.
	ErrEmptyStageCode = errors.New("workflow stage code must not be empty")
	// ErrDuplicateStageCode indicates two stages sharing a code.
	ErrDuplicateStageCode = errors.New("workflow stage codes must be unique")
)
