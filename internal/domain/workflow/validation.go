package workflow

import "strings"

// Validate checks a configuration before it may replace the active one.
// A rejected configuration must leave the prior one in effect, so callers
// validate before persisting.
func Validate(cfg *Configuration) error {
	if cfg == nil || len(cfg.Stages) == 0 {
		return ErrEmptyConfiguration
	}
	seen := make(map[string]bool, len(cfg.Stages))
	for _, s := range cfg.Stages {
		code := strings.TrimSpace(s.Code)
		if code == "" {
			return ErrEmptyStageCode
		}
		if seen[code] {
			return ErrDuplicateStageCode
		}
		seen[code] = true
	}
	return nil
}
