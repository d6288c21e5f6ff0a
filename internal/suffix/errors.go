package suffix

import "errors"

var (
	// ErrConfiguration is returned when no ruleset provider is registered or the
	// provider yields no rules.
	ErrConfiguration = errors.New("ruleset provider not configured")
	// ErrFormat is returned for blank input.
	ErrFormat = errors.New("domain cannot be blank")
)
