package contracts

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks data the provider could not deliver. Stages and
// analyzers treat it as a degraded input, never as a run failure.
var ErrUnavailable = errors.New("data unavailable")

// Unavailable wraps ErrUnavailable with context.
func Unavailable(what string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%s: %w: %v", what, ErrUnavailable, cause)
	}
	return fmt.Errorf("%s: %w", what, ErrUnavailable)
}

// IsUnavailable reports whether err is a degraded-data sentinel.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
