package utils

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Attempt is one entry in an ordered fallback chain: a precondition check and
// the action to run when the check passes.
type Attempt struct {
	Name  string
	Check func() bool // nil means always eligible
	Run   func() error
}

// Chain runs attempts in order and stops at the first success. Attempts whose
// Check fails are skipped. If no attempt succeeds the errors of all tried
// attempts are aggregated into one.
type Chain struct {
	Logger zerolog.Logger
}

// Do executes the chain. It returns nil on the first successful attempt.
func (c *Chain) Do(operation string, attempts []Attempt) error {
	var failures []error

	for _, a := range attempts {
		if a.Check != nil && !a.Check() {
			c.Logger.Debug().Str("op", operation).Str("attempt", a.Name).Msg("Skipped, precondition not met")
			continue
		}

		err := a.Run()
		if err == nil {
			c.Logger.Debug().Str("op", operation).Str("attempt", a.Name).Msg("Succeeded")
			return nil
		}

		c.Logger.Warn().Str("op", operation).Str("attempt", a.Name).Err(err).Msg("Attempt failed, falling back")
		failures = append(failures, fmt.Errorf("%s: %w", a.Name, err))
	}

	if len(failures) == 0 {
		return fmt.Errorf("%s: no eligible attempts", operation)
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operation, len(failures), errors.Join(failures...))
}
