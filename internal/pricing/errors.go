package pricing

import (
	"fmt"
	"strings"
)

// ValidationError reports a record that fails its invariants at save time.
// It carries every problem found so form UIs can surface all of them at once.
type ValidationError struct {
	Entity   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is invalid: %s", e.Entity, strings.Join(e.Problems, "; "))
}

// ConfigurationError reports a valid-looking record combination that cannot
// be evaluated at compute time (zero throughput, margin >= 100%, a gap in
// tier coverage). It names the record so the failure is actionable.
type ConfigurationError struct {
	Entity string
	ID     int64
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d cannot be evaluated: %s", e.Entity, e.ID, e.Reason)
	}
	return fmt.Sprintf("%s cannot be evaluated: %s", e.Entity, e.Reason)
}
