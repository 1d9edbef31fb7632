package agent

import (
	"errors"
	"fmt"
)

var errNoImpactMethods = errors.New("no impact methods available")

// InvalidDatabaseError is returned before the loop starts when the
// requested database is missing, unknown, or unreachable. The
// conversation transcript is not mutated when this is returned.
type InvalidDatabaseError struct {
	DatabaseID string
	Reason     string
}

func (e *InvalidDatabaseError) Error() string {
	if e.DatabaseID == "" {
		return fmt.Sprintf("invalid database: %s", e.Reason)
	}
	return fmt.Sprintf("invalid database %q: %s", e.DatabaseID, e.Reason)
}

// UpstreamModelError aborts the turn: unlike gateway errors, a failed
// model call leaves the loop with nothing to fold into the transcript.
type UpstreamModelError struct {
	Err error
}

func (e *UpstreamModelError) Error() string {
	return fmt.Sprintf("language model call failed: %v", e.Err)
}

func (e *UpstreamModelError) Unwrap() error { return e.Err }
