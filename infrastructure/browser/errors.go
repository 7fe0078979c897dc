package browser

import (
	"fmt"
	"strings"
)

// isClosedErr reports whether an error is the usual "already closed"
// noise emitted when tearing down an automation session
func isClosedErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "closed") || strings.Contains(msg, "target closed")
}

// appendErr chains teardown errors without losing the first one
func appendErr(existing, next error) error {
	if existing == nil {
		return next
	}
	return fmt.Errorf("%v; %w", existing, next)
}
