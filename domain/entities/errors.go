package entities

import "fmt"

// LaunchError - browser or driver could not be started. Fatal for the
// session; the operator gets no automatic retry.
type LaunchError struct {
	Browser BrowserType
	Mode    BrowserMode
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s in %s mode: %v", e.Browser, e.Mode, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// CaptureError - a page query failed mid-capture, usually because the
// page navigated away or an element was detached. Transient; the
// operator may retry. No partial snapshot is ever recorded.
type CaptureError struct {
	URL string
	Err error
}

func (e *CaptureError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("failed to capture page state: %v", e.Err)
	}
	return fmt.Sprintf("failed to capture page state at %s: %v", e.URL, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }
