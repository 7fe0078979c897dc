package entities

import "time"

// BrowserType represents the browser the operator selected
type BrowserType string

const (
	BrowserChrome  BrowserType = "chrome"
	BrowserFirefox BrowserType = "firefox"
	BrowserEdge    BrowserType = "edge"
)

// BrowserMode represents the browsing mode
type BrowserMode string

const (
	ModeNormal  BrowserMode = "normal"
	ModePrivate BrowserMode = "private"
)

// SessionInfo holds the metadata of one recording session
type SessionInfo struct {
	ID         string      `json:"id"`
	Browser    BrowserType `json:"browser"`
	Mode       BrowserMode `json:"mode"`
	InitialURL string      `json:"initial_url"`
	StartedAt  time.Time   `json:"started_at"`
	StoppedAt  time.Time   `json:"stopped_at,omitempty"`
}

// TestCaseDocument is the canonical machine-readable form of a recorded
// session. Every other export format is a derived view of this document.
type TestCaseDocument struct {
	TestCaseID   string         `json:"test_case_id"`
	CreatedAt    time.Time      `json:"created_at"`
	InitialURL   string         `json:"initial_url"`
	TotalActions int            `json:"total_actions"`
	Actions      []ActionRecord `json:"actions"`
}

// Captures - returns the page snapshots in document order
func (d *TestCaseDocument) Captures() []PageSnapshot {
	var snapshots []PageSnapshot
	for _, action := range d.Actions {
		if snap, ok := action.Payload.(PageSnapshot); ok {
			snapshots = append(snapshots, snap)
		}
	}
	return snapshots
}

// URLCount - returns the number of distinct URLs the session touched
func (d *TestCaseDocument) URLCount() int {
	seen := make(map[string]struct{})
	for _, action := range d.Actions {
		switch p := action.Payload.(type) {
		case NavigatePayload:
			seen[p.URL] = struct{}{}
		case PageSnapshot:
			seen[p.URL] = struct{}{}
		case NotePayload:
			if p.URL != "" {
				seen[p.URL] = struct{}{}
			}
		}
	}
	return len(seen)
}
