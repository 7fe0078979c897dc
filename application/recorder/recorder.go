package recorder

import (
	"sync"
	"time"

	"test_capture/domain/entities"
)

// ActionRecorder holds the append-only action log for one session.
// Records are immutable once appended and ordered by insertion. The
// mutex covers appends from the playwright event goroutine racing the
// operator thread.
type ActionRecorder struct {
	mu      sync.Mutex
	actions []entities.ActionRecord
	clock   func() time.Time
}

// NewActionRecorder - creates an empty action log
func NewActionRecorder() *ActionRecorder {
	return &ActionRecorder{clock: time.Now}
}

// NewActionRecorderWithClock creates a recorder with an injected clock.
// Used by tests that need deterministic timestamps.
func NewActionRecorderWithClock(clock func() time.Time) *ActionRecorder {
	return &ActionRecorder{clock: clock}
}

// Record appends a new record with a freshly read timestamp. Prior
// records are never mutated or reordered.
func (r *ActionRecorder) Record(kind entities.ActionKind, description string, payload entities.ActionPayload) entities.ActionRecord {
	record := entities.ActionRecord{
		Kind:        kind,
		Timestamp:   r.clock(),
		Description: description,
		Payload:     payload,
	}

	r.mu.Lock()
	r.actions = append(r.actions, record)
	r.mu.Unlock()

	return record
}

// Entries returns a copy of the full ordered log for read-only
// consumption.
func (r *ActionRecorder) Entries() []entities.ActionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]entities.ActionRecord, len(r.actions))
	copy(entries, r.actions)
	return entries
}

// Len - returns the number of recorded actions
func (r *ActionRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions)
}

// Reset clears the log. Only an explicit operator reset calls this.
func (r *ActionRecorder) Reset() {
	r.mu.Lock()
	r.actions = nil
	r.mu.Unlock()
}
