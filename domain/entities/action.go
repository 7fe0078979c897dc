package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActionKind represents the type of recorded action
type ActionKind string

const (
	ActionNavigate ActionKind = "navigate"
	ActionCapture  ActionKind = "capture"
	ActionNote     ActionKind = "note"
	ActionStop     ActionKind = "stop"
)

// ActionPayload is the kind-specific data attached to a record.
// Each kind has its own payload type; the JSON form is tagged by the
// record's kind field.
type ActionPayload interface {
	PayloadKind() ActionKind
}

// NavigatePayload is recorded when the operator navigates to a URL
type NavigatePayload struct {
	URL       string `json:"url"`
	PageTitle string `json:"page_title"`
	PageURL   string `json:"page_url"`
}

func (NavigatePayload) PayloadKind() ActionKind { return ActionNavigate }

// NotePayload is recorded for operator notes and detected navigations
type NotePayload struct {
	Text  string `json:"text"`
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
}

func (NotePayload) PayloadKind() ActionKind { return ActionNote }

// StopPayload carries the final state of a recording session
type StopPayload struct {
	RecordedActions int `json:"recorded_actions"`
}

func (StopPayload) PayloadKind() ActionKind { return ActionStop }

// ActionRecord - one entry in the append-only action log
type ActionRecord struct {
	Kind        ActionKind    `json:"kind"`
	Timestamp   time.Time     `json:"timestamp"`
	Description string        `json:"description"`
	Payload     ActionPayload `json:"payload,omitempty"`
}

// rawActionRecord mirrors ActionRecord with the payload left undecoded
// so the variant can be selected by kind.
type rawActionRecord struct {
	Kind        ActionKind      `json:"kind"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// UnmarshalJSON decodes the payload into the variant matching the
// record's kind.
func (r *ActionRecord) UnmarshalJSON(data []byte) error {
	var raw rawActionRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Kind = raw.Kind
	r.Timestamp = raw.Timestamp
	r.Description = raw.Description
	r.Payload = nil

	if len(raw.Payload) == 0 || string(raw.Payload) == "null" {
		return nil
	}

	switch raw.Kind {
	case ActionNavigate:
		var p NavigatePayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return err
		}
		r.Payload = p
	case ActionCapture:
		var p PageSnapshot
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return err
		}
		r.Payload = p
	case ActionNote:
		var p NotePayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return err
		}
		r.Payload = p
	case ActionStop:
		var p StopPayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return err
		}
		r.Payload = p
	default:
		return fmt.Errorf("unknown action kind: %q", raw.Kind)
	}

	return nil
}
