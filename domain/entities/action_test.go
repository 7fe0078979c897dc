package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionRecordJSONRoundTrip(t *testing.T) {
	when := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name   string
		record ActionRecord
	}{
		{
			name: "navigate",
			record: ActionRecord{
				Kind:        ActionNavigate,
				Timestamp:   when,
				Description: "Navigate to https://example.com",
				Payload:     NavigatePayload{URL: "https://example.com", PageTitle: "Example Domain", PageURL: "https://example.com/"},
			},
		},
		{
			name: "capture",
			record: ActionRecord{
				Kind:        ActionCapture,
				Timestamp:   when,
				Description: "Page capture: 1 buttons, 1 inputs found",
				Payload: PageSnapshot{
					URL:             "https://example.com",
					Title:           "Example Domain",
					Buttons:         []ButtonInfo{{Text: "OK", ID: "ok", Tag: "button"}},
					Inputs:          []InputInfo{{Type: "text", Name: "q"}},
					BodyTextPreview: "hello",
				},
			},
		},
		{
			name: "note",
			record: ActionRecord{
				Kind:        ActionNote,
				Timestamp:   when,
				Description: "navigation detected",
				Payload:     NotePayload{Text: "navigation detected", URL: "https://example.com/next", Title: "Next"},
			},
		},
		{
			name: "stop",
			record: ActionRecord{
				Kind:        ActionStop,
				Timestamp:   when,
				Description: "recording stopped",
				Payload:     StopPayload{RecordedActions: 7},
			},
		},
		{
			name: "no payload",
			record: ActionRecord{
				Kind:        ActionNote,
				Timestamp:   when,
				Description: "bare note",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.record)
			require.NoError(t, err)

			var decoded ActionRecord
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tc.record, decoded)
		})
	}
}

func TestActionRecordUnknownKind(t *testing.T) {
	var record ActionRecord
	err := json.Unmarshal([]byte(`{"kind":"teleport","timestamp":"2026-08-26T15:30:00Z","payload":{}}`), &record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action kind")
}

func TestPayloadKinds(t *testing.T) {
	assert.Equal(t, ActionNavigate, NavigatePayload{}.PayloadKind())
	assert.Equal(t, ActionCapture, PageSnapshot{}.PayloadKind())
	assert.Equal(t, ActionNote, NotePayload{}.PayloadKind())
	assert.Equal(t, ActionStop, StopPayload{}.PayloadKind())
}

func TestDocumentCounters(t *testing.T) {
	doc := TestCaseDocument{
		Actions: []ActionRecord{
			{Kind: ActionNavigate, Payload: NavigatePayload{URL: "https://a.example"}},
			{Kind: ActionCapture, Payload: PageSnapshot{URL: "https://a.example"}},
			{Kind: ActionNote, Payload: NotePayload{URL: "https://b.example"}},
			{Kind: ActionCapture, Payload: PageSnapshot{URL: "https://b.example"}},
		},
	}

	assert.Len(t, doc.Captures(), 2)
	assert.Equal(t, 2, doc.URLCount())
}
