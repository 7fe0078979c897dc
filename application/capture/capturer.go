package capture

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"test_capture/application/recorder"
	"test_capture/domain/entities"
	"test_capture/domain/interfaces"
)

// DefaultElementCap bounds each element category in a snapshot. The
// original intent is to avoid overwhelming output, not to report an
// error on busy pages.
const DefaultElementCap = 50

// DefaultBodyTextLimit bounds the captured body text preview
const DefaultBodyTextLimit = 1000

// PageStateCapturer builds PageSnapshots from the live browser session
// and logs them through the ActionRecorder.
type PageStateCapturer struct {
	recorder      *recorder.ActionRecorder
	logger        *logrus.Logger
	elementCap    int
	bodyTextLimit int
}

// NewPageStateCapturer - creates a capturer with the default bounds
func NewPageStateCapturer(rec *recorder.ActionRecorder, logger *logrus.Logger) *PageStateCapturer {
	return &PageStateCapturer{
		recorder:      rec,
		logger:        logger,
		elementCap:    DefaultElementCap,
		bodyTextLimit: DefaultBodyTextLimit,
	}
}

// SetElementCap overrides the per-category element bound
func (c *PageStateCapturer) SetElementCap(limit int) {
	if limit > 0 {
		c.elementCap = limit
	}
}

// SetBodyTextLimit overrides the body text preview bound
func (c *PageStateCapturer) SetBodyTextLimit(limit int) {
	if limit > 0 {
		c.bodyTextLimit = limit
	}
}

// Capture queries the current page state and records it as a capture
// action. Atomic from the caller's perspective: if any query fails, no
// record is appended and the operator may retry.
func (c *PageStateCapturer) Capture(ctx context.Context, session interfaces.BrowserSession) (entities.PageSnapshot, error) {
	url, err := session.CurrentURL(ctx)
	if err != nil {
		return entities.PageSnapshot{}, &entities.CaptureError{Err: fmt.Errorf("read page URL: %w", err)}
	}

	title, err := session.Title(ctx)
	if err != nil {
		return entities.PageSnapshot{}, &entities.CaptureError{URL: url, Err: fmt.Errorf("read page title: %w", err)}
	}

	buttons, err := session.QueryButtons(ctx)
	if err != nil {
		return entities.PageSnapshot{}, &entities.CaptureError{URL: url, Err: fmt.Errorf("query buttons: %w", err)}
	}
	if len(buttons) > c.elementCap {
		buttons = buttons[:c.elementCap]
	}

	inputs, err := session.QueryInputs(ctx)
	if err != nil {
		return entities.PageSnapshot{}, &entities.CaptureError{URL: url, Err: fmt.Errorf("query inputs: %w", err)}
	}
	if len(inputs) > c.elementCap {
		inputs = inputs[:c.elementCap]
	}

	bodyText, err := session.VisibleText(ctx)
	if err != nil {
		return entities.PageSnapshot{}, &entities.CaptureError{URL: url, Err: fmt.Errorf("read body text: %w", err)}
	}
	bodyText = truncateRunes(bodyText, c.bodyTextLimit)

	snapshot := entities.PageSnapshot{
		URL:             url,
		Title:           title,
		Buttons:         buttons,
		Inputs:          inputs,
		BodyTextPreview: bodyText,
	}

	description := fmt.Sprintf("Page capture: %d buttons, %d inputs found", len(buttons), len(inputs))
	c.recorder.Record(entities.ActionCapture, description, snapshot)

	c.logger.Infof("Page state captured: %s (%d buttons, %d inputs)", title, len(buttons), len(inputs))

	return snapshot, nil
}

// truncateRunes cuts s to at most limit characters. Cutting at a byte
// offset could split a multi-byte rune and leave the snapshot holding
// invalid UTF-8, which json.Marshal would mangle.
func truncateRunes(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
