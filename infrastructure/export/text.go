package export

import (
	"fmt"
	"os"
	"strings"

	"test_capture/domain/entities"
)

const (
	textRule = "================================================================================"
	// Element lists in the text rendering show a shorter prefix than
	// the snapshot holds; the full lists live in the JSON and workbook.
	textElementLimit = 10
	textPreviewLimit = 200
)

// RenderText renders the document as the human-readable report. It is
// a pure function of the document, so re-rendering a parsed JSON
// export reproduces the text export byte for byte.
func RenderText(doc *entities.TestCaseDocument) string {
	var b strings.Builder

	b.WriteString(textRule + "\n")
	b.WriteString("TEST CASE DOCUMENTATION\n")
	b.WriteString(textRule + "\n\n")
	fmt.Fprintf(&b, "Test Case ID: %s\n", doc.TestCaseID)
	fmt.Fprintf(&b, "Created At: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Initial URL: %s\n", doc.InitialURL)
	fmt.Fprintf(&b, "Total Actions Recorded: %d\n", doc.TotalActions)
	b.WriteString("\n" + textRule + "\n")
	b.WriteString("RECORDED ACTIONS\n")
	b.WriteString(textRule + "\n\n")

	for i, action := range doc.Actions {
		fmt.Fprintf(&b, "\n--- Action %d ---\n", i+1)
		fmt.Fprintf(&b, "Type: %s\n", action.Kind)
		fmt.Fprintf(&b, "Timestamp: %s\n", action.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"))

		switch payload := action.Payload.(type) {
		case entities.NavigatePayload:
			fmt.Fprintf(&b, "URL: %s\n", payload.URL)
			fmt.Fprintf(&b, "Page Title: %s\n", payload.PageTitle)

		case entities.PageSnapshot:
			fmt.Fprintf(&b, "Page URL: %s\n", payload.URL)
			fmt.Fprintf(&b, "Page Title: %s\n", payload.Title)

			fmt.Fprintf(&b, "\nButtons Found (%d):\n", len(payload.Buttons))
			for _, btn := range limitButtons(payload.Buttons) {
				fmt.Fprintf(&b, "  - %s (ID: %s)\n", orNA(btn.Text), orNA(btn.ID))
			}

			fmt.Fprintf(&b, "\nInput Fields Found (%d):\n", len(payload.Inputs))
			for _, input := range limitInputs(payload.Inputs) {
				fmt.Fprintf(&b, "  - Type: %s, ID: %s, Name: %s\n", input.Type, orNA(input.ID), orNA(input.Name))
			}

			if payload.BodyTextPreview != "" {
				preview := truncateRunes(payload.BodyTextPreview, textPreviewLimit)
				fmt.Fprintf(&b, "\nPage Text Preview:\n%s...\n", preview)
			}

		case entities.NotePayload:
			fmt.Fprintf(&b, "Note: %s\n", payload.Text)
			if payload.URL != "" {
				fmt.Fprintf(&b, "Page URL: %s\n", payload.URL)
			}
			if payload.Title != "" {
				fmt.Fprintf(&b, "Page Title: %s\n", payload.Title)
			}

		case entities.StopPayload:
			fmt.Fprintf(&b, "Recording stopped after %d actions\n", payload.RecordedActions)
		}

		b.WriteString("\n")
	}

	return b.String()
}

func writeText(doc *entities.TestCaseDocument, path string) error {
	if err := os.WriteFile(path, []byte(RenderText(doc)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func limitButtons(buttons []entities.ButtonInfo) []entities.ButtonInfo {
	if len(buttons) > textElementLimit {
		return buttons[:textElementLimit]
	}
	return buttons
}

func limitInputs(inputs []entities.InputInfo) []entities.InputInfo {
	if len(inputs) > textElementLimit {
		return inputs[:textElementLimit]
	}
	return inputs
}

// truncateRunes cuts s to at most limit characters, never splitting a
// multi-byte rune.
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

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
