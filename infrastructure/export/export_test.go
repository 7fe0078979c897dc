package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"test_capture/domain/entities"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// exampleDoc mirrors the canonical scenario: navigate to example.com,
// one capture with 3 buttons and 1 input, then stop.
func exampleDoc(stamp string) (*entities.TestCaseDocument, entities.SessionInfo) {
	started := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	snapshot := entities.PageSnapshot{
		URL:   "https://example.com",
		Title: "Example Domain",
		Buttons: []entities.ButtonInfo{
			{Text: "More information", ID: "more-info", Class: "link", Tag: "a"},
			{Text: "Accept", ID: "accept", Tag: "button"},
			{Text: "Decline", Tag: "button"},
		},
		Inputs: []entities.InputInfo{
			{Type: "text", ID: "q", Name: "q", Placeholder: "Search"},
		},
		BodyTextPreview: "This domain is for use in illustrative examples in documents.",
	}

	doc := &entities.TestCaseDocument{
		TestCaseID:   "TC_" + stamp,
		CreatedAt:    started.Add(time.Minute),
		InitialURL:   "https://example.com",
		TotalActions: 2,
		Actions: []entities.ActionRecord{
			{
				Kind:        entities.ActionNavigate,
				Timestamp:   started,
				Description: "Navigate to https://example.com",
				Payload: entities.NavigatePayload{
					URL:       "https://example.com",
					PageTitle: "Example Domain",
					PageURL:   "https://example.com/",
				},
			},
			{
				Kind:        entities.ActionCapture,
				Timestamp:   started.Add(30 * time.Second),
				Description: "Page capture: 3 buttons, 1 inputs found",
				Payload:     snapshot,
			},
		},
	}

	info := entities.SessionInfo{
		ID:         "session-1",
		Browser:    entities.BrowserChrome,
		Mode:       entities.ModeNormal,
		InitialURL: "https://example.com",
		StartedAt:  started,
		StoppedAt:  started.Add(time.Minute),
	}
	return doc, info
}

func TestExportWritesAllFormats(t *testing.T) {
	dir := t.TempDir()
	doc, info := exampleDoc("20260826_153000")
	exporter := NewTestCaseExporter(quietLogger(), "Doceree_TestCases.xlsx")

	report := exporter.Export(doc, info, dir)
	require.True(t, report.Succeeded(), "expected all formats to succeed: %v", report.Failures())

	assert.FileExists(t, filepath.Join(dir, "test_case_20260826_153000.json"))
	assert.FileExists(t, filepath.Join(dir, "test_case_20260826_153000.txt"))
	assert.FileExists(t, filepath.Join(dir, "test_case_20260826_153000.go"))
	assert.FileExists(t, filepath.Join(dir, "Doceree_TestCases.xlsx"))
}

func TestJSONIsLossless(t *testing.T) {
	dir := t.TempDir()
	doc, info := exampleDoc("20260826_153000")
	exporter := NewTestCaseExporter(quietLogger(), "wb.xlsx")
	report := exporter.Export(doc, info, dir)
	require.NoError(t, report[entities.FormatJSON].Err)

	parsed, err := ReadJSON(report[entities.FormatJSON].Path)
	require.NoError(t, err)

	require.Len(t, parsed.Actions, 2)
	assert.Equal(t, doc.TestCaseID, parsed.TestCaseID)
	assert.Equal(t, doc.InitialURL, parsed.InitialURL)
	assert.Equal(t, doc.TotalActions, parsed.TotalActions)

	navigate, ok := parsed.Actions[0].Payload.(entities.NavigatePayload)
	require.True(t, ok)
	assert.Equal(t, "Example Domain", navigate.PageTitle)

	snapshot, ok := parsed.Actions[1].Payload.(entities.PageSnapshot)
	require.True(t, ok)
	assert.Len(t, snapshot.Buttons, 3)
	assert.Len(t, snapshot.Inputs, 1)
	assert.Equal(t, "Example Domain", snapshot.Title)
}

// Deserializing the JSON export and re-rendering it as text matches
// the text export byte for byte: both are pure views over the same log.
func TestJSONTextRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc, info := exampleDoc("20260826_153000")
	exporter := NewTestCaseExporter(quietLogger(), "wb.xlsx")
	report := exporter.Export(doc, info, dir)
	require.NoError(t, report[entities.FormatJSON].Err)
	require.NoError(t, report[entities.FormatText].Err)

	textBytes, err := os.ReadFile(report[entities.FormatText].Path)
	require.NoError(t, err)

	parsed, err := ReadJSON(report[entities.FormatJSON].Path)
	require.NoError(t, err)

	assert.Equal(t, string(textBytes), RenderText(parsed))
}

func TestRenderTextTruncatesPreviewOnRuneBoundary(t *testing.T) {
	doc, _ := exampleDoc("20260826_153000")
	snapshot := doc.Actions[1].Payload.(entities.PageSnapshot)
	// Three bytes per rune and longer than the preview limit; a
	// byte-offset cut would leave invalid UTF-8 in the report.
	snapshot.BodyTextPreview = strings.Repeat("界", 300)
	doc.Actions[1].Payload = snapshot

	text := RenderText(doc)
	assert.True(t, utf8.ValidString(text))
	assert.Contains(t, text, strings.Repeat("界", textPreviewLimit)+"...")
	assert.NotContains(t, text, strings.Repeat("界", textPreviewLimit+1))
}

// Exporting the same log under two different timestamps produces files
// differing only in the timestamp-derived names and fields.
func TestExportIdempotence(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	docA, info := exampleDoc("20260826_153000")
	docB, _ := exampleDoc("20260826_170000")
	docB.CreatedAt = docA.CreatedAt.Add(90 * time.Minute)

	exporter := NewTestCaseExporter(quietLogger(), "wb.xlsx")
	require.True(t, exporter.Export(docA, info, dirA).Succeeded())
	require.True(t, exporter.Export(docB, info, dirB).Succeeded())

	textA := RenderText(docA)
	textB := RenderText(docB)
	// Only the ID and created-at lines may differ
	assert.NotEqual(t, textA, textB)
	assert.Equal(t,
		stripLines(textA, "Test Case ID:", "Created At:"),
		stripLines(textB, "Test Case ID:", "Created At:"))

	scriptA, err := os.ReadFile(filepath.Join(dirA, "test_case_20260826_153000.go"))
	require.NoError(t, err)
	scriptB, err := os.ReadFile(filepath.Join(dirB, "test_case_20260826_170000.go"))
	require.NoError(t, err)
	// The replay script carries no timestamps at all
	assert.Equal(t, scriptA, scriptB)
}

func TestScriptReplaysNavigationsOnly(t *testing.T) {
	doc, _ := exampleDoc("20260826_153000")
	doc.Actions = append(doc.Actions, entities.ActionRecord{
		Kind:        entities.ActionNote,
		Timestamp:   doc.CreatedAt,
		Description: "navigation detected",
		Payload:     entities.NotePayload{Text: "navigation detected", URL: "https://example.com/other"},
	})
	doc.TotalActions = 3

	script := RenderScript(doc)

	assert.Contains(t, script, `navigate(page, "https://example.com")`)
	assert.Contains(t, script, `assertTitleIs(page, "Example Domain")`)
	assert.Contains(t, script, `assertTitleContains(page, "Example Domain")`)
	assert.Contains(t, script, `assertVisible(page, "#more-info")`)
	// Notes carry no replayable semantics
	assert.NotContains(t, script, "example.com/other")
}

func TestWorkbookSheets(t *testing.T) {
	dir := t.TempDir()
	doc, info := exampleDoc("20260826_153000")
	exporter := NewTestCaseExporter(quietLogger(), "Doceree_TestCases.xlsx")
	report := exporter.Export(doc, info, dir)
	require.NoError(t, report[entities.FormatExcel].Err)

	f, err := excelize.OpenFile(report[entities.FormatExcel].Path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{summarySheet, actionsSheet, elementsSheet}, f.GetSheetList())

	// Actions: header + one row per record
	actionRows, err := f.GetRows(actionsSheet)
	require.NoError(t, err)
	require.Len(t, actionRows, 3)
	assert.Equal(t, "navigate", actionRows[1][1])
	assert.Equal(t, "capture", actionRows[2][1])

	// Page Elements: header + 3 buttons + 1 input
	elementRows, err := f.GetRows(elementsSheet)
	require.NoError(t, err)
	require.Len(t, elementRows, 5)
	assert.Equal(t, "Button", elementRows[1][1])
	assert.Equal(t, "Button", elementRows[3][1])
	assert.Equal(t, "Input", elementRows[4][1])
	// Every element row is tagged with the capture it came from
	for _, row := range elementRows[1:] {
		assert.Equal(t, "1", row[0])
		assert.Equal(t, "https://example.com", row[7])
	}

	// Summary: capture and URL counts
	captureCount, err := f.GetCellValue(summarySheet, "B11")
	require.NoError(t, err)
	assert.Equal(t, "1", captureCount)
}

func TestExportFailuresAreIndependent(t *testing.T) {
	dir := t.TempDir()
	doc, info := exampleDoc("20260826_153000")
	// Workbook path points into a directory that does not exist, so the
	// excel format fails while the other three succeed.
	exporter := NewTestCaseExporter(quietLogger(), filepath.Join("missing", "wb.xlsx"))

	report := exporter.Export(doc, info, dir)
	assert.False(t, report.Succeeded())

	assert.NoError(t, report[entities.FormatJSON].Err)
	assert.NoError(t, report[entities.FormatText].Err)
	assert.NoError(t, report[entities.FormatGo].Err)
	assert.Error(t, report[entities.FormatExcel].Err)

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, entities.FormatExcel, failures[0].Format)
}

func TestExportUnwritableOutputDir(t *testing.T) {
	// A file where the output directory should be makes MkdirAll fail;
	// every format reports the failure, none panics or is dropped.
	parent := t.TempDir()
	blocked := filepath.Join(parent, "test_cases")
	require.NoError(t, os.WriteFile(blocked, []byte("in the way"), 0o644))

	doc, info := exampleDoc("20260826_153000")
	exporter := NewTestCaseExporter(quietLogger(), "wb.xlsx")
	report := exporter.Export(doc, info, blocked)

	require.Len(t, report, len(entities.AllFormats))
	for _, format := range entities.AllFormats {
		assert.Error(t, report[format].Err)
	}
}

// stripLines removes lines starting with any of the prefixes
func stripLines(text string, prefixes ...string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		skip := false
		for _, prefix := range prefixes {
			if strings.HasPrefix(line, prefix) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
