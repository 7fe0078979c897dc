package session

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"test_capture/domain/entities"
	"test_capture/domain/interfaces"
)

type fakeBrowser struct {
	url        string
	title      string
	buttons    []entities.ButtonInfo
	inputs     []entities.InputInfo
	navCount   int
	closeCount int
	navErr     error
	onNav      func(url, title string)
}

func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	f.navCount++
	if f.navErr == nil {
		f.url = url
	}
	return f.navErr
}
func (f *fakeBrowser) CurrentURL(ctx context.Context) (string, error) { return f.url, nil }
func (f *fakeBrowser) Title(ctx context.Context) (string, error)      { return f.title, nil }
func (f *fakeBrowser) QueryButtons(ctx context.Context) ([]entities.ButtonInfo, error) {
	return f.buttons, nil
}
func (f *fakeBrowser) QueryInputs(ctx context.Context) ([]entities.InputInfo, error) {
	return f.inputs, nil
}
func (f *fakeBrowser) VisibleText(ctx context.Context) (string, error) { return "", nil }
func (f *fakeBrowser) Evaluate(ctx context.Context, script string) (interface{}, error) {
	return nil, nil
}
func (f *fakeBrowser) OnNavigation(fn func(url, title string)) { f.onNav = fn }
func (f *fakeBrowser) Close() error {
	f.closeCount++
	return nil
}

type fakeExporter struct {
	docs   []*entities.TestCaseDocument
	report entities.ExportReport
}

func (f *fakeExporter) Export(doc *entities.TestCaseDocument, info entities.SessionInfo, outputDir string) entities.ExportReport {
	f.docs = append(f.docs, doc)
	if f.report != nil {
		return f.report
	}
	return entities.ExportReport{}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestSession(browser *fakeBrowser, exporter *fakeExporter) *Session {
	launch := func(ctx context.Context, b entities.BrowserType, m entities.BrowserMode) (interfaces.BrowserSession, error) {
		return browser, nil
	}
	return New(launch, exporter, quietLogger(), testOutputDir)
}

const testOutputDir = "test_cases"

func TestOpenCaptureStopScenario(t *testing.T) {
	browser := &fakeBrowser{
		title: "Example Domain",
		buttons: []entities.ButtonInfo{
			{Text: "More information", Tag: "a"},
			{Text: "Accept", Tag: "button"},
			{Text: "Decline", Tag: "button"},
		},
		inputs: []entities.InputInfo{{Name: "q", Type: "text"}},
	}
	exporter := &fakeExporter{}
	sess := newTestSession(browser, exporter)
	ctx := context.Background()

	require.NoError(t, sess.Open(ctx, entities.BrowserChrome, entities.ModeNormal, "https://example.com"))

	snapshot, err := sess.Capture(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Buttons, 3)
	assert.Len(t, snapshot.Inputs, 1)

	_, err = sess.Stop(ctx)
	require.NoError(t, err)

	// Exactly two records: navigate and capture. Stop appends nothing.
	require.Len(t, exporter.docs, 1)
	doc := exporter.docs[0]
	require.Len(t, doc.Actions, 2)
	assert.Equal(t, entities.ActionNavigate, doc.Actions[0].Kind)
	assert.Equal(t, entities.ActionCapture, doc.Actions[1].Kind)
	assert.Equal(t, 2, doc.TotalActions)
	assert.Equal(t, "https://example.com", doc.InitialURL)

	// The browser is released exactly once
	assert.Equal(t, 1, browser.closeCount)
}

func TestOpenRecordsNavigatePayload(t *testing.T) {
	browser := &fakeBrowser{title: "Example Domain"}
	sess := newTestSession(browser, &fakeExporter{})

	require.NoError(t, sess.Open(context.Background(), entities.BrowserChrome, entities.ModeNormal, "example.com"))

	entries := sess.Recorder().Entries()
	require.Len(t, entries, 1)
	payload, ok := entries[0].Payload.(entities.NavigatePayload)
	require.True(t, ok)
	// Scheme is prepended when missing
	assert.Equal(t, "https://example.com", payload.URL)
	assert.Equal(t, "Example Domain", payload.PageTitle)
}

func TestLaunchFailureIsFatal(t *testing.T) {
	launchErr := errors.New("chromedriver not found")
	launch := func(ctx context.Context, b entities.BrowserType, m entities.BrowserMode) (interfaces.BrowserSession, error) {
		return nil, launchErr
	}
	sess := New(launch, &fakeExporter{}, quietLogger(), testOutputDir)

	err := sess.Open(context.Background(), entities.BrowserFirefox, entities.ModePrivate, "https://example.com")
	require.Error(t, err)

	var le *entities.LaunchError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, entities.BrowserFirefox, le.Browser)
	assert.Equal(t, entities.ModePrivate, le.Mode)
	assert.ErrorIs(t, err, launchErr)
}

func TestNavigateFailureClosesBrowserOnOpen(t *testing.T) {
	browser := &fakeBrowser{navErr: errors.New("dns failure")}
	sess := newTestSession(browser, &fakeExporter{})

	err := sess.Open(context.Background(), entities.BrowserChrome, entities.ModeNormal, "https://unreachable.example")
	require.Error(t, err)
	assert.Equal(t, 1, browser.closeCount)
	assert.Equal(t, 0, sess.Recorder().Len())
}

func TestDetectedNavigationRecordsNote(t *testing.T) {
	browser := &fakeBrowser{title: "Start"}
	sess := newTestSession(browser, &fakeExporter{})
	require.NoError(t, sess.Open(context.Background(), entities.BrowserChrome, entities.ModeNormal, "https://example.com"))

	require.NotNil(t, browser.onNav)
	browser.onNav("https://example.com/next", "Next Page")

	entries := sess.Recorder().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, entities.ActionNote, entries[1].Kind)
	payload, ok := entries[1].Payload.(entities.NotePayload)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/next", payload.URL)
	assert.Equal(t, "Next Page", payload.Title)
}

func TestNoteRecordsCurrentPage(t *testing.T) {
	browser := &fakeBrowser{title: "Example Domain"}
	sess := newTestSession(browser, &fakeExporter{})
	ctx := context.Background()
	require.NoError(t, sess.Open(ctx, entities.BrowserChrome, entities.ModeNormal, "https://example.com"))

	sess.Note(ctx, "login form looks broken")

	entries := sess.Recorder().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "login form looks broken", entries[1].Description)
}

func TestStopWithEmptyLogSkipsExport(t *testing.T) {
	browser := &fakeBrowser{}
	exporter := &fakeExporter{}
	launch := func(ctx context.Context, b entities.BrowserType, m entities.BrowserMode) (interfaces.BrowserSession, error) {
		return browser, nil
	}
	sess := New(launch, exporter, quietLogger(), testOutputDir)

	report, err := sess.Stop(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Empty(t, exporter.docs)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com", NormalizeURL("example.com"))
	assert.Equal(t, "https://example.com", NormalizeURL("https://example.com"))
	assert.Equal(t, "http://example.com", NormalizeURL("http://example.com"))
}
