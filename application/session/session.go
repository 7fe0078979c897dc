package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"test_capture/application/capture"
	"test_capture/application/recorder"
	"test_capture/domain/entities"
	"test_capture/domain/interfaces"
)

// LaunchFunc creates a BrowserSession for the selected browser and mode
type LaunchFunc func(ctx context.Context, browser entities.BrowserType, mode entities.BrowserMode) (interfaces.BrowserSession, error)

// Session is the process-wide lifecycle object for one recording run.
// It owns the browser handle, the action log, and the export step. All
// operations are synchronous command handlers; the session owns no
// event loop of its own.
type Session struct {
	launch    LaunchFunc
	exporter  interfaces.Exporter
	logger    *logrus.Logger
	outputDir string

	recorder *recorder.ActionRecorder
	capturer *capture.PageStateCapturer
	browser  interfaces.BrowserSession
	info     entities.SessionInfo

	closeOnce sync.Once
	closeErr  error
}

// New - creates a session that has not opened a browser yet
func New(launch LaunchFunc, exporter interfaces.Exporter, logger *logrus.Logger, outputDir string) *Session {
	rec := recorder.NewActionRecorder()
	return &Session{
		launch:    launch,
		exporter:  exporter,
		logger:    logger,
		outputDir: outputDir,
		recorder:  rec,
		capturer:  capture.NewPageStateCapturer(rec, logger),
	}
}

// Capturer returns the capturer so callers can adjust its bounds
func (s *Session) Capturer() *capture.PageStateCapturer {
	return s.capturer
}

// Recorder returns the session's action log
func (s *Session) Recorder() *recorder.ActionRecorder {
	return s.recorder
}

// Info returns the session metadata recorded so far
func (s *Session) Info() entities.SessionInfo {
	return s.info
}

// NormalizeURL prepends https:// when the scheme is missing
func NormalizeURL(url string) string {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "https://" + url
	}
	return url
}

// Open launches the browser, navigates to the initial URL and records
// the navigation. A launch failure is fatal for the session.
func (s *Session) Open(ctx context.Context, browser entities.BrowserType, mode entities.BrowserMode, url string) error {
	if s.browser != nil {
		return fmt.Errorf("session already has an open browser")
	}

	url = NormalizeURL(url)

	s.logger.Infof("Opening %s in %s mode", browser, mode)
	handle, err := s.launch(ctx, browser, mode)
	if err != nil {
		return &entities.LaunchError{Browser: browser, Mode: mode, Err: err}
	}

	s.browser = handle
	s.info = entities.SessionInfo{
		ID:         uuid.NewString(),
		Browser:    browser,
		Mode:       mode,
		InitialURL: url,
		StartedAt:  time.Now(),
	}

	// Navigations the operator triggers inside the page show up as
	// notes, not navigate actions; only explicit Navigate calls carry
	// replayable semantics.
	handle.OnNavigation(func(navURL, title string) {
		s.recorder.Record(entities.ActionNote,
			fmt.Sprintf("Navigation detected: %s", title),
			entities.NotePayload{Text: "navigation detected", URL: navURL, Title: title})
		s.logger.Infof("Navigation detected: %s", title)
	})

	if err := s.Navigate(ctx, url); err != nil {
		s.releaseBrowser()
		return err
	}

	return nil
}

// Navigate drives the browser to a URL and records a navigate action
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.browser == nil {
		return fmt.Errorf("no open browser session")
	}

	url = NormalizeURL(url)
	s.logger.Infof("Navigating to: %s", url)

	if err := s.browser.Navigate(ctx, url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}

	pageURL, err := s.browser.CurrentURL(ctx)
	if err != nil {
		return fmt.Errorf("read page URL after navigating to %s: %w", url, err)
	}
	title, err := s.browser.Title(ctx)
	if err != nil {
		return fmt.Errorf("read page title after navigating to %s: %w", url, err)
	}

	s.recorder.Record(entities.ActionNavigate,
		fmt.Sprintf("Navigate to %s", url),
		entities.NavigatePayload{URL: url, PageTitle: title, PageURL: pageURL})

	s.logger.Infof("Page loaded: %s", title)
	return nil
}

// Capture records a snapshot of the current page state
func (s *Session) Capture(ctx context.Context) (entities.PageSnapshot, error) {
	if s.browser == nil {
		return entities.PageSnapshot{}, fmt.Errorf("no open browser session")
	}
	return s.capturer.Capture(ctx, s.browser)
}

// Note records a free-form operator note against the current page
func (s *Session) Note(ctx context.Context, text string) {
	var url, title string
	if s.browser != nil {
		url, _ = s.browser.CurrentURL(ctx)
		title, _ = s.browser.Title(ctx)
	}
	s.recorder.Record(entities.ActionNote, text,
		entities.NotePayload{Text: text, URL: url, Title: title})
}

// Document builds the canonical test case document from the log. The
// stamp names the generated files and derives the test case ID.
func (s *Session) Document(stamp string) *entities.TestCaseDocument {
	actions := s.recorder.Entries()
	return &entities.TestCaseDocument{
		TestCaseID:   "TC_" + stamp,
		CreatedAt:    time.Now(),
		InitialURL:   s.info.InitialURL,
		TotalActions: len(actions),
		Actions:      actions,
	}
}

// Stop exports the recorded log and releases the browser. The browser
// is released exactly once even when export fails, and Stop itself
// never appends a record.
func (s *Session) Stop(ctx context.Context) (entities.ExportReport, error) {
	s.info.StoppedAt = time.Now()

	stamp := s.info.StoppedAt.Format("20060102_150405")
	doc := s.Document(stamp)

	var report entities.ExportReport
	if doc.TotalActions == 0 {
		s.logger.Warn("No actions recorded, nothing to export")
	} else {
		report = s.exporter.Export(doc, s.info, s.outputDir)
		for _, format := range entities.AllFormats {
			result, ok := report[format]
			if !ok {
				continue
			}
			if result.Err != nil {
				s.logger.Errorf("Export %s failed: %v", format, result.Err)
			} else {
				s.logger.Infof("Generated %s: %s", format, result.Path)
			}
		}
	}

	if err := s.releaseBrowser(); err != nil {
		return report, fmt.Errorf("close browser: %w", err)
	}

	return report, nil
}

// Close releases the browser without exporting. Used on abnormal
// termination of the operator interface.
func (s *Session) Close() error {
	return s.releaseBrowser()
}

func (s *Session) releaseBrowser() error {
	s.closeOnce.Do(func() {
		if s.browser != nil {
			s.closeErr = s.browser.Close()
		}
	})
	return s.closeErr
}
