package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"test_capture/domain/entities"
	"test_capture/domain/interfaces"
	"test_capture/infrastructure/config"
)

type playwrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logrus.Logger

	mu         sync.Mutex
	lastURL    string
	suppressed bool
	onNav      func(url, title string)
	closed     bool
}

// NewPlaywrightSession launches a browser through playwright. Chrome
// and Edge run on the chromium engine via their release channels;
// private mode maps to --incognito / --inprivate. Firefox private
// browsing relies on the context isolation playwright provides anyway.
func NewPlaywrightSession(cfg config.BrowserConfig, recordingsDir string, browserType entities.BrowserType, mode entities.BrowserMode, logger *logrus.Logger) (interfaces.BrowserSession, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMoMs)),
	}

	var launcher playwright.BrowserType
	switch browserType {
	case entities.BrowserChrome:
		launcher = pw.Chromium
		launchOptions.Channel = playwright.String("chrome")
		if mode == entities.ModePrivate {
			launchOptions.Args = append(launchOptions.Args, "--incognito")
		}
	case entities.BrowserEdge:
		launcher = pw.Chromium
		launchOptions.Channel = playwright.String("msedge")
		if mode == entities.ModePrivate {
			launchOptions.Args = append(launchOptions.Args, "--inprivate")
		}
	case entities.BrowserFirefox:
		launcher = pw.Firefox
	default:
		pw.Stop()
		return nil, fmt.Errorf("unsupported browser: %s", browserType)
	}

	browser, err := launcher.Launch(launchOptions)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.Viewport.Width,
			Height: cfg.Viewport.Height,
		},
	}
	if recordingsDir != "" {
		contextOptions.RecordVideo = &playwright.RecordVideo{Dir: recordingsDir}
	}

	browserContext, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	s := &playwrightSession{
		pw:      pw,
		browser: browser,
		context: browserContext,
		page:    page,
		logger:  logger,
	}

	page.OnFrameNavigated(func(frame playwright.Frame) {
		// Only main frame navigations count
		if frame.ParentFrame() != nil {
			return
		}
		s.handleNavigated(frame.URL())
	})

	logger.Infof("Browser opened in %s mode", mode)
	return s, nil
}

func (s *playwrightSession) handleNavigated(url string) {
	s.mu.Lock()
	if s.suppressed || url == s.lastURL || url == "" {
		s.lastURL = url
		s.mu.Unlock()
		return
	}
	s.lastURL = url
	fn := s.onNav
	s.mu.Unlock()

	if fn == nil {
		return
	}

	title, err := s.page.Title()
	if err != nil {
		return
	}
	fn(url, title)
}

// Navigate - navigates to the specified URL. The navigation listener is
// suppressed for the duration so explicit navigations are not double
// counted.
func (s *playwrightSession) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	s.suppressed = true
	s.mu.Unlock()

	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(30000),
	})

	s.mu.Lock()
	s.lastURL = s.page.URL()
	s.suppressed = false
	s.mu.Unlock()

	return err
}

func (s *playwrightSession) CurrentURL(ctx context.Context) (string, error) {
	return s.page.URL(), nil
}

func (s *playwrightSession) Title(ctx context.Context) (string, error) {
	return s.page.Title()
}

func (s *playwrightSession) QueryButtons(ctx context.Context) ([]entities.ButtonInfo, error) {
	result, err := s.page.Evaluate("() => {" + buttonScriptBody + "}")
	if err != nil {
		return nil, fmt.Errorf("failed to query buttons: %w", err)
	}
	return parseButtons(result), nil
}

func (s *playwrightSession) QueryInputs(ctx context.Context) ([]entities.InputInfo, error) {
	result, err := s.page.Evaluate("() => {" + inputScriptBody + "}")
	if err != nil {
		return nil, fmt.Errorf("failed to query inputs: %w", err)
	}
	return parseInputs(result), nil
}

func (s *playwrightSession) VisibleText(ctx context.Context) (string, error) {
	result, err := s.page.Evaluate("() => {" + bodyTextScriptBody + "}")
	if err != nil {
		return "", fmt.Errorf("failed to read body text: %w", err)
	}
	if text, ok := result.(string); ok {
		return text, nil
	}
	return "", nil
}

func (s *playwrightSession) Evaluate(ctx context.Context, script string) (interface{}, error) {
	return s.page.Evaluate(script)
}

func (s *playwrightSession) OnNavigation(fn func(url, title string)) {
	s.mu.Lock()
	s.onNav = fn
	s.mu.Unlock()
}

// Close - closes page, context, browser and the playwright driver.
// "target closed" errors on teardown are expected and ignored.
func (s *playwrightSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var closeErr error

	if s.page != nil {
		if err := s.page.Close(); err != nil && !isClosedErr(err) {
			closeErr = fmt.Errorf("failed to close page: %w", err)
		}
	}
	if s.context != nil {
		if err := s.context.Close(); err != nil && !isClosedErr(err) {
			closeErr = appendErr(closeErr, fmt.Errorf("failed to close context: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil && !isClosedErr(err) {
			closeErr = appendErr(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil && !isClosedErr(err) {
			closeErr = appendErr(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	return closeErr
}
