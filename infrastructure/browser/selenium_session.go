package browser

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"test_capture/domain/entities"
	"test_capture/domain/interfaces"
	"test_capture/infrastructure/config"
)

const navPollInterval = 500 * time.Millisecond

type seleniumSession struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger

	mu         sync.Mutex
	lastURL    string
	suppressed bool
	onNav      func(url, title string)
	closed     bool
	done       chan struct{}
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver() (string, error) {
	if path := os.Getenv("BROWSER_DRIVER_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary() string {
	if path := os.Getenv("CHROME_BINARY_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// freePort asks the kernel for an unused TCP port. Chromedriver's
// default port may be held by another driver or a crashed session.
func freePort() (int, error) {
	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, fmt.Errorf("reserve chromedriver port: %w", err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

// NewSeleniumSession launches Chrome through chromedriver. The selenium
// backend supports Chrome only; navigation monitoring is done by
// polling since the webdriver protocol delivers no events.
func NewSeleniumSession(cfg config.BrowserConfig, browserType entities.BrowserType, mode entities.BrowserMode, logger *logrus.Logger) (interfaces.BrowserSession, error) {
	if browserType != entities.BrowserChrome {
		return nil, fmt.Errorf("selenium driver supports chrome only, got %s", browserType)
	}

	driverPath, err := findChromeDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	port, err := freePort()
	if err != nil {
		return nil, err
	}

	service, err := selenium.NewChromeDriverService(driverPath, port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCaps := chrome.Capabilities{
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			fmt.Sprintf("--window-size=%d,%d", cfg.Viewport.Width, cfg.Viewport.Height),
		},
	}
	if mode == entities.ModePrivate {
		chromeCaps.Args = append(chromeCaps.Args, "--incognito")
	}
	if cfg.Headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless=new")
	}
	if chromeBinary := findChromeBinary(); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}

	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		service.Stop()
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	s := &seleniumSession{
		wd:      wd,
		service: service,
		logger:  logger,
		done:    make(chan struct{}),
	}

	go s.pollNavigation()

	logger.Infof("Browser opened in %s mode", mode)
	return s, nil
}

// pollNavigation watches the current URL and fires the navigation
// callback on changes, emulating the event delivery playwright gives
// us for free.
func (s *seleniumSession) pollNavigation() {
	ticker := time.NewTicker(navPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			url, err := s.wd.CurrentURL()
			if err != nil {
				continue
			}

			s.mu.Lock()
			if s.suppressed || url == s.lastURL || url == "" {
				s.lastURL = url
				s.mu.Unlock()
				continue
			}
			s.lastURL = url
			fn := s.onNav
			s.mu.Unlock()

			if fn == nil {
				continue
			}
			title, err := s.wd.Title()
			if err != nil {
				continue
			}
			fn(url, title)
		}
	}
}

func (s *seleniumSession) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	s.suppressed = true
	s.mu.Unlock()

	err := s.wd.Get(url)

	s.mu.Lock()
	if current, urlErr := s.wd.CurrentURL(); urlErr == nil {
		s.lastURL = current
	}
	s.suppressed = false
	s.mu.Unlock()

	return err
}

func (s *seleniumSession) CurrentURL(ctx context.Context) (string, error) {
	return s.wd.CurrentURL()
}

func (s *seleniumSession) Title(ctx context.Context) (string, error) {
	return s.wd.Title()
}

func (s *seleniumSession) QueryButtons(ctx context.Context) ([]entities.ButtonInfo, error) {
	result, err := s.wd.ExecuteScript(buttonScriptBody, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query buttons: %w", err)
	}
	return parseButtons(result), nil
}

func (s *seleniumSession) QueryInputs(ctx context.Context) ([]entities.InputInfo, error) {
	result, err := s.wd.ExecuteScript(inputScriptBody, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query inputs: %w", err)
	}
	return parseInputs(result), nil
}

func (s *seleniumSession) VisibleText(ctx context.Context) (string, error) {
	result, err := s.wd.ExecuteScript(bodyTextScriptBody, nil)
	if err != nil {
		return "", fmt.Errorf("failed to read body text: %w", err)
	}
	if text, ok := result.(string); ok {
		return text, nil
	}
	return "", nil
}

func (s *seleniumSession) Evaluate(ctx context.Context, script string) (interface{}, error) {
	return s.wd.ExecuteScript(script, nil)
}

func (s *seleniumSession) OnNavigation(fn func(url, title string)) {
	s.mu.Lock()
	s.onNav = fn
	s.mu.Unlock()
}

func (s *seleniumSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)

	var closeErr error
	if err := s.wd.Quit(); err != nil && !isClosedErr(err) {
		closeErr = fmt.Errorf("failed to quit webdriver: %w", err)
	}
	if err := s.service.Stop(); err != nil && !isClosedErr(err) {
		closeErr = appendErr(closeErr, fmt.Errorf("failed to stop chromedriver: %w", err))
	}

	return closeErr
}
