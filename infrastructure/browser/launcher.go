package browser

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"test_capture/application/session"
	"test_capture/domain/entities"
	"test_capture/domain/interfaces"
	"test_capture/infrastructure/config"
)

// NewLauncher builds the launch function for the configured driver
func NewLauncher(cfg *config.Config, logger *logrus.Logger) session.LaunchFunc {
	return func(ctx context.Context, browserType entities.BrowserType, mode entities.BrowserMode) (interfaces.BrowserSession, error) {
		switch cfg.Browser.Driver {
		case "selenium":
			return NewSeleniumSession(cfg.Browser, browserType, mode, logger)
		case "playwright":
			return NewPlaywrightSession(cfg.Browser, cfg.Export.RecordingsDir, browserType, mode, logger)
		default:
			return nil, fmt.Errorf("unknown browser driver: %q", cfg.Browser.Driver)
		}
	}
}
