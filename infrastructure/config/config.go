package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BrowserConfig controls how the browser session is launched
type BrowserConfig struct {
	// Driver selects the automation backend: "playwright" or "selenium"
	Driver   string `mapstructure:"driver"`
	Default  string `mapstructure:"default"`
	Headless bool   `mapstructure:"headless"`
	SlowMoMs int    `mapstructure:"slow_mo_ms"`
	Viewport struct {
		Width  int `mapstructure:"width"`
		Height int `mapstructure:"height"`
	} `mapstructure:"viewport"`
}

// CaptureConfig bounds what a page capture records
type CaptureConfig struct {
	ElementCap    int `mapstructure:"element_cap"`
	BodyTextLimit int `mapstructure:"body_text_limit"`
}

// ExportConfig controls where generated artifacts land
type ExportConfig struct {
	OutputDir     string `mapstructure:"output_dir"`
	RecordingsDir string `mapstructure:"recordings_dir"`
	WorkbookName  string `mapstructure:"workbook_name"`
}

// LoggerConfig controls the operator-facing log output
type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the full application configuration
type Config struct {
	Browser BrowserConfig `mapstructure:"browser"`
	Capture CaptureConfig `mapstructure:"capture"`
	Export  ExportConfig  `mapstructure:"export"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("browser.driver", "playwright")
	v.SetDefault("browser.default", "chrome")
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.slow_mo_ms", 100)
	v.SetDefault("browser.viewport.width", 1920)
	v.SetDefault("browser.viewport.height", 1080)
	v.SetDefault("capture.element_cap", 50)
	v.SetDefault("capture.body_text_limit", 1000)
	v.SetDefault("export.output_dir", "test_cases")
	v.SetDefault("export.recordings_dir", "test_recordings")
	v.SetDefault("export.workbook_name", "Doceree_TestCases.xlsx")
	v.SetDefault("logger.level", "info")
}

// Load reads config.yaml and TESTCAPTURE_* environment variables. A
// missing config file is fine; defaults cover everything. A .env file
// is loaded first when present.
func Load(cfgFile string) (*Config, error) {
	// .env is optional, same as environment variables winning over it
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("TESTCAPTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the rest of the tool cannot work with
func (c *Config) Validate() error {
	switch c.Browser.Driver {
	case "playwright", "selenium":
	default:
		return fmt.Errorf("browser.driver must be \"playwright\" or \"selenium\", got %q", c.Browser.Driver)
	}

	switch c.Browser.Default {
	case "chrome", "firefox", "edge":
	default:
		return fmt.Errorf("browser.default must be chrome, firefox or edge, got %q", c.Browser.Default)
	}

	if c.Capture.ElementCap <= 0 {
		return fmt.Errorf("capture.element_cap must be a positive integer, got %d", c.Capture.ElementCap)
	}
	if c.Capture.BodyTextLimit <= 0 {
		return fmt.Errorf("capture.body_text_limit must be a positive integer, got %d", c.Capture.BodyTextLimit)
	}
	if c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir must not be empty")
	}
	if c.Export.WorkbookName == "" {
		return fmt.Errorf("export.workbook_name must not be empty")
	}

	return nil
}
