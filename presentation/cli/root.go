package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"test_capture/application/session"
	"test_capture/domain/entities"
	"test_capture/infrastructure/browser"
	"test_capture/infrastructure/config"
	"test_capture/infrastructure/export"
)

var (
	cfgFile     string
	browserFlag string
	modeFlag    string
	urlFlag     string
	driverFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "test-capture",
	Short: "Records browser interactions and generates test cases",
	Long: `test-capture opens a browser, lets you interact with a page and
records page state captures into test case artifacts (JSON, text, an
executable replay script and an Excel workbook).`,
	RunE: run,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.Flags().StringVarP(&browserFlag, "browser", "b", "", "browser to launch: chrome, firefox or edge")
	rootCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "browsing mode: normal or private")
	rootCmd.Flags().StringVarP(&urlFlag, "url", "u", "", "URL to open for recording")
	rootCmd.Flags().StringVarP(&driverFlag, "driver", "d", "", "automation backend: playwright or selenium")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if driverFlag != "" {
		cfg.Browser.Driver = driverFlag
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger := newLogger(cfg.Logger)
	reader := bufio.NewReader(os.Stdin)

	browserType, mode, err := resolveBrowserChoice(reader, cfg)
	if err != nil {
		return err
	}

	url := strings.TrimSpace(urlFlag)
	if url == "" {
		url, err = prompt(reader, "Enter the URL to test: ")
		if err != nil {
			return err
		}
	}
	if url == "" {
		return fmt.Errorf("no URL given")
	}

	exporter := export.NewTestCaseExporter(logger, cfg.Export.WorkbookName)
	sess := session.New(browser.NewLauncher(cfg, logger), exporter, logger, cfg.Export.OutputDir)
	sess.Capturer().SetElementCap(cfg.Capture.ElementCap)
	sess.Capturer().SetBodyTextLimit(cfg.Capture.BodyTextLimit)

	ctx := context.Background()
	if err := sess.Open(ctx, browserType, mode, url); err != nil {
		return err
	}
	defer sess.Close()

	// Initial capture of the freshly loaded page
	if _, err := sess.Capture(ctx); err != nil {
		logger.Warnf("Initial capture failed: %v", err)
	}

	printInstructions()
	if err := recordLoop(ctx, reader, sess, logger); err != nil {
		return err
	}

	report, err := sess.Stop(ctx)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

// recordLoop is the operator command loop. It returns when the
// operator issues stop or closes stdin.
func recordLoop(ctx context.Context, reader *bufio.Reader, sess *session.Session, logger *logrus.Logger) error {
	for {
		input, err := prompt(reader, "\nEnter command (capture/note/stop/help): ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		command, rest := splitCommand(input)
		switch command {
		case "stop":
			return nil
		case "capture":
			snapshot, err := sess.Capture(ctx)
			if err != nil {
				logger.Errorf("Capture failed: %v", err)
				fmt.Println("Capture failed, you can retry.")
				continue
			}
			fmt.Printf("Page state captured: %s\n", snapshot.Title)
			fmt.Printf("  - Found %d buttons\n", len(snapshot.Buttons))
			fmt.Printf("  - Found %d input fields\n", len(snapshot.Inputs))
		case "note":
			if rest == "" {
				fmt.Println("Usage: note <text>")
				continue
			}
			sess.Note(ctx, rest)
			fmt.Println("Note recorded.")
		case "help":
			printHelp()
		case "":
			fmt.Println("(Interact with the browser, then type 'capture' to record)")
		default:
			fmt.Println("Unknown command. Type 'help' for available commands.")
		}
	}
}

func resolveBrowserChoice(reader *bufio.Reader, cfg *config.Config) (entities.BrowserType, entities.BrowserMode, error) {
	name := strings.ToLower(strings.TrimSpace(browserFlag))
	if name == "" {
		name = cfg.Browser.Default
	}

	var browserType entities.BrowserType
	switch name {
	case "chrome":
		browserType = entities.BrowserChrome
	case "firefox":
		browserType = entities.BrowserFirefox
	case "edge":
		browserType = entities.BrowserEdge
	default:
		return "", "", fmt.Errorf("unknown browser %q (want chrome, firefox or edge)", name)
	}

	modeName := strings.ToLower(strings.TrimSpace(modeFlag))
	if modeName == "" {
		modeName = "normal"
	}

	var mode entities.BrowserMode
	switch modeName {
	case "normal":
		mode = entities.ModeNormal
	case "private", "incognito", "inprivate":
		mode = entities.ModePrivate
	default:
		return "", "", fmt.Errorf("unknown mode %q (want normal or private)", modeName)
	}

	return browserType, mode, nil
}

func newLogger(cfg config.LoggerConfig) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

func prompt(reader *bufio.Reader, message string) (string, error) {
	fmt.Print(message)
	input, err := reader.ReadString('\n')
	if err != nil {
		return strings.TrimSpace(input), err
	}
	return strings.TrimSpace(input), nil
}

func splitCommand(input string) (string, string) {
	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])
	if len(parts) == 2 {
		return command, strings.TrimSpace(parts[1])
	}
	return command, ""
}

func printInstructions() {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Test Recording Started!")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Println("Instructions:")
	fmt.Println("- Interact with the page (click, type, navigate)")
	fmt.Println("- Type 'capture' to capture current page state")
	fmt.Println("- Type 'note <text>' to record a note")
	fmt.Println("- Type 'stop' to stop recording and generate test cases")
	fmt.Println(strings.Repeat("=", 60))
}

func printHelp() {
	fmt.Println("\nAvailable Commands:")
	fmt.Println("  capture - Capture current page state (buttons, inputs, text)")
	fmt.Println("  note    - Record a free-form note")
	fmt.Println("  stop    - Stop recording and generate test cases")
	fmt.Println("  help    - Show this help message")
}

func printReport(report entities.ExportReport) {
	if report == nil {
		fmt.Println("\nNo actions recorded. Nothing generated.")
		return
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Test Cases Generated")
	fmt.Println(strings.Repeat("=", 60))
	for _, format := range entities.AllFormats {
		result, ok := report[format]
		if !ok {
			continue
		}
		if result.Err != nil {
			fmt.Printf("  %-5s FAILED: %v\n", format, result.Err)
		} else {
			fmt.Printf("  %-5s %s\n", format, result.Path)
		}
	}
	fmt.Println(strings.Repeat("=", 60))
}
