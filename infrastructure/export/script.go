package export

import (
	"fmt"
	"os"
	"strings"

	"test_capture/domain/entities"
)

const scriptHeader = `// Code generated by the test capture tool from a recorded session.
//
// Replays the recorded navigations and verifies the page titles seen
// during recording. Run with:
//
//	go run test_case_TIMESTAMP.go
package main

import (
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"
)

func main() {
	pw, err := playwright.Run()
	if err != nil {
		log.Fatalf("could not start playwright: %v", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(false),
		Channel:  playwright.String("chrome"),
	})
	if err != nil {
		log.Fatalf("could not launch browser: %v", err)
	}
	defer browser.Close()

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1920, Height: 1080},
	})
	if err != nil {
		log.Fatalf("could not create context: %v", err)
	}
	defer context.Close()

	page, err := context.NewPage()
	if err != nil {
		log.Fatalf("could not create page: %v", err)
	}
`

const scriptFooter = `
	log.Println("replay finished")
}

func navigate(page playwright.Page, url string) {
	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		log.Fatalf("could not navigate to %s: %v", url, err)
	}
}

func assertTitleIs(page playwright.Page, want string) {
	title, err := page.Title()
	if err != nil {
		log.Fatalf("could not read title: %v", err)
	}
	if title != want {
		log.Fatalf("title mismatch: got %q, want %q", title, want)
	}
}

func assertTitleContains(page playwright.Page, want string) {
	title, err := page.Title()
	if err != nil {
		log.Fatalf("could not read title: %v", err)
	}
	if !strings.Contains(title, want) {
		log.Fatalf("title mismatch: got %q, want it to contain %q", title, want)
	}
}

func assertVisible(page playwright.Page, selector string) {
	visible, err := page.Locator(selector).IsVisible()
	if err != nil {
		log.Fatalf("could not check %s: %v", selector, err)
	}
	if !visible {
		log.Fatalf("expected %s to be visible", selector)
	}
}
`

// scriptButtonChecks bounds the per-capture visibility assertions the
// generated script carries
const scriptButtonChecks = 5

// RenderScript renders an executable Go replay of the recorded
// navigations. Only navigate and capture records carry replayable
// semantics; notes and stops are skipped.
func RenderScript(doc *entities.TestCaseDocument) string {
	var b strings.Builder

	b.WriteString(scriptHeader)

	for _, action := range doc.Actions {
		switch payload := action.Payload.(type) {
		case entities.NavigatePayload:
			fmt.Fprintf(&b, "\n\t// Navigate to: %s\n", payload.URL)
			fmt.Fprintf(&b, "\tnavigate(page, %q)\n", payload.URL)
			fmt.Fprintf(&b, "\tassertTitleIs(page, %q)\n", payload.PageTitle)

		case entities.PageSnapshot:
			fmt.Fprintf(&b, "\n\t// Page capture: %s\n", payload.Title)
			fmt.Fprintf(&b, "\tnavigate(page, %q)\n", payload.URL)
			fmt.Fprintf(&b, "\tassertTitleContains(page, %q)\n", payload.Title)
			checks := 0
			for _, btn := range payload.Buttons {
				if btn.ID == "" {
					continue
				}
				fmt.Fprintf(&b, "\tassertVisible(page, %q)\n", "#"+btn.ID)
				checks++
				if checks == scriptButtonChecks {
					break
				}
			}
		}
	}

	b.WriteString(scriptFooter)
	return b.String()
}

func writeScript(doc *entities.TestCaseDocument, path string) error {
	if err := os.WriteFile(path, []byte(RenderScript(doc)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
