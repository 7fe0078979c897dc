package interfaces

import (
	"context"

	"test_capture/domain/entities"
)

// BrowserSession defines the contract for the browser automation layer.
// Implementations own the browser process; callers never touch the
// underlying library directly.
type BrowserSession interface {
	// Navigate navigates the active page to a URL
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the URL of the active page
	CurrentURL(ctx context.Context) (string, error)

	// Title returns the title of the active page
	Title(ctx context.Context) (string, error)

	// QueryButtons returns the button-like elements in document order
	QueryButtons(ctx context.Context) ([]entities.ButtonInfo, error)

	// QueryInputs returns the input fields in document order
	QueryInputs(ctx context.Context) ([]entities.InputInfo, error)

	// VisibleText returns the visible text content of the page
	VisibleText(ctx context.Context) (string, error)

	// Evaluate runs a script on the active page and returns its result
	Evaluate(ctx context.Context, script string) (interface{}, error)

	// OnNavigation registers a callback fired when the page navigates
	// outside of an explicit Navigate call. The callback may be invoked
	// from a library-owned goroutine.
	OnNavigation(fn func(url, title string))

	// Close releases the browser. Safe to call more than once.
	Close() error
}
