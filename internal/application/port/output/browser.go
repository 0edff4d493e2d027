package output

import (
	"context"
	"time"

	"vethub-sync/internal/domain/entity"
)

// BrowserPort launches pages against the third-party hospital UI.
type BrowserPort interface {
	NewPage(ctx context.Context) (PagePort, error)
	Close()
}

// PagePort is a live, navigated page. It is owned by one automation flow at
// a time; nothing here is safe for concurrent use.
type PagePort interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL() string
	WaitIdle(ctx context.Context, d time.Duration)
	// WaitURL blocks until match reports true for the current URL or ctx ends.
	WaitURL(ctx context.Context, match func(url string) bool) error

	// Surfaces lists the main document first, then every embedded frame in
	// document order.
	Surfaces(ctx context.Context) ([]SurfacePort, error)
	// ShadowFind walks the document including open shadow roots and reports
	// whether a visible clickable element matches the target.
	ShadowFind(ctx context.Context, target entity.SearchTarget) (bool, error)
	// ShadowClick repeats the ShadowFind walk and clicks the first match.
	ShadowClick(ctx context.Context, target entity.SearchTarget) (bool, error)

	PressKey(ctx context.Context, key string) error
	VisibleText(ctx context.Context) (string, error)
	// HTML returns the serialised main document.
	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	SaveScreenshot(ctx context.Context, path string) error

	Close() error
}

// SurfacePort is a borrowed handle to one document context.
type SurfacePort interface {
	ID() string
	URL() string
	// First returns the first element matching the locator, or nil when
	// nothing matches. Absence is not an error.
	First(ctx context.Context, loc entity.Locator) (ElementPort, error)
	All(ctx context.Context, css string) ([]ElementPort, error)
}

type ElementPort interface {
	Visible(ctx context.Context) (bool, error)
	Disabled(ctx context.Context) (bool, error)
	Attribute(ctx context.Context, name string) (string, bool, error)
	Text(ctx context.Context) (string, error)

	ScrollIntoView(ctx context.Context) error
	// Click performs a pointer click. With force the actionability checks are
	// bypassed and the element's native click() is dispatched.
	Click(ctx context.Context, force bool) error
	Fill(ctx context.Context, value string) error
	Type(ctx context.Context, value string, delay time.Duration) error
	PressEnter(ctx context.Context) error
}
