// Package playwright drives Chromium through playwright-go. It is the
// alternative to the rod driver, selected with BROWSER_DRIVER=playwright.
package playwright

import (
	"context"
	"fmt"
	"sync"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"vethub-sync/internal/application/port/output"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const defaultTimeout = 10 * time.Second

type BrowserConfig struct {
	Headless bool
	Timeout  time.Duration
	// InstallDriver downloads the playwright driver and Chromium when
	// missing.
	InstallDriver bool
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{Headless: true, Timeout: defaultTimeout}
}

type BrowserAdapter struct {
	pw      *pw.Playwright
	browser pw.Browser
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

func NewBrowserAdapter(cfg BrowserConfig) (*BrowserAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.InstallDriver {
		if err := pw.Install(&pw.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	runner, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := runner.Chromium.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(cfg.Headless),
	})
	if err != nil {
		_ = runner.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &BrowserAdapter{pw: runner, browser: browser, timeout: cfg.Timeout}, nil
}

func (b *BrowserAdapter) NewPage(ctx context.Context) (output.PagePort, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("browser is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := b.browser.NewPage(pw.BrowserNewPageOptions{
		Viewport: &pw.Size{Width: 1280, Height: 800},
	})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	page.SetDefaultTimeout(float64(b.timeout.Milliseconds()))
	return &Page{page: page, timeout: b.timeout}, nil
}

func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.pw != nil {
		_ = b.pw.Stop()
	}
}

// timeoutMs converts ctx's remaining time to playwright milliseconds, capped
// at fallback.
func timeoutMs(ctx context.Context, fallback time.Duration) *float64 {
	d := fallback
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return pw.Float(float64(d.Milliseconds()))
}
