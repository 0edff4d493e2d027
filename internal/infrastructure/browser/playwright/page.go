package playwright

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/infrastructure/browser/pagetext"
	"vethub-sync/internal/infrastructure/browser/script"
	"vethub-sync/internal/infrastructure/browser/screenshot"
)

var _ output.PagePort = (*Page)(nil)

const urlPollInterval = 250 * time.Millisecond

type Page struct {
	page    pw.Page
	timeout time.Duration
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if _, err := p.page.Goto(url, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateDomcontentloaded,
		Timeout:   timeoutMs(ctx, 60*time.Second),
	}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *Page) CurrentURL() string {
	return p.page.URL()
}

func (p *Page) WaitIdle(ctx context.Context, d time.Duration) {
	_ = p.page.WaitForLoadState(pw.PageWaitForLoadStateOptions{
		State:   pw.LoadStateNetworkidle,
		Timeout: timeoutMs(ctx, d),
	})
}

func (p *Page) WaitURL(ctx context.Context, match func(string) bool) error {
	t := time.NewTicker(urlPollInterval)
	defer t.Stop()
	for {
		if match(p.page.URL()) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Surfaces lists the main frame followed by the child frames in the order
// playwright reports them.
func (p *Page) Surfaces(ctx context.Context) ([]output.SurfacePort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	main := p.page.MainFrame()
	out := []output.SurfacePort{&Surface{id: "main", frame: main, timeout: p.timeout}}
	n := 0
	for _, f := range p.page.Frames() {
		if f == main {
			continue
		}
		n++
		out = append(out, &Surface{id: fmt.Sprintf("frame-%d", n), frame: f, timeout: p.timeout})
	}
	return out, nil
}

func (p *Page) ShadowFind(ctx context.Context, t entity.SearchTarget) (bool, error) {
	return p.shadowWalk(ctx, t, false)
}

func (p *Page) ShadowClick(ctx context.Context, t entity.SearchTarget) (bool, error) {
	return p.shadowWalk(ctx, t, true)
}

func (p *Page) shadowWalk(ctx context.Context, t entity.SearchTarget, click bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	res, err := p.page.Evaluate(script.ShadowWalk, script.ShadowWalkArgs(t, click))
	if err != nil {
		return false, fmt.Errorf("shadow walk: %w", err)
	}
	ok, _ := res.(bool)
	return ok, nil
}

func (p *Page) PressKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Keyboard().Press(key)
}

func (p *Page) VisibleText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return pagetext.Extract(html, nil), nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

func (p *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	data, err := p.page.Screenshot(pw.PageScreenshotOptions{
		Type:    pw.ScreenshotTypeJpeg,
		Quality: pw.Int(80),
		Timeout: timeoutMs(ctx, p.timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return screenshot.Preview(data)
}

func (p *Page) SaveScreenshot(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	_, err := p.page.Screenshot(pw.PageScreenshotOptions{
		Path:     pw.String(path),
		FullPage: pw.Bool(true),
		Timeout:  timeoutMs(ctx, p.timeout),
	})
	return err
}

func (p *Page) Close() error {
	return p.page.Close()
}
