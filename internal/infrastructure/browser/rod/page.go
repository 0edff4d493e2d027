package rod

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/infrastructure/browser/pagetext"
	"vethub-sync/internal/infrastructure/browser/screenshot"
	"vethub-sync/internal/infrastructure/browser/script"
)

var _ output.PagePort = (*Page)(nil)

var ErrInvalidURL = errors.New("invalid url")

const urlPollInterval = 250 * time.Millisecond

// Page wraps one tab. It is not safe for concurrent use, matching how the
// login flow drives it.
type Page struct {
	page    *rod.Page
	timeout time.Duration
}

func (p *Page) Navigate(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https" && rawURL != "about:blank") {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	pg := p.page.Context(ctx)
	if err := pg.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

func (p *Page) CurrentURL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *Page) WaitIdle(ctx context.Context, d time.Duration) {
	_ = p.page.Context(ctx).WaitIdle(d)
}

func (p *Page) WaitURL(ctx context.Context, match func(string) bool) error {
	t := time.NewTicker(urlPollInterval)
	defer t.Stop()
	for {
		if match(p.CurrentURL()) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Surfaces lists the main document followed by every frame, depth first in
// document order.
func (p *Page) Surfaces(ctx context.Context) ([]output.SurfacePort, error) {
	out := []output.SurfacePort{&Surface{id: "main", frame: p.page}}

	frames, err := collectFrames(ctx, p.page)
	for i, f := range frames {
		out = append(out, &Surface{id: fmt.Sprintf("frame-%d", i+1), frame: f})
	}
	return out, err
}

func collectFrames(ctx context.Context, pg *rod.Page) ([]*rod.Page, error) {
	els, err := pg.Context(ctx).Elements("iframe, frame")
	if err != nil {
		return nil, err
	}

	var out []*rod.Page
	for _, el := range els {
		fr, err := el.Frame()
		if err != nil {
			continue
		}
		out = append(out, fr)
		nested, _ := collectFrames(ctx, fr)
		out = append(out, nested...)
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
	res, err := p.page.Context(ctx).Eval(script.ShadowWalk, script.ShadowWalkArgs(t, click))
	if err != nil {
		return false, fmt.Errorf("shadow walk: %w", err)
	}
	return res.Value.Bool(), nil
}

var keys = map[string]input.Key{
	"Escape":    input.Escape,
	"Enter":     input.Enter,
	"Tab":       input.Tab,
	"Backspace": input.Backspace,
}

func (p *Page) PressKey(ctx context.Context, key string) error {
	k, ok := keys[key]
	if !ok {
		return fmt.Errorf("unsupported key %q", key)
	}
	return p.page.Context(ctx).Keyboard.Type(k)
}

func (p *Page) VisibleText(ctx context.Context) (string, error) {
	body, err := p.page.Context(ctx).Timeout(p.timeout).Element("body")
	if err != nil {
		return "", fmt.Errorf("body not found: %w", err)
	}
	html, err := body.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return pagetext.Extract(html, nil), nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).Timeout(p.timeout).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

// Screenshot returns a viewport JPEG no wider than 1024px.
func (p *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := p.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return screenshot.Preview(imgBytes)
}

// SaveScreenshot writes a full-page PNG to path.
func (p *Page) SaveScreenshot(ctx context.Context, path string) error {
	data, err := p.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (p *Page) Close() error {
	return p.page.Close()
}
