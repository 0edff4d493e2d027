package playwright

import (
	"context"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/infrastructure/browser/script"
)

var (
	_ output.SurfacePort = (*Surface)(nil)
	_ output.ElementPort = (*Element)(nil)
)

type Surface struct {
	id      string
	frame   pw.Frame
	timeout time.Duration
}

func (s *Surface) ID() string  { return s.id }
func (s *Surface) URL() string { return s.frame.URL() }

func (s *Surface) First(ctx context.Context, loc entity.Locator) (output.ElementPort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var opts []pw.FrameLocatorOptions
	if re := loc.Regexp(); re != nil {
		opts = append(opts, pw.FrameLocatorOptions{HasText: re})
	}
	l := s.frame.Locator(loc.CSS, opts...)

	n, err := l.Count()
	if err != nil || n == 0 {
		return nil, err
	}
	return &Element{loc: l.First(), timeout: s.timeout}, nil
}

func (s *Surface) All(ctx context.Context, css string) ([]output.ElementPort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locs, err := s.frame.Locator(css).All()
	if err != nil {
		return nil, err
	}
	out := make([]output.ElementPort, 0, len(locs))
	for _, l := range locs {
		out = append(out, &Element{loc: l, timeout: s.timeout})
	}
	return out, nil
}

// Element is a locator pinned to one match. Playwright re-resolves it on
// every call.
type Element struct {
	loc     pw.Locator
	timeout time.Duration
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.loc.IsVisible()
}

func (e *Element) Disabled(ctx context.Context) (bool, error) {
	res, err := e.loc.Evaluate(script.IsDisabled, nil, pw.LocatorEvaluateOptions{Timeout: timeoutMs(ctx, e.timeout)})
	if err != nil {
		return false, err
	}
	disabled, _ := res.(bool)
	return disabled, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	res, err := e.loc.Evaluate(script.Attribute, name, pw.LocatorEvaluateOptions{Timeout: timeoutMs(ctx, e.timeout)})
	if err != nil || res == nil {
		return "", false, err
	}
	v, _ := res.(string)
	return v, true, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.loc.InnerText(pw.LocatorInnerTextOptions{Timeout: timeoutMs(ctx, e.timeout)})
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	return e.loc.ScrollIntoViewIfNeeded(pw.LocatorScrollIntoViewIfNeededOptions{Timeout: timeoutMs(ctx, e.timeout)})
}

func (e *Element) Click(ctx context.Context, force bool) error {
	return e.loc.Click(pw.LocatorClickOptions{
		Force:   pw.Bool(force),
		Timeout: timeoutMs(ctx, e.timeout),
	})
}

func (e *Element) Fill(ctx context.Context, value string) error {
	return e.loc.Fill(value, pw.LocatorFillOptions{Timeout: timeoutMs(ctx, e.timeout)})
}

func (e *Element) Type(ctx context.Context, value string, delay time.Duration) error {
	return e.loc.Type(value, pw.LocatorTypeOptions{
		Delay:   pw.Float(float64(delay.Milliseconds())),
		Timeout: timeoutMs(ctx, e.timeout),
	})
}

func (e *Element) PressEnter(ctx context.Context) error {
	return e.loc.Press("Enter", pw.LocatorPressOptions{Timeout: timeoutMs(ctx, e.timeout)})
}
