package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/infrastructure/browser/script"
	"vethub-sync/internal/usecase/wait"
)

var (
	_ output.SurfacePort = (*Surface)(nil)
	_ output.ElementPort = (*Element)(nil)
)

// Surface is the main document or one frame.
type Surface struct {
	id    string
	frame *rod.Page
}

func (s *Surface) ID() string { return s.id }

// URL is the document location; for frames Info would report the tab.
func (s *Surface) URL() string {
	res, err := s.frame.Eval(`() => location.href`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// First does not wait for the element to appear.
func (s *Surface) First(ctx context.Context, loc entity.Locator) (output.ElementPort, error) {
	fr := s.frame.Context(ctx)

	var (
		has bool
		el  *rod.Element
		err error
	)
	if loc.HasTextFilter() {
		has, el, err = fr.HasR(loc.CSS, loc.JSRegex())
	} else {
		has, el, err = fr.Has(loc.CSS)
	}
	if err != nil || !has {
		return nil, err
	}
	return &Element{el: el}, nil
}

func (s *Surface) All(ctx context.Context, css string) ([]output.ElementPort, error) {
	els, err := s.frame.Context(ctx).Elements(css)
	if err != nil {
		return nil, err
	}
	out := make([]output.ElementPort, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el})
	}
	return out, nil
}

type Element struct {
	el *rod.Element
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *Element) Disabled(ctx context.Context) (bool, error) {
	res, err := e.el.Context(ctx).Eval(script.IsDisabled)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil || v == nil {
		return "", false, err
	}
	return *v, true, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	return e.el.Context(ctx).ScrollIntoView()
}

// Click with force skips rod's actionability checks and calls the DOM click
// directly, which also works on covered elements.
func (e *Element) Click(ctx context.Context, force bool) error {
	el := e.el.Context(ctx)
	if force {
		_, err := el.Eval(`() => this.click()`)
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *Element) Fill(ctx context.Context, value string) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return err
	}
	if value == "" {
		return el.Type(input.Backspace)
	}
	return el.Input(value)
}

func (e *Element) Type(ctx context.Context, value string, delay time.Duration) error {
	el := e.el.Context(ctx)
	if err := el.Focus(); err != nil {
		return err
	}
	for _, r := range value {
		if err := el.Type(input.Key(r)); err != nil {
			return err
		}
		if err := wait.Sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

func (e *Element) PressEnter(ctx context.Context) error {
	return e.el.Context(ctx).Type(input.Enter)
}
