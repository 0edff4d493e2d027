// Package fakebrowser is an in-memory implementation of the browser ports
// for use-case tests. Elements are flat lists per surface, rendered to an
// x/net/html tree for CSS queries; text matching is emulated.
package fakebrowser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
)

var (
	_ output.BrowserPort = (*Browser)(nil)
	_ output.PagePort    = (*Page)(nil)
	_ output.SurfacePort = (*Surface)(nil)
	_ output.ElementPort = (*Element)(nil)
)

type Element struct {
	Tag        string
	Label      string
	Attrs      map[string]string
	Hidden     bool
	IsDisabled bool
	// Stall makes Visible block until its context ends.
	Stall bool
	// ClickErrs are returned by successive clicks before clicks succeed.
	ClickErrs []error
	OnClick   func()

	Clicks       int
	ForcedClicks int
	Scrolled     int
	Value        string
	Typed        []string
	Entered      int
}

func Button(label string) *Element {
	return &Element{Tag: "button", Label: label}
}

func Input(typ string) *Element {
	return &Element{Tag: "input", Attrs: map[string]string{"type": typ, "maxlength": "1"}}
}

func (e *Element) attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	if e.Stall {
		<-ctx.Done()
		return false, ctx.Err()
	}
	return !e.Hidden, nil
}

func (e *Element) Disabled(ctx context.Context) (bool, error) {
	return e.IsDisabled, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, ok := e.attr(name)
	return v, ok, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.Label, nil
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	e.Scrolled++
	return nil
}

func (e *Element) Click(ctx context.Context, force bool) error {
	if len(e.ClickErrs) > 0 {
		err := e.ClickErrs[0]
		e.ClickErrs = e.ClickErrs[1:]
		return err
	}
	e.Clicks++
	if force {
		e.ForcedClicks++
	}
	if e.OnClick != nil && !e.IsDisabled {
		e.OnClick()
	}
	return nil
}

func (e *Element) Fill(ctx context.Context, value string) error {
	e.Value = value
	return nil
}

func (e *Element) Type(ctx context.Context, value string, delay time.Duration) error {
	e.Value += value
	e.Typed = append(e.Typed, value)
	return nil
}

func (e *Element) PressEnter(ctx context.Context) error {
	e.Entered++
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

type Surface struct {
	Name     string
	Address  string
	Elements []*Element

	Queries int
}

func (s *Surface) ID() string  { return s.Name }
func (s *Surface) URL() string { return s.Address }

func (s *Surface) First(ctx context.Context, loc entity.Locator) (output.ElementPort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.Queries++
	els, err := s.query(loc.CSS)
	if err != nil {
		return nil, err
	}
	re := loc.Regexp()
	for _, el := range els {
		if re != nil && !re.MatchString(el.Label) {
			continue
		}
		return el, nil
	}
	return nil, nil
}

func (s *Surface) All(ctx context.Context, css string) ([]output.ElementPort, error) {
	els, err := s.query(css)
	if err != nil {
		return nil, err
	}
	out := make([]output.ElementPort, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

type Page struct {
	Address string
	Main    *Surface
	Frames  []*Surface
	// Shadow holds elements only reachable through shadow roots.
	Shadow []*Element
	Body   string
	// Source is returned by HTML.
	Source string

	// NavigateHook runs on Navigate and may rewrite the page.
	NavigateHook func(p *Page, url string)

	SurfaceCalls int
	ShadowFinds  int
	ShadowClicks int
	Screenshots  []string
	Keys         []string
	Visited      []string
	Closed       bool
}

func NewPage(address string, main ...*Element) *Page {
	return &Page{
		Address: address,
		Main:    &Surface{Name: "main", Address: address, Elements: main},
	}
}

// AddFrame appends a frame surface named frame-<n> in document order.
func (p *Page) AddFrame(address string, els ...*Element) *Surface {
	s := &Surface{Name: fmt.Sprintf("frame-%d", len(p.Frames)+1), Address: address, Elements: els}
	p.Frames = append(p.Frames, s)
	return s
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.Visited = append(p.Visited, url)
	p.Address = url
	if p.NavigateHook != nil {
		p.NavigateHook(p, url)
	}
	return nil
}

func (p *Page) CurrentURL() string { return p.Address }

func (p *Page) WaitIdle(ctx context.Context, d time.Duration) {}

func (p *Page) WaitURL(ctx context.Context, match func(string) bool) error {
	if match(p.Address) {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (p *Page) Surfaces(ctx context.Context) ([]output.SurfacePort, error) {
	p.SurfaceCalls++
	out := []output.SurfacePort{p.Main}
	for _, f := range p.Frames {
		out = append(out, f)
	}
	return out, nil
}

func textMatches(label string, t entity.SearchTarget) bool {
	want := strings.TrimSpace(t.Text)
	if !t.CaseSensitive {
		label, want = strings.ToLower(label), strings.ToLower(want)
	}
	if t.ExactMatch {
		return strings.TrimSpace(label) == want
	}
	return strings.Contains(label, want)
}

func (p *Page) walk(t entity.SearchTarget) *Element {
	candidates := append(append([]*Element{}, p.Main.Elements...), p.Shadow...)
	for _, el := range candidates {
		if !clickable(el) || (t.Wildcard() && textEntry(el)) || el.Hidden || (el.IsDisabled && !t.IncludeDisabled) {
			continue
		}
		if textMatches(el.Label, t) {
			return el
		}
	}
	return nil
}

func (p *Page) ShadowFind(ctx context.Context, t entity.SearchTarget) (bool, error) {
	p.ShadowFinds++
	return p.walk(t) != nil, nil
}

func (p *Page) ShadowClick(ctx context.Context, t entity.SearchTarget) (bool, error) {
	p.ShadowClicks++
	el := p.walk(t)
	if el == nil {
		return false, nil
	}
	return true, el.Click(ctx, true)
}

func (p *Page) PressKey(ctx context.Context, key string) error {
	p.Keys = append(p.Keys, key)
	return nil
}

func (p *Page) VisibleText(ctx context.Context) (string, error) {
	return p.Body, nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.Source, nil
}

func (p *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return &entity.Screenshot{Data: []byte{0xff}, Format: "jpeg", Width: 1, Height: 1}, nil
}

func (p *Page) SaveScreenshot(ctx context.Context, path string) error {
	p.Screenshots = append(p.Screenshots, path)
	return nil
}

func (p *Page) Close() error {
	p.Closed = true
	return nil
}

// Browser hands out a prepared page.
type Browser struct {
	Page   *Page
	Err    error
	Opened int
	Closed bool
}

func (b *Browser) NewPage(ctx context.Context) (output.PagePort, error) {
	if b.Err != nil {
		return nil, b.Err
	}
	if b.Page == nil {
		return nil, errors.New("fakebrowser: no page prepared")
	}
	b.Opened++
	return b.Page, nil
}

func (b *Browser) Close() { b.Closed = true }

// NoSleep is a wait.SleepFunc that returns immediately and counts calls.
type NoSleep struct {
	Calls []time.Duration
}

func (n *NoSleep) Sleep(ctx context.Context, d time.Duration) error {
	n.Calls = append(n.Calls, d)
	return ctx.Err()
}
