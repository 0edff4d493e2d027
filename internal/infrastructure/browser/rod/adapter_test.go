package rod

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vethub-sync/internal/domain/entity"
)

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

// openPage launches a headless browser and navigates a fresh page to html.
func openPage(t *testing.T, html string) (*Page, context.Context) {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests skipped in short mode")
	}

	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.NoSandbox = true

	adapter, err := NewBrowserAdapter(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(adapter.Close)

	pp, err := adapter.NewPage(ctx)
	require.NoError(t, err)
	page := pp.(*Page)

	server := serveHTML(t, html)
	require.NoError(t, page.Navigate(ctx, server.URL))
	return page, ctx
}

func text(t *testing.T, page *Page, css string) string {
	t.Helper()
	el, err := page.page.Element(css)
	require.NoError(t, err)
	s, err := el.Text()
	require.NoError(t, err)
	return s
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Headless)
	assert.Equal(t, time.Duration(defaultSlowMotion), cfg.SlowMotion)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.False(t, cfg.NoSandbox, "Should be secure by default")
	assert.False(t, cfg.DevTools)
}

func TestBrowserAdapter_IsReady(t *testing.T) {
	if testing.Short() {
		t.Skip("browser tests skipped in short mode")
	}
	cfg := DefaultConfig()
	cfg.NoSandbox = true
	cfg.Timeout = 0 // corrected to the default

	adapter, err := NewBrowserAdapter(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, adapter.timeout)
	assert.True(t, adapter.IsReady())

	adapter.Close()
	assert.False(t, adapter.IsReady())
	adapter.Close()

	_, err = adapter.NewPage(context.Background())
	assert.Error(t, err)
}

func TestPage_Navigate(t *testing.T) {
	page, ctx := openPage(t, BasicHTML)

	assert.Contains(t, page.CurrentURL(), "http://127.0.0.1")

	for _, raw := range []string{"", "ftp://example.com", "javascript:alert(1)"} {
		err := page.Navigate(ctx, raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestPage_SurfacesInDocumentOrder(t *testing.T) {
	page, ctx := openPage(t, FramesHTML)
	page.WaitIdle(ctx, time.Second)

	surfaces, err := page.Surfaces(ctx)
	require.NoError(t, err)
	require.Len(t, surfaces, 4)

	want := []string{"Main", "Inner", "Nested", "Second"}
	for i, s := range surfaces {
		el, err := s.First(ctx, entity.Locator{CSS: "button"})
		require.NoError(t, err)
		require.NotNil(t, el, s.ID())
		label, err := el.Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, want[i], label)
	}
	assert.Equal(t, "main", surfaces[0].ID())
	assert.Equal(t, "frame-3", surfaces[3].ID())
}

func TestSurface_FirstWithTextFilter(t *testing.T) {
	page, ctx := openPage(t, ButtonsHTML)
	surfaces, err := page.Surfaces(ctx)
	require.NoError(t, err)
	main := surfaces[0]

	el, err := main.First(ctx, entity.Locator{CSS: `div[class*="btn" i]`, Text: "skip for 24"})
	require.NoError(t, err)
	require.NotNil(t, el)

	missing, err := main.First(ctx, entity.Locator{CSS: "button", Text: "Submit"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	confirm, err := main.First(ctx, entity.Locator{CSS: "button", Text: "Confirm PIN", ExactMatch: true})
	require.NoError(t, err)
	require.NotNil(t, confirm)
	disabled, err := confirm.Disabled(ctx)
	require.NoError(t, err)
	assert.True(t, disabled)

	hidden, err := main.First(ctx, entity.Locator{CSS: "button", Text: "Later"})
	require.NoError(t, err)
	require.NotNil(t, hidden)
	visible, err := hidden.Visible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestElement_ForceClickThroughCover(t *testing.T) {
	page, ctx := openPage(t, ButtonsHTML)
	surfaces, err := page.Surfaces(ctx)
	require.NoError(t, err)

	el, err := surfaces[0].First(ctx, entity.Locator{CSS: "div[onclick]", Text: "Skip"})
	require.NoError(t, err)
	require.NotNil(t, el)

	clickCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.Error(t, el.Click(clickCtx, false), "covered element should not take a normal click")

	require.NoError(t, el.Click(ctx, true))
	assert.Equal(t, "skipped", text(t, page, "#result"))
}

func TestElement_FillTypeAndEnter(t *testing.T) {
	page, ctx := openPage(t, FormHTML)
	surfaces, err := page.Surfaces(ctx)
	require.NoError(t, err)

	inputs, err := surfaces[0].All(ctx, "input")
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	typ, ok, err := inputs[2].Attribute(ctx, "type")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hidden", typ)
	_, ok, err = inputs[0].Attribute(ctx, "maxlength")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, inputs[0].Fill(ctx, "first"))
	require.NoError(t, inputs[0].Fill(ctx, ""))
	require.NoError(t, inputs[0].Type(ctx, "nurse", 0))
	require.NoError(t, inputs[1].Fill(ctx, "secret"))
	require.NoError(t, inputs[1].PressEnter(ctx))

	assert.Equal(t, "Submitted nurse", text(t, page, "#result"))
}

func TestPage_ShadowWalk(t *testing.T) {
	page, ctx := openPage(t, ShadowHTML)

	found, err := page.ShadowFind(ctx, entity.SearchTarget{Text: "Confirm PIN"})
	require.NoError(t, err)
	assert.False(t, found, "disabled buttons are skipped")

	found, err = page.ShadowFind(ctx, entity.SearchTarget{Text: "Confirm PIN", IncludeDisabled: true})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = page.ShadowFind(ctx, entity.SearchTarget{Text: "Cancel"})
	require.NoError(t, err)
	assert.False(t, found)

	clicked, err := page.ShadowClick(ctx, entity.SearchTarget{Text: "skip for 24"})
	require.NoError(t, err)
	assert.True(t, clicked)
	assert.Equal(t, "shadow clicked", text(t, page, "#result"))

	found, err = page.ShadowFind(ctx, entity.SearchTarget{Text: "Remind me later"})
	require.NoError(t, err)
	assert.True(t, found, "class names mark pseudo-buttons as clickable")

	clicked, err = page.ShadowClick(ctx, entity.SearchTarget{Text: "remind me"})
	require.NoError(t, err)
	assert.True(t, clicked)
	assert.Equal(t, "class button clicked", text(t, page, "#result"))
}

func TestPage_ShadowWalkWildcardSkipsTextInputs(t *testing.T) {
	page, ctx := openPage(t, ShadowInputOnlyHTML)

	found, err := page.ShadowFind(ctx, entity.SearchTarget{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPage_VisibleText(t *testing.T) {
	page, ctx := openPage(t, PatientListHTML)

	got, err := page.VisibleText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "\"Clara\" Iovino\nCanine • Pitbull\n23kg | 5y 0m | FS", got)
}

func TestPage_Screenshots(t *testing.T) {
	page, ctx := openPage(t, BasicHTML)

	shot, err := page.Screenshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", shot.Format)
	assert.LessOrEqual(t, shot.Width, 1024)
	assert.NotEmpty(t, shot.Data)

	path := filepath.Join(t.TempDir(), "debug", "page.png")
	require.NoError(t, page.SaveScreenshot(ctx, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestPage_PressKey(t *testing.T) {
	page, ctx := openPage(t, BasicHTML)

	assert.NoError(t, page.PressKey(ctx, "Escape"))
	assert.Error(t, page.PressKey(ctx, "F13"))
}

func TestPage_WaitURL(t *testing.T) {
	page, ctx := openPage(t, BasicHTML)

	require.NoError(t, page.WaitURL(ctx, func(u string) bool { return u != "" }))

	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	err := page.WaitURL(waitCtx, func(u string) bool { return false })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
