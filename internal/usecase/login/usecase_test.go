package login

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/infrastructure/logger"
	"vethub-sync/internal/testutil/fakebrowser"
)

const base = "https://vetradar.test"

type stubResolver struct {
	outcome *entity.ChallengeOutcome
	err     error
	pins    []string
	onCall  func(page output.PagePort)
}

func (s *stubResolver) Resolve(ctx context.Context, page output.PagePort, pin string) (*entity.ChallengeOutcome, error) {
	s.pins = append(s.pins, pin)
	if s.onCall != nil {
		s.onCall(page)
	}
	return s.outcome, s.err
}

func textInput(typ string) *fakebrowser.Element {
	return &fakebrowser.Element{Tag: "input", Attrs: map[string]string{"type": typ}}
}

// loginPage serves a two-field form at /login; submitting it moves to next.
func loginPage(next string) (*fakebrowser.Page, *fakebrowser.Element, *fakebrowser.Element) {
	user, pass := textInput("email"), textInput("password")
	page := fakebrowser.NewPage("about:blank")
	page.NavigateHook = func(p *fakebrowser.Page, url string) {
		if strings.HasSuffix(url, "/login") {
			p.Main.Elements = []*fakebrowser.Element{textInput("hidden"), user, pass}
		}
	}
	if next != "" {
		pass.OnClick = func() { page.Address = next }
	}
	return page, user, pass
}

func newUseCase(page *fakebrowser.Page, resolver ChallengeResolver) (*UseCase, *fakebrowser.Browser) {
	browser := &fakebrowser.Browser{Page: page}
	cfg := DefaultConfig()
	cfg.BaseURL = base
	cfg.DebugDir = "debug"
	cfg.RedirectTimeout = 10 * time.Millisecond
	sleep := &fakebrowser.NoSleep{}
	return New(browser, resolver, logger.NewNop(), cfg, WithSleep(sleep.Sleep)), browser
}

func TestAcquire_Success(t *testing.T) {
	page, user, pass := loginPage(base + "/patients")
	resolver := &stubResolver{}
	uc, browser := newUseCase(page, resolver)

	sess, err := uc.Acquire(context.Background(), entity.Credentials{Username: "nurse@vet.test", Password: "secret", PIN: "32597"})
	require.NoError(t, err)
	defer sess.Close()

	assert.Equal(t, []string{base + "/login"}, page.Visited)
	assert.Equal(t, "nurse@vet.test", user.Value)
	assert.Equal(t, "secret", pass.Value)
	assert.Equal(t, 1, pass.Entered)
	assert.Equal(t, base+"/patients", sess.Info.URL)
	assert.NotEmpty(t, sess.Info.ID)
	assert.Nil(t, sess.Info.Challenge)
	assert.Empty(t, resolver.pins)
	assert.Equal(t, 1, browser.Opened)
	assert.False(t, page.Closed)
}

func TestAcquire_RunsChallengeWithPIN(t *testing.T) {
	page, _, _ := loginPage(base + "/set_up_pin")
	resolver := &stubResolver{
		outcome: &entity.ChallengeOutcome{State: entity.ChallengeSkipped, Via: "Skip"},
		onCall: func(p output.PagePort) {
			p.(*fakebrowser.Page).Address = base + "/patients"
		},
	}
	uc, _ := newUseCase(page, resolver)

	sess, err := uc.Acquire(context.Background(), entity.Credentials{Username: "u", Password: "p", PIN: "32597"})
	require.NoError(t, err)

	assert.Equal(t, []string{"32597"}, resolver.pins)
	require.NotNil(t, sess.Info.Challenge)
	assert.Equal(t, entity.ChallengeSkipped, sess.Info.Challenge.State)
	assert.Equal(t, base+"/patients", sess.Info.URL)
}

func TestAcquire_FailedChallengeStillProceeds(t *testing.T) {
	page, _, _ := loginPage(base + "/verify_email")
	resolver := &stubResolver{outcome: &entity.ChallengeOutcome{State: entity.ChallengeFailed}}
	uc, _ := newUseCase(page, resolver)

	sess, err := uc.Acquire(context.Background(), entity.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, entity.ChallengeFailed, sess.Info.Challenge.State)
	assert.Equal(t, []string{""}, resolver.pins)
}

func TestAcquire_Rejected(t *testing.T) {
	page, _, _ := loginPage("")
	uc, _ := newUseCase(page, &stubResolver{})

	sess, err := uc.Acquire(context.Background(), entity.Credentials{Username: "u", Password: "wrong"})
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, ErrLoginRejected)
	assert.Equal(t, []string{filepath.Join("debug", "vetradar-login-failed.png")}, page.Screenshots)
	assert.True(t, page.Closed)
}

func TestAcquire_FormNotFound(t *testing.T) {
	page := fakebrowser.NewPage("about:blank", textInput("text"))
	uc, _ := newUseCase(page, &stubResolver{})

	_, err := uc.Acquire(context.Background(), entity.Credentials{Username: "u", Password: "p"})
	assert.ErrorIs(t, err, ErrLoginFormNotFound)
	assert.Equal(t, []string{filepath.Join("debug", "vetradar-error.png")}, page.Screenshots)
	assert.True(t, page.Closed)
}

func TestAcquire_ResolverError(t *testing.T) {
	page, _, _ := loginPage(base + "/set_up_pin")
	boom := errors.New("invalid pin")
	uc, _ := newUseCase(page, &stubResolver{err: boom})

	_, err := uc.Acquire(context.Background(), entity.Credentials{Username: "u", Password: "p", PIN: "x"})
	assert.ErrorIs(t, err, boom)
	assert.True(t, page.Closed)
}

func TestAcquire_BrowserUnavailable(t *testing.T) {
	browser := &fakebrowser.Browser{Err: errors.New("chrome missing")}
	uc := New(browser, &stubResolver{}, logger.NewNop(), DefaultConfig())

	_, err := uc.Acquire(context.Background(), entity.Credentials{})
	assert.ErrorContains(t, err, "chrome missing")
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{BaseURL: " https://app.vetradar.com/ "}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://app.vetradar.com", cfg.BaseURL)

	for _, raw := range []string{"", "app.vetradar.com", "ftp://x", "https://"} {
		c := Config{BaseURL: raw}
		assert.ErrorIs(t, c.Validate(), ErrInvalidURL, raw)
	}
}
