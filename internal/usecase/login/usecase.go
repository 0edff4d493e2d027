// Package login signs in to VetRadar and gets the page past any PIN
// challenge, handing the live page to the caller.
package login

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vethub-sync/internal/application/port/input"
	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/usecase/wait"
)

var (
	ErrInvalidURL        = errors.New("invalid base url")
	ErrLoginFormNotFound = errors.New("login form not found")
	ErrLoginRejected     = errors.New("login rejected")
)

var _ input.SessionAcquirer = (*UseCase)(nil)

// ChallengeResolver handles the PIN screen that may follow the login form.
type ChallengeResolver interface {
	Resolve(ctx context.Context, page output.PagePort, pin string) (*entity.ChallengeOutcome, error)
}

type Config struct {
	BaseURL         string
	DebugDir        string
	NavigateTimeout time.Duration
	Settle          time.Duration
	RedirectTimeout time.Duration
	PostLogin       time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://app.vetradar.com",
		DebugDir:        ".",
		NavigateTimeout: 60 * time.Second,
		Settle:          2 * time.Second,
		RedirectTimeout: 45 * time.Second,
		PostLogin:       3 * time.Second,
	}
}

// Validate normalizes BaseURL in place.
func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, c.BaseURL)
	}
	c.BaseURL = strings.TrimRight(u.String(), "/")
	return nil
}

// challengeMarkers are URL fragments of the screens that follow a first
// login on a new device.
var challengeMarkers = []string{"verify_email", "pin", "set_up"}

type UseCase struct {
	browser  output.BrowserPort
	resolver ChallengeResolver
	logger   output.LoggerPort
	sleep    wait.SleepFunc
	cfg      Config
}

type Option func(*UseCase)

func WithSleep(fn wait.SleepFunc) Option {
	return func(uc *UseCase) {
		if fn != nil {
			uc.sleep = fn
		}
	}
}

func New(browser output.BrowserPort, resolver ChallengeResolver, logger output.LoggerPort, cfg Config, opts ...Option) *UseCase {
	uc := &UseCase{
		browser:  browser,
		resolver: resolver,
		logger:   logger,
		sleep:    wait.Sleep,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *UseCase) Acquire(ctx context.Context, creds entity.Credentials) (*input.Session, error) {
	log := uc.logger.WithField("username", creds.Username)

	page, err := uc.browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	info, err := uc.signIn(ctx, page, creds, log)
	if err != nil {
		shot := "vetradar-error.png"
		if errors.Is(err, ErrLoginRejected) {
			shot = "vetradar-login-failed.png"
		}
		uc.screenshot(ctx, page, shot, log)
		_ = page.Close()
		log.Error("Login failed", "error", err)
		return nil, fmt.Errorf("vetradar login: %w", err)
	}

	log.Info("Login successful", "url", info.URL, "session_id", info.ID)
	return &input.Session{Info: *info, Page: page}, nil
}

func (uc *UseCase) signIn(ctx context.Context, page output.PagePort, creds entity.Credentials, log output.LoggerPort) (*entity.Session, error) {
	loginURL := uc.cfg.BaseURL + "/login"
	log.Info("Navigating to login page", "url", loginURL)

	navCtx, cancel := context.WithTimeout(ctx, uc.cfg.NavigateTimeout)
	err := page.Navigate(navCtx, loginURL)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	if err := uc.sleep(ctx, uc.cfg.Settle); err != nil {
		return nil, err
	}

	fields, err := uc.formInputs(ctx, page)
	if err != nil {
		return nil, err
	}

	if err := fields[0].Fill(ctx, creds.Username); err != nil {
		return nil, fmt.Errorf("fill username: %w", err)
	}
	if err := fields[1].Fill(ctx, creds.Password); err != nil {
		return nil, fmt.Errorf("fill password: %w", err)
	}
	if err := fields[1].PressEnter(ctx); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	log.Debug("Submitted login form")

	redirectCtx, cancel := context.WithTimeout(ctx, uc.cfg.RedirectTimeout)
	err = page.WaitURL(redirectCtx, func(u string) bool { return !strings.Contains(u, "/login") })
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("No redirect after login", "url", page.CurrentURL())
	}
	if err := uc.sleep(ctx, uc.cfg.PostLogin); err != nil {
		return nil, err
	}

	info := &entity.Session{
		ID:        uuid.NewString(),
		Username:  creds.Username,
		StartedAt: time.Now(),
	}

	if current := page.CurrentURL(); hasChallenge(current) {
		log.Info("Challenge page detected", "url", current)
		outcome, err := uc.resolver.Resolve(ctx, page, creds.PIN)
		if err != nil {
			return nil, fmt.Errorf("pin challenge: %w", err)
		}
		if !outcome.State.Acceptable() {
			log.Warn("PIN challenge unresolved, continuing", "state", outcome.State)
		}
		info.Challenge = outcome
	}

	info.URL = page.CurrentURL()
	if strings.Contains(info.URL, "/login") {
		return nil, fmt.Errorf("%w: still on %s", ErrLoginRejected, info.URL)
	}
	return info, nil
}

// formInputs returns the visible inputs of the main document; the first
// two are username and password.
func (uc *UseCase) formInputs(ctx context.Context, page output.PagePort) ([]output.ElementPort, error) {
	surfaces, err := page.Surfaces(ctx)
	if err != nil || len(surfaces) == 0 {
		return nil, fmt.Errorf("%w: no document", ErrLoginFormNotFound)
	}

	all, err := surfaces[0].All(ctx, "input")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoginFormNotFound, err)
	}

	var fields []output.ElementPort
	for _, el := range all {
		if typ, _, _ := el.Attribute(ctx, "type"); strings.EqualFold(typ, "hidden") {
			continue
		}
		if ok, err := el.Visible(ctx); err == nil && ok {
			fields = append(fields, el)
		}
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: found %d inputs", ErrLoginFormNotFound, len(fields))
	}
	return fields, nil
}

func (uc *UseCase) screenshot(ctx context.Context, page output.PagePort, name string, log output.LoggerPort) {
	path := filepath.Join(uc.cfg.DebugDir, name)
	if err := page.SaveScreenshot(ctx, path); err != nil {
		log.Warn("Screenshot failed", "path", path, "error", err)
		return
	}
	log.Info("Saved screenshot", "path", path)
}

func hasChallenge(u string) bool {
	for _, m := range challengeMarkers {
		if strings.Contains(u, m) {
			return true
		}
	}
	return false
}
