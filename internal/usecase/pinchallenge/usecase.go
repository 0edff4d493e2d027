// Package pinchallenge drives the optional PIN set-up screen shown after
// login: type the PIN into single-digit cells and confirm it, or skip the
// screen, or as a last resort click whatever button is visible.
package pinchallenge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/usecase/cascade"
	"vethub-sync/internal/usecase/invoker"
	"vethub-sync/internal/usecase/wait"
)

var ErrInvalidPIN = errors.New("invalid pin")

const pinCellCSS = `input[type="text"], input[type="password"], input[type="number"], input[type="tel"]`

// Clicker is the guarded click the resolver builds its cascades from.
type Clicker interface {
	ClickTarget(ctx context.Context, page output.PagePort, target entity.SearchTarget, opts invoker.Options) (bool, error)
}

type UseCase struct {
	clicker Clicker
	logger  output.LoggerPort
	metrics output.MetricsPort
	sleep   wait.SleepFunc
	cfg     Config
}

type Option func(*UseCase)

func WithMetrics(m output.MetricsPort) Option {
	return func(uc *UseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

func WithSleep(fn wait.SleepFunc) Option {
	return func(uc *UseCase) {
		if fn != nil {
			uc.sleep = fn
		}
	}
}

func New(clicker Clicker, logger output.LoggerPort, cfg Config, opts ...Option) *UseCase {
	uc := &UseCase{
		clicker: clicker,
		logger:  logger,
		metrics: output.NopMetrics{},
		sleep:   wait.Sleep,
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Handle reports whether the login may proceed past the PIN screen.
func (uc *UseCase) Handle(ctx context.Context, page output.PagePort, pin string) bool {
	outcome, err := uc.Resolve(ctx, page, pin)
	if err != nil {
		uc.logger.Error("PIN challenge aborted", "error", err)
		return false
	}
	return outcome.State.Acceptable()
}

// Resolve runs the challenge state machine to a terminal state. Errors are
// returned only for an unusable PIN or a cancelled ctx; every button miss is
// absorbed by the next fallback.
func (uc *UseCase) Resolve(ctx context.Context, page output.PagePort, pin string) (*entity.ChallengeOutcome, error) {
	if err := uc.validatePIN(pin); err != nil {
		return nil, err
	}

	startURL := page.CurrentURL()
	log := uc.logger.WithField("url", startURL)
	outcome := &entity.ChallengeOutcome{State: entity.ChallengeScanning}

	if err := uc.sleep(ctx, uc.cfg.Settle); err != nil {
		return nil, err
	}

	cells, surface, err := uc.scan(ctx, page)
	if err != nil {
		return nil, err
	}
	outcome.CellsFound = len(cells)
	outcome.Surface = surface
	log.Info("Scanned for PIN cells", "cells", len(cells), "surface", surface)

	if pin != "" && len(cells) >= uc.cfg.PINCells {
		outcome.State = entity.ChallengeEnteringPIN
		entered, err := uc.enter(ctx, cells[:uc.cfg.PINCells], pin)
		outcome.DigitsEntered = entered
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("PIN entry failed, trying to skip", "error", err, "digits", entered)
		} else {
			outcome.State = entity.ChallengeConfirmingPIN
			via, err := uc.confirm(ctx, page, startURL)
			if err != nil {
				return nil, err
			}
			if via != "" {
				return uc.finish(outcome, entity.ChallengeSuccess, via), nil
			}
			log.Warn("PIN confirmation failed, trying to skip")
		}
	}

	via, err := uc.runButtons(ctx, page, uc.cfg.Skip)
	if err != nil {
		return nil, err
	}
	if via != "" {
		return uc.finish(outcome, entity.ChallengeSkipped, via), nil
	}

	log.Warn("Skip buttons not found, clicking any visible button")
	ok, err := uc.clicker.ClickTarget(ctx, page, entity.SearchTarget{}, invoker.Options{RetryCount: 1})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if ok {
		return uc.finish(outcome, entity.ChallengeSkipped, "any visible button"), nil
	}
	log.Debug("Fallback click failed", "error", err)

	path := filepath.Join(uc.cfg.DebugDir, uc.cfg.ScreenshotName)
	if err := page.SaveScreenshot(ctx, path); err != nil {
		log.Warn("Debug screenshot failed", "error", err)
	} else {
		outcome.Screenshot = path
	}
	log.Error("PIN challenge failed", "screenshot", outcome.Screenshot)
	return uc.finish(outcome, entity.ChallengeFailed, ""), nil
}

func (uc *UseCase) validatePIN(pin string) error {
	if pin == "" {
		return nil
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: must contain digits only", ErrInvalidPIN)
		}
	}
	if len(pin) < uc.cfg.PINCells {
		return fmt.Errorf("%w: need %d digits, got %d", ErrInvalidPIN, uc.cfg.PINCells, len(pin))
	}
	return nil
}

func (uc *UseCase) finish(o *entity.ChallengeOutcome, state entity.ChallengeState, via string) *entity.ChallengeOutcome {
	o.State = state
	o.Via = via
	uc.metrics.ObserveChallenge(state)
	uc.logger.Info("PIN challenge resolved", "state", state, "via", via)
	return o
}

// scan returns the PIN cells of the first surface holding enough of them.
// When none qualifies it returns the largest count seen so callers can
// report it.
func (uc *UseCase) scan(ctx context.Context, page output.PagePort) ([]output.ElementPort, string, error) {
	surfaces, err := page.Surfaces(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		uc.logger.Warn("Listing surfaces failed", "error", err)
		return nil, "", nil
	}

	var best []output.ElementPort
	for _, s := range surfaces {
		cells, err := uc.pinCells(ctx, s)
		if err != nil {
			return nil, "", err
		}
		if len(cells) >= uc.cfg.PINCells {
			return cells, s.ID(), nil
		}
		if len(cells) > len(best) {
			best = cells
		}
	}
	return best, "", nil
}

func (uc *UseCase) pinCells(ctx context.Context, s output.SurfacePort) ([]output.ElementPort, error) {
	inputs, err := s.All(ctx, pinCellCSS)
	if err != nil {
		return nil, ctx.Err()
	}

	var cells []output.ElementPort
	for _, el := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if uc.isPINCell(ctx, el) {
			cells = append(cells, el)
		}
	}
	return cells, nil
}

func (uc *UseCase) isPINCell(ctx context.Context, el output.ElementPort) bool {
	probeCtx, cancel := context.WithTimeout(ctx, uc.cfg.ProbeTimeout)
	defer cancel()

	visible, err := el.Visible(probeCtx)
	if err != nil || !visible {
		return false
	}
	maxLen, ok, err := el.Attribute(probeCtx, "maxlength")
	if err != nil {
		return false
	}
	return !ok || strings.TrimSpace(maxLen) == "" || strings.TrimSpace(maxLen) == "1"
}

func (uc *UseCase) enter(ctx context.Context, cells []output.ElementPort, pin string) (int, error) {
	for i, cell := range cells {
		digit := string(pin[i])
		if err := cell.Click(ctx, false); err != nil {
			return i, fmt.Errorf("focus cell %d: %w", i+1, err)
		}
		if err := cell.Fill(ctx, ""); err != nil {
			return i, fmt.Errorf("clear cell %d: %w", i+1, err)
		}
		if err := cell.Type(ctx, digit, uc.cfg.KeystrokeDelay); err != nil {
			return i, fmt.Errorf("type cell %d: %w", i+1, err)
		}
		if err := uc.sleep(ctx, uc.cfg.DigitDelay); err != nil {
			return i + 1, err
		}
	}
	return len(cells), uc.sleep(ctx, uc.cfg.ValidationDelay)
}

// confirm returns the label that confirmed the PIN, or "" when nothing did.
func (uc *UseCase) confirm(ctx context.Context, page output.PagePort, startURL string) (string, error) {
	via, err := uc.runButtons(ctx, page, uc.cfg.Confirm)
	if err != nil || via != "" {
		return via, err
	}
	if uc.autoSubmitted(ctx, page, startURL) {
		return "auto-submit", nil
	}
	return "", ctx.Err()
}

func (uc *UseCase) onPINPage(url string) bool {
	url = strings.ToLower(url)
	for _, marker := range uc.cfg.AutoSubmitMarkers {
		if strings.Contains(url, marker) {
			return true
		}
	}
	return false
}

// autoSubmitted waits for the browser to leave the PIN page by itself. It only
// counts when the challenge started on a PIN page: a URL without a marker is
// not treated as an immediate auto-submit, so the Skip and wildcard fallbacks
// still run.
func (uc *UseCase) autoSubmitted(ctx context.Context, page output.PagePort, startURL string) bool {
	if !uc.onPINPage(startURL) {
		return false
	}
	waitCtx, cancel := context.WithTimeout(ctx, uc.cfg.AutoSubmitWait)
	defer cancel()

	err := page.WaitURL(waitCtx, func(url string) bool { return !uc.onPINPage(url) })
	return err == nil
}

// runButtons clicks through buttons in order and returns the label that
// worked. Only ctx cancellation is an error.
func (uc *UseCase) runButtons(ctx context.Context, page output.PagePort, buttons []Button) (string, error) {
	steps := make([]cascade.Step, 0, len(buttons))
	for _, b := range buttons {
		steps = append(steps, cascade.Step{
			Name: b.Label,
			Run: func(ctx context.Context) error {
				ok, err := uc.clicker.ClickTarget(ctx, page, entity.SearchTarget{Text: b.Label}, b.options())
				if err != nil {
					return err
				}
				if !ok {
					return invoker.ErrNotFound
				}
				return uc.sleep(ctx, uc.cfg.PostClickDelay)
			},
		})
	}

	via, err := cascade.Run(ctx, steps...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		uc.logger.Debug("Cascade exhausted", "error", err)
		return "", nil
	}
	return via, nil
}
